package repository

import (
	"context"

	"github.com/hotelviz/flourish-prep/internal/domain/entity"
)

// DatasetRepository defines the interface for loading raw booking datasets.
type DatasetRepository interface {
	LoadDataset(ctx context.Context, path string) (*entity.Dataset, error)
}

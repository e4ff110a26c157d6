// Package dataset loads raw booking CSVs into memory.
package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hotelviz/flourish-prep/internal/domain/entity"
	"github.com/hotelviz/flourish-prep/internal/domain/repository"
	"github.com/hotelviz/flourish-prep/internal/shared/types"
)

// DatasetRepositoryImpl implementa o DatasetRepository.
type DatasetRepositoryImpl struct{}

// NewDatasetRepository cria uma nova implementação do DatasetRepository.
func NewDatasetRepository() repository.DatasetRepository {
	return &DatasetRepositoryImpl{}
}

// LoadDataset reads the whole CSV at path: a fixed header row followed by
// data rows, all with the same column count. The table is held fully in
// memory for the single pass the reshaper makes over it.
func (r *DatasetRepositoryImpl) LoadDataset(ctx context.Context, path string) (*entity.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReaderSize(file, 1<<20))

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset %s: %w", path, types.ErrEmptyDataset)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading dataset header: %w", err)
	}
	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = strings.TrimSpace(col)
	}

	var rows [][]string
	rowNum := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("error reading dataset row %d: %w", rowNum, err)
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s: %w", path, types.ErrEmptyDataset)
	}

	return entity.NewDataset(path, columns, rows), nil
}

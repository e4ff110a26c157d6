package repository

import (
	"github.com/hotelviz/flourish-prep/internal/domain/entity"
)

type ExportRepository interface {
	ExportTableToCSV(table *entity.Table, filename string, outputDir string) (string, error)
	ExportTableToJSON(table *entity.Table, filename string, outputDir string) (string, error)

	ExportRunReportToJSON(report *entity.RunReport, filename string, outputDir string) (string, error)
	ExportRunReportToPDF(report *entity.RunReport, filename string, outputDir string) (string, error)
}

// Package export writes reshaped tables and run reports to disk.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hotelviz/flourish-prep/internal/domain/entity"
	"github.com/hotelviz/flourish-prep/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

// ExportTableToCSV writes a reshaped table as CSV. The file is written to a
// temporary path in the same directory and renamed into place on success, so
// a failed run never leaves a partial output behind.
func (r *ExportRepositoryImpl) ExportTableToCSV(table *entity.Table, filename, outputDir string) (string, error) {
	outputFilename, err := buildFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	err = writeAtomically(outputFilename, func(file *os.File) error {
		writer := csv.NewWriter(file)
		if err := writer.Write(table.Columns); err != nil {
			return fmt.Errorf("error writing CSV header: %w", err)
		}
		for _, row := range table.Rows {
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("error writing CSV record: %w", err)
			}
		}
		writer.Flush()
		return writer.Error()
	})
	if err != nil {
		return "", err
	}

	return filepath.Abs(outputFilename)
}

// ExportTableToJSON writes a reshaped table as an array of objects keyed by
// the column names, in table order.
func (r *ExportRepositoryImpl) ExportTableToJSON(table *entity.Table, filename, outputDir string) (string, error) {
	outputFilename, err := buildFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	records := make([]map[string]string, len(table.Rows))
	for i, row := range table.Rows {
		record := make(map[string]string, len(table.Columns))
		for j, col := range table.Columns {
			record[col] = row[j]
		}
		records[i] = record
	}

	err = writeAtomically(outputFilename, func(file *os.File) error {
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(records); err != nil {
			return fmt.Errorf("error encoding JSON data: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return filepath.Abs(outputFilename)
}

// ExportRunReportToJSON writes the run summary as JSON.
func (r *ExportRepositoryImpl) ExportRunReportToJSON(report *entity.RunReport, filename, outputDir string) (string, error) {
	outputFilename, err := buildFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	err = writeAtomically(outputFilename, func(file *os.File) error {
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("error encoding run report JSON: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return filepath.Abs(outputFilename)
}

// ExportRunReportToPDF writes the run summary as a one-page-per-section PDF.
func (r *ExportRepositoryImpl) ExportRunReportToPDF(report *entity.RunReport, filename, outputDir string) (string, error) {
	outputFilename, err := buildFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	drawSection := func(title string, content string) {
		if strings.TrimSpace(content) == "" {
			return
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.MultiCell(190, 5, tr(content), "", "L", false)
		pdf.Ln(8)
	}

	pdf.AddPage()

	// Cabeçalho
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  Flourish Data Preparation Report"), "", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Dataset: %s", report.Input)), "", 1, "L", true, 0, "")
	pdf.Ln(10)

	summary := fmt.Sprintf(
		"Input rows: %d\nCanceled rows: %d\nGlobal cancellation rate: %.2f%%\nTables generated: %d",
		report.InputRows, report.CanceledRows, report.GlobalRate*100, len(report.Tables),
	)
	drawSection("Dataset Summary", summary)

	var b strings.Builder
	for _, t := range report.Tables {
		b.WriteString(fmt.Sprintf("%s (%s by %s): %d rows x %d columns\n",
			t.Name, t.Kind, strings.Join(t.GroupBy, ", "), t.Rows, t.Columns))
		for _, f := range t.Files {
			b.WriteString(fmt.Sprintf("  - %s\n", f))
		}
	}
	drawSection("Generated Tables", b.String())

	// Rodapé
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	footerText := fmt.Sprintf("Generated by flourish-prep | %s", time.Now().Format("2006-01-02"))
	pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")

	err = writeAtomically(outputFilename, func(file *os.File) error {
		if err := pdf.Output(file); err != nil {
			return fmt.Errorf("error writing PDF file: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

// buildFilename resolves the output path and guarantees the directory
// exists. Names are stable across runs: downstream chart configurations
// reference them by name, so no timestamp is appended.
func buildFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	return filepath.Join(dir, fmt.Sprintf("%s.%s", base, ext)), nil
}

// writeAtomically writes through a temp file in the destination directory
// and renames it over the final path only when write succeeds.
func writeAtomically(path string, write func(*os.File) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("error closing temporary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("error renaming output file: %w", err)
	}
	return nil
}

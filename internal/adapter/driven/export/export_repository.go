package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jung-kurt/gofpdf"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
	"github.com/diillson/genomics-finops-go/internal/domain/repository"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

var csvHeaders = []string{
	"project_id", "project_name",
	"unique_live_bytes", "unique_live_cost",
	"unique_archived_bytes", "unique_archived_cost",
	"total_live_bytes", "total_live_cost",
	"total_archived_bytes", "total_archived_cost",
}

// ExportToCSV grava uma linha por projeto com tamanhos em bytes e custos diários.
func (r *ExportRepositoryImpl) ExportToCSV(report entity.StorageReport, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeaders); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, p := range report.Projects {
		record := []string{p.ProjectID, p.ProjectName}
		for _, b := range []entity.CostBucket{p.UniqueLive, p.UniqueArchived, p.TotalLive, p.TotalArchived} {
			record = append(record,
				strconv.FormatInt(b.Size, 10),
				strconv.FormatFloat(b.Cost, 'f', 6, 64),
			)
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportToJSON grava o relatório completo, resumo da execução incluído.
func (r *ExportRepositoryImpl) ExportToJSON(report entity.StorageReport, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error marshalling to JSON: %w", err)
	}

	if err := os.WriteFile(outputFilename, jsonData, 0644); err != nil {
		return "", fmt.Errorf("error writing JSON file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportToPDF gera um resumo da execução seguido da tabela de custos.
func (r *ExportRepositoryImpl) ExportToPDF(report entity.StorageReport, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	footer := fmt.Sprintf("Generated by Genomics FinOps (Go) | %s", r.now().Format("2006-01-02"))
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(footer), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	drawSection := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+277, pdf.GetY())
		pdf.Ln(4)
	}

	s := report.Summary
	pdf.AddPage()
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("  Storage Costs for %s", s.RunDate.Format("2006-01-02"))), "", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Run ID: %s", s.RunID)), "", 1, "L", true, 0, "")
	pdf.Ln(8)

	drawSection("Run Summary")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	summaryLines := []string{
		fmt.Sprintf("Projects: %d (%d empty, %d failed, %d without unique storage)",
			s.Projects, len(s.EmptyProjects), len(s.FailedProjects), s.DroppedFromUnique),
		fmt.Sprintf("Files: %d records, %d distinct", s.FileRecords, s.DistinctFiles),
		fmt.Sprintf("Rates: $%.4f live, $%.4f archived per GiB-month over %d days",
			s.Rates.LivePerGiBMonth, s.Rates.ArchivedPerGiBMonth, s.DaysInMonth),
		fmt.Sprintf("Unique: %s, $%.2f per day", formatBytes(s.UniqueSize), s.UniqueCost),
		fmt.Sprintf("Total: %s, $%.2f per day", formatBytes(s.TotalSize), s.TotalCost),
	}
	pdf.MultiCell(277, 5, tr(strings.Join(summaryLines, "\n")), "", "L", false)
	pdf.Ln(8)

	drawSection("Cost By Project")
	widths := []float64{50, 57, 28, 28, 28, 28, 29, 29}
	headers := []string{"Project", "Name", "Unique Live", "Unique Arch.", "Total Live", "Total Arch.", "Unique $/day", "Total $/day"}

	pdf.SetFont("Arial", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, p := range report.Projects {
		cells := []string{
			p.ProjectID,
			p.ProjectName,
			formatBytes(p.UniqueLive.Size),
			formatBytes(p.UniqueArchived.Size),
			formatBytes(p.TotalLive.Size),
			formatBytes(p.TotalArchived.Size),
			fmt.Sprintf("$%.4f", p.UniqueCost()),
			fmt.Sprintf("$%.4f", p.TotalCost()),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, tr(c), "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
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
	timestamp := r.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

func formatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}

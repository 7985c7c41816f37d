package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/diillson/aws-vpc-cleaner/internal/domain/entity"
	"github.com/diillson/aws-vpc-cleaner/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

var reportHeaders = []string{
	"Run ID", "CLI Profile", "AWS Account ID", "Region", "VPC ID", "CIDR",
	"Attached Resources", "Outcome", "Attempts", "Error",
}

// reportRows monta uma linha por VPC padrão encontrada, com o resultado da deleção.
func reportRows(report entity.RunReport) [][]string {
	rows := make([][]string, 0, report.DefaultVPCs.Len())
	for _, vpc := range report.DefaultVPCs {
		attached := "not inspected"
		if vpc.Dependencies != nil {
			attached = vpc.Dependencies.String()
		}

		outcome, attempts, errMsg := outcomeFor(report, vpc.Region)
		rows = append(rows, []string{
			report.RunID,
			report.Profile,
			report.AccountID,
			vpc.Region,
			vpc.VpcID,
			vpc.CidrBlock,
			attached,
			outcome,
			strconv.Itoa(attempts),
			errMsg,
		})
	}
	return rows
}

func outcomeFor(report entity.RunReport, region string) (string, int, string) {
	switch {
	case report.DryRun:
		return "dry run", 0, ""
	case !report.Confirmed:
		return "aborted", 0, ""
	}

	result, ok := report.ResultFor(region)
	switch {
	case !ok:
		return "not attempted", 0, ""
	case result.Deleted:
		return "deleted", result.Attempts, ""
	case result.Attempts == 0:
		return "not attempted", 0, result.Error
	default:
		return "failed", result.Attempts, result.Error
	}
}

func (r *ExportRepositoryImpl) ExportRunReportToCSV(report entity.RunReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(reportHeaders); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}
	if err := writer.WriteAll(reportRows(report)); err != nil {
		return "", fmt.Errorf("error writing CSV rows: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportRunReportToJSON(report entity.RunReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportRunReportToPDF(report entity.RunReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "AWS Default VPC Cleanup Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	meta := []string{
		fmt.Sprintf("Run ID: %s", report.RunID),
		fmt.Sprintf("Profile: %s", report.Profile),
		fmt.Sprintf("Account: %s", report.AccountID),
		fmt.Sprintf("Started: %s", report.StartedAt.Format(time.RFC3339)),
		fmt.Sprintf("Finished: %s", report.FinishedAt.Format(time.RFC3339)),
		fmt.Sprintf("Regions scanned: %d", len(report.Regions)),
		fmt.Sprintf("Default VPCs found: %d, deleted: %d", report.DefaultVPCs.Len(), report.DeletedCount()),
	}
	for _, line := range meta {
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	// Colunas da tabela (sem Run ID, Profile e Account, já no cabeçalho)
	columns := reportHeaders[3:]
	widths := []float64{28, 36, 32, 70, 24, 18, 69}

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	pdf.SetFont("Arial", "B", 9)
	for i, col := range columns {
		pdf.CellFormat(widths[i], 8, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	for _, row := range reportRows(report) {
		for i, cell := range row[3:] {
			pdf.CellFormat(widths[i], 7, tr(truncate(cell, 60)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func generateFilename(base, dir, ext string) (string, error) {
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
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}

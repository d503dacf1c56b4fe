package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"talenthub-backend/internal/authz"
	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv"
	exportPageSize  = 100
)

var exportHeaders = []string{
	"APPLICATION ID", "FULL NAME", "EMAIL", "PHONE", "LOCATION", "SKILLS",
	"EXPECTED SALARY", "AVAILABILITY", "STATUS", "APPLIED AT", "RESUME URL",
}

type exportUsecase struct {
	appRepo domain.ApplicationRepository
	jobRepo domain.JobRepository
	now     func() time.Time
}

// NewExportUsecase creates the application export usecase
func NewExportUsecase(appRepo domain.ApplicationRepository, jobRepo domain.JobRepository) domain.ExportUsecase {
	return &exportUsecase{appRepo: appRepo, jobRepo: jobRepo, now: time.Now}
}

// ExportJobApplications renders every application of an owned job as xlsx
// (default) or csv.
func (u *exportUsecase) ExportJobApplications(ctx context.Context, s *domain.Session, jobID, format string) (*domain.ExportFile, error) {
	// 1. Owner only
	if err := authz.RequireRole(s, domain.RoleEmployer); err != nil {
		return nil, err
	}
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, repoError(err, "Job not found")
	}
	if err := authz.RequireJobOwner(s, job); err != nil {
		return nil, err
	}

	format = strings.ToLower(format)
	if format != "" && format != "xlsx" && format != "csv" {
		return nil, apperror.BadRequest(fmt.Sprintf("Unsupported export format: %s", format))
	}

	// 2. Collect all pages
	var apps []domain.Application
	for page := 1; ; page++ {
		batch, total, err := u.appRepo.List(ctx, domain.ApplicationFilter{JobID: job.ID, EmployerID: s.UserID, Page: page, Limit: exportPageSize})
		if err != nil {
			return nil, apperror.Internal(err)
		}
		apps = append(apps, batch...)
		if len(batch) < exportPageSize || int64(len(apps)) >= total {
			break
		}
	}

	// 3. Render
	stamp := u.now().UTC().Format("20060102_150405")
	rows := make([][]string, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, exportRow(a))
	}

	if format == "csv" {
		content, err := renderCSV(rows)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return &domain.ExportFile{Content: content, FileName: fmt.Sprintf("applications_%s_%s.csv", job.ID, stamp), ContentType: contentTypeCSV}, nil
	}

	content, err := renderExcel(rows)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.ExportFile{Content: content, FileName: fmt.Sprintf("applications_%s_%s.xlsx", job.ID, stamp), ContentType: contentTypeXLSX}, nil
}

func exportRow(a domain.Application) []string {
	salary := ""
	if a.Applicant.ExpectedSalary != nil {
		salary = fmt.Sprintf("%.0f", *a.Applicant.ExpectedSalary)
	}
	resume := ""
	if a.Resume != nil {
		resume = a.Resume.URL
	}
	return []string{
		a.ID,
		a.Applicant.FullName,
		a.Applicant.Email,
		a.Applicant.Phone,
		a.Applicant.Location,
		strings.Join(a.Applicant.Skills, ", "),
		salary,
		string(a.Applicant.Availability),
		a.Status.Label(),
		a.AppliedAt.UTC().Format(time.RFC3339),
		resume,
	}
}

func renderExcel(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Applications"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	// Header row
	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	// Dark blue header with white text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := range exportHeaders {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}
	for _, row := range rows {
		safe := make([]string, len(row))
		for i, v := range row {
			safe[i] = csvCell(v)
		}
		if err := w.Write(safe); err != nil {
			return nil, fmt.Errorf("failed to write CSV file: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}
	return buf.Bytes(), nil
}

// csvCell keeps spreadsheet apps from evaluating applicant-supplied text
// as a formula.
func csvCell(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

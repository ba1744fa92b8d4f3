package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"finoffice-backend/internal/models"
	"finoffice-backend/internal/repositories"
)

// ReportStore covers the aggregate queries the report view needs.
type ReportStore interface {
	CountByStatus(ctx context.Context, employeeID string) (map[string]int, error)
	Recent(ctx context.Context, employeeID string, limit int) ([]*models.Entry, error)
}

// ArchiveCounter exposes the archived-completion count.
// *repositories.CompletedClientRepository implements it.
type ArchiveCounter interface {
	CountByEmployee(ctx context.Context, employeeID string) (int, error)
}

// NameResolver resolves an employee id to a display name.
type NameResolver interface {
	GetAuthAccount(ctx context.Context, accountID string) (*models.Account, error)
}

type ReportService struct {
	Entries  ReportStore
	Archive  ArchiveCounter
	Accounts NameResolver
}

func NewReportService(entries ReportStore, archive ArchiveCounter, accounts NameResolver) *ReportService {
	return &ReportService{
		Entries:  entries,
		Archive:  archive,
		Accounts: accounts,
	}
}

// EmployeeReport aggregates one employee's pipeline counts and recent
// activity. Completed counts come from the archive, the live table only
// holds the active pipeline plus rows completed but not yet filtered.
func (s *ReportService) EmployeeReport(ctx context.Context, employeeID string) (*models.EmployeeReport, error) {
	counts, err := s.Entries.CountByStatus(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	completed, err := s.Archive.CountByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to count completions: %w", err)
	}

	recent, err := s.Entries.Recent(ctx, employeeID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent entries: %w", err)
	}

	name := employeeID
	if account, err := s.Accounts.GetAuthAccount(ctx, employeeID); err == nil {
		name = account.Name
	}

	report := &models.EmployeeReport{
		EmployeeID:    employeeID,
		EmployeeName:  name,
		Pending:       counts[models.StatusPending],
		InProgress:    counts[models.StatusInProgress],
		Completed:     completed,
		RecentEntries: recent,
	}
	report.Total = report.Pending + report.InProgress + report.Completed
	if report.Total > 0 {
		report.CompletionRate = float64(report.Completed) / float64(report.Total)
	}
	return report, nil
}

// GeneratePDF renders an employee report as a one-page PDF.
func (s *ReportService) GeneratePDF(report *models.EmployeeReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "FinOffice - Employee Performance Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", time.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Employee", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", report.EmployeeName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("ID: %s", report.EmployeeID), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Pipeline Summary", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(47, 8, fmt.Sprintf("Pending: %d", report.Pending), "1", 0, "C", false, 0, "")
	pdf.CellFormat(47, 8, fmt.Sprintf("In Progress: %d", report.InProgress), "1", 0, "C", false, 0, "")
	pdf.CellFormat(48, 8, fmt.Sprintf("Completed: %d", report.Completed), "1", 0, "C", false, 0, "")
	pdf.CellFormat(48, 8, fmt.Sprintf("Completion: %.0f%%", report.CompletionRate*100), "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Recent Activity", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(20, 7, "Serial", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 7, "Client", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 7, "Purpose", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Status", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, e := range report.RecentEntries {
		purpose := e.Purpose
		if len(purpose) > 28 {
			purpose = purpose[:25] + "..."
		}
		name := e.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", e.SerialNumber), "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, purpose, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, e.Date.Format("02-Jan-2006"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, e.Status, "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	_ ReportStore    = (*repositories.EntryRepository)(nil)
	_ ArchiveCounter = (*repositories.CompletedClientRepository)(nil)
	_ NameResolver   = (*repositories.AccountRepository)(nil)
)

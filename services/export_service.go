package services

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/crimepatrol/backend/db"
	errs "github.com/crimepatrol/backend/errors"
	"github.com/crimepatrol/backend/models"
	"github.com/xuri/excelize/v2"
)

type ExportService interface {
	ExportReportsXLSX(filters models.ReportFilters) ([]byte, string, error)
}

type exportService struct {
	reportRepo db.ReportRepository
}

func NewExportService(reportRepo db.ReportRepository) ExportService {
	return &exportService{reportRepo: reportRepo}
}

var exportHeaders = []string{"ID", "Incident Type", "Incident Date", "Status", "Reported By", "Description", "Created At"}

// ExportReportsXLSX renders the filtered report listing as a spreadsheet
// for the admin dashboard. Returns the file bytes and a suggested
// filename.
func (e *exportService) ExportReportsXLSX(filters models.ReportFilters) ([]byte, string, error) {
	reports, err := e.reportRepo.ListReports(filters)
	if err != nil {
		return nil, "", errs.NewKind("failed to list reports for export", http.StatusInternalServerError, errs.KindInternal)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Reports"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, r := range reports {
		values := []interface{}{
			r.ID.String(),
			r.IncidentType,
			r.IncidentDate.Format("2006-01-02"),
			r.Status,
			r.ReportedBy,
			r.Description,
			r.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", errs.NewKind("failed to write spreadsheet", http.StatusInternalServerError, errs.KindInternal)
	}

	filename := fmt.Sprintf("reports_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

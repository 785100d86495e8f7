package services

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/crimepatrol/backend/db"
	errs "github.com/crimepatrol/backend/errors"
	"github.com/crimepatrol/backend/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type ReportService interface {
	CreateCompleteReport(req *models.CreateReportRequest) (*models.CompleteReport, error)
	GetCompleteReport(reportID uuid.UUID) (*models.CompleteReport, error)
	UpdateReportStatus(reportID uuid.UUID, status string) (*models.Report, error)
	ListReports(filters models.ReportFilters) ([]models.Report, error)
	DeleteReport(reportID uuid.UUID) error
	GetReportMarkers() ([]models.ReportMarker, error)
	GetReportStats() (*models.ReportStats, error)
}

type reportService struct {
	reportRepo db.ReportRepository
	notifier   NotificationService
}

func NewReportService(reportRepo db.ReportRepository, notifier NotificationService) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		notifier:   notifier,
	}
}

func validateCreateRequest(req *models.CreateReportRequest) error {
	var problems []string
	if strings.TrimSpace(req.IncidentType) == "" {
		problems = append(problems, "incident_type is required")
	}
	if req.IncidentDate.IsZero() {
		problems = append(problems, "incident_date is required")
	}
	if strings.TrimSpace(req.ReportedBy) == "" {
		problems = append(problems, "reported_by is required")
	}
	if req.Status != "" && !models.IsValidStatus(req.Status) {
		problems = append(problems, fmt.Sprintf("invalid status %q", req.Status))
	}
	if req.Location != nil {
		if (req.Location.Latitude == nil) != (req.Location.Longitude == nil) {
			problems = append(problems, "location must carry both latitude and longitude or neither")
		}
	}
	for i, m := range req.Media {
		if strings.TrimSpace(m.FileID) == "" {
			problems = append(problems, fmt.Sprintf("media[%d].file_id is required", i))
		}
	}
	if len(problems) > 0 {
		return errs.NewKind(strings.Join(problems, "; "), http.StatusBadRequest, errs.KindValidation)
	}
	return nil
}

// CreateCompleteReport writes the parent report first, then each child
// section stamped with the parent's ID. A section failure after the
// parent exists surfaces as a partial write carrying the report ID so
// the caller can retry or clean up. Nothing is rolled back.
func (s *reportService) CreateCompleteReport(req *models.CreateReportRequest) (*models.CompleteReport, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}

	report := &models.Report{
		ID:               uuid.New(),
		IncidentType:     req.IncidentType,
		IncidentDate:     req.IncidentDate,
		IncidentTime:     req.IncidentTime,
		IsInProgress:     req.IsInProgress,
		Description:      req.Description,
		ReportedBy:       req.ReportedBy,
		Status:           status,
		IsVictimReporter: req.IsVictimReporter,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	saved, err := s.reportRepo.SaveReport(report)
	if err != nil {
		return nil, errs.NewKind("failed to create report", http.StatusInternalServerError, errs.KindInternal)
	}

	complete := &models.CompleteReport{
		Report:    saved,
		Victims:   []models.ReportVictim{},
		Suspects:  []models.ReportSuspect{},
		Witnesses: []models.ReportWitness{},
		Media:     []models.ReportMedia{},
	}

	if req.Location != nil {
		location := &models.ReportLocation{
			ID:        uuid.New(),
			ReportID:  saved.ID,
			Address:   req.Location.Address,
			Type:      req.Location.Type,
			Details:   req.Location.Details,
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
		}
		if err := s.reportRepo.SaveLocation(location); err != nil {
			log.Printf("partial write on report %s: location: %v", saved.ID, err)
			return complete, errs.NewPartialWrite(saved.ID.String(), "location", err)
		}
		complete.Location = location
	}

	if req.ReporterInfo != nil {
		info := &models.ReportReporterInfo{
			ID:       uuid.New(),
			ReportID: saved.ID,
			Name:     req.ReporterInfo.Name,
			Phone:    req.ReporterInfo.Phone,
			Email:    req.ReporterInfo.Email,
		}
		if err := s.reportRepo.SaveReporterInfo(info); err != nil {
			log.Printf("partial write on report %s: reporter info: %v", saved.ID, err)
			return complete, errs.NewPartialWrite(saved.ID.String(), "reporter_info", err)
		}
		complete.ReporterInfo = info
	}

	for _, v := range req.Victims {
		victim := models.ReportVictim{
			ID:       uuid.New(),
			ReportID: saved.ID,
			Name:     v.Name,
			Contact:  v.Contact,
		}
		if err := s.reportRepo.SaveVictim(&victim); err != nil {
			log.Printf("partial write on report %s: victim: %v", saved.ID, err)
			return complete, errs.NewPartialWrite(saved.ID.String(), "victims", err)
		}
		complete.Victims = append(complete.Victims, victim)
	}

	for _, sp := range req.Suspects {
		suspect := models.ReportSuspect{
			ID:          uuid.New(),
			ReportID:    saved.ID,
			Description: sp.Description,
			Vehicle:     sp.Vehicle,
		}
		if err := s.reportRepo.SaveSuspect(&suspect); err != nil {
			log.Printf("partial write on report %s: suspect: %v", saved.ID, err)
			return complete, errs.NewPartialWrite(saved.ID.String(), "suspects", err)
		}
		complete.Suspects = append(complete.Suspects, suspect)
	}

	for _, w := range req.Witnesses {
		witness := models.ReportWitness{
			ID:       uuid.New(),
			ReportID: saved.ID,
			Info:     w.Info,
		}
		if err := s.reportRepo.SaveWitness(&witness); err != nil {
			log.Printf("partial write on report %s: witness: %v", saved.ID, err)
			return complete, errs.NewPartialWrite(saved.ID.String(), "witnesses", err)
		}
		complete.Witnesses = append(complete.Witnesses, witness)
	}

	for _, mf := range req.Media {
		media := models.ReportMedia{
			ID:               uuid.New(),
			ReportID:         saved.ID,
			FileID:           mf.FileID,
			MediaType:        mf.MediaType,
			FileNameOriginal: mf.FileNameOriginal,
			DisplayOrder:     mf.DisplayOrder,
		}
		if err := s.reportRepo.SaveMedia(&media); err != nil {
			log.Printf("partial write on report %s: media: %v", saved.ID, err)
			return complete, errs.NewPartialWrite(saved.ID.String(), "media", err)
		}
		complete.Media = append(complete.Media, media)
	}

	return complete, nil
}

// GetCompleteReport assembles the parent and all six child sections.
// Section fetches run concurrently. A missing optional section is not
// an error, only infrastructure failures surface.
func (s *reportService) GetCompleteReport(reportID uuid.UUID) (*models.CompleteReport, error) {
	report, err := s.reportRepo.GetReportByID(reportID)
	if err != nil {
		if errors.Is(err, db.ErrReportNotFound) {
			return nil, errs.NewKind("report not found", http.StatusNotFound, errs.KindNotFound)
		}
		return nil, errs.NewKind("failed to fetch report", http.StatusInternalServerError, errs.KindInternal)
	}

	complete := &models.CompleteReport{Report: report}

	var wg sync.WaitGroup
	fetchErrs := make([]error, 6)

	wg.Add(6)
	go func() {
		defer wg.Done()
		complete.Location, fetchErrs[0] = s.reportRepo.GetLocationByReportID(reportID)
	}()
	go func() {
		defer wg.Done()
		complete.ReporterInfo, fetchErrs[1] = s.reportRepo.GetReporterInfoByReportID(reportID)
	}()
	go func() {
		defer wg.Done()
		complete.Victims, fetchErrs[2] = s.reportRepo.GetVictimsByReportID(reportID)
	}()
	go func() {
		defer wg.Done()
		complete.Suspects, fetchErrs[3] = s.reportRepo.GetSuspectsByReportID(reportID)
	}()
	go func() {
		defer wg.Done()
		complete.Witnesses, fetchErrs[4] = s.reportRepo.GetWitnessesByReportID(reportID)
	}()
	go func() {
		defer wg.Done()
		complete.Media, fetchErrs[5] = s.reportRepo.GetMediaByReportID(reportID)
	}()
	wg.Wait()

	for _, ferr := range fetchErrs {
		if ferr != nil {
			return nil, errs.NewKind("failed to assemble report sections", http.StatusInternalServerError, errs.KindInternal)
		}
	}

	if complete.Victims == nil {
		complete.Victims = []models.ReportVictim{}
	}
	if complete.Suspects == nil {
		complete.Suspects = []models.ReportSuspect{}
	}
	if complete.Witnesses == nil {
		complete.Witnesses = []models.ReportWitness{}
	}
	if complete.Media == nil {
		complete.Media = []models.ReportMedia{}
	}

	return complete, nil
}

// UpdateReportStatus validates the target status against the allowed
// list and applies it. Any valid status may follow any other, there is
// no transition graph. Watchers are notified after the write and a
// notification failure never affects the result.
func (s *reportService) UpdateReportStatus(reportID uuid.UUID, status string) (*models.Report, error) {
	if !models.IsValidStatus(status) {
		return nil, errs.NewKind(
			fmt.Sprintf("invalid status %q, must be one of: %s", status, strings.Join(models.ValidStatuses, ", ")),
			http.StatusBadRequest, errs.KindInvalidStatus,
		)
	}

	report, err := s.reportRepo.UpdateReportStatus(reportID, status)
	if err != nil {
		if errors.Is(err, db.ErrReportNotFound) {
			return nil, errs.NewKind("report not found", http.StatusNotFound, errs.KindNotFound)
		}
		return nil, errs.NewKind("failed to update report status", http.StatusInternalServerError, errs.KindInternal)
	}

	if s.notifier != nil {
		go s.notifier.NotifyReportStatus(report)
	}

	return report, nil
}

func (s *reportService) ListReports(filters models.ReportFilters) ([]models.Report, error) {
	if filters.Status != "" && !models.IsValidStatus(filters.Status) {
		return nil, errs.NewKind(
			fmt.Sprintf("invalid status filter %q", filters.Status),
			http.StatusBadRequest, errs.KindValidation,
		)
	}
	reports, err := s.reportRepo.ListReports(filters)
	if err != nil {
		return nil, errs.NewKind("failed to list reports", http.StatusInternalServerError, errs.KindInternal)
	}
	return reports, nil
}

func (s *reportService) DeleteReport(reportID uuid.UUID) error {
	err := s.reportRepo.DeleteReport(reportID)
	if err != nil {
		if errors.Is(err, db.ErrReportNotFound) {
			return errs.NewKind("report not found", http.StatusNotFound, errs.KindNotFound)
		}
		return errs.NewKind("failed to delete report", http.StatusInternalServerError, errs.KindInternal)
	}
	return nil
}

func (s *reportService) GetReportMarkers() ([]models.ReportMarker, error) {
	markers, err := s.reportRepo.GetReportMarkers()
	if err != nil {
		return nil, errs.NewKind("failed to fetch report markers", http.StatusInternalServerError, errs.KindInternal)
	}
	return markers, nil
}

func (s *reportService) GetReportStats() (*models.ReportStats, error) {
	total, err := s.reportRepo.GetTotalReportCount()
	if err != nil {
		return nil, errs.NewKind("failed to count reports", http.StatusInternalServerError, errs.KindInternal)
	}
	today, err := s.reportRepo.GetReportsPostedTodayCount()
	if err != nil {
		return nil, errs.NewKind("failed to count reports", http.StatusInternalServerError, errs.KindInternal)
	}
	return &models.ReportStats{TotalReports: total, ReportsToday: today}, nil
}

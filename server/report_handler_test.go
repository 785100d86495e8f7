package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crimepatrol/backend/config"
	errs "github.com/crimepatrol/backend/errors"
	"github.com/crimepatrol/backend/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReportService struct {
	createFn func(req *models.CreateReportRequest) (*models.CompleteReport, error)
	getFn    func(id uuid.UUID) (*models.CompleteReport, error)
	statusFn func(id uuid.UUID, status string) (*models.Report, error)
	listFn   func(filters models.ReportFilters) ([]models.Report, error)
}

func (s *stubReportService) CreateCompleteReport(req *models.CreateReportRequest) (*models.CompleteReport, error) {
	return s.createFn(req)
}

func (s *stubReportService) GetCompleteReport(id uuid.UUID) (*models.CompleteReport, error) {
	return s.getFn(id)
}

func (s *stubReportService) UpdateReportStatus(id uuid.UUID, status string) (*models.Report, error) {
	return s.statusFn(id, status)
}

func (s *stubReportService) ListReports(filters models.ReportFilters) ([]models.Report, error) {
	return s.listFn(filters)
}

func (s *stubReportService) DeleteReport(id uuid.UUID) error { return nil }

func (s *stubReportService) GetReportMarkers() ([]models.ReportMarker, error) {
	return []models.ReportMarker{}, nil
}

func (s *stubReportService) GetReportStats() (*models.ReportStats, error) {
	return &models.ReportStats{TotalReports: 12, ReportsToday: 4}, nil
}

func testRouter(svc *stubReportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	s := &Server{
		Config:        &config.Config{},
		ReportService: svc,
	}
	r := gin.New()
	r.POST("/api/v1/reports", s.handleCreateReport())
	r.GET("/api/v1/reports", s.handleListReports())
	r.GET("/api/v1/reports/:id", s.handleGetReport())
	r.PATCH("/api/v1/reports/:id/status", s.handleUpdateReportStatus())
	r.GET("/api/v1/reports/stats", s.handleReportStats())
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandleCreateReport(t *testing.T) {
	reportID := uuid.New()
	svc := &stubReportService{
		createFn: func(req *models.CreateReportRequest) (*models.CompleteReport, error) {
			return &models.CompleteReport{
				Report: &models.Report{ID: reportID, Status: models.StatusPending},
			}, nil
		},
	}
	router := testRouter(svc)

	payload := `{"incident_type":"theft","incident_date":"2025-03-10T00:00:00Z","reported_by":"user-42"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "report created successfully", body["message"])
}

func TestHandleCreateReportBadBody(t *testing.T) {
	router := testRouter(&stubReportService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewBufferString(`{"incident_type":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateReportPartialWrite(t *testing.T) {
	reportID := uuid.New()
	svc := &stubReportService{
		createFn: func(req *models.CreateReportRequest) (*models.CompleteReport, error) {
			return &models.CompleteReport{Report: &models.Report{ID: reportID}},
				errs.NewPartialWrite(reportID.String(), "victims", assert.AnError)
		},
	}
	router := testRouter(svc)

	payload := `{"incident_type":"theft","incident_date":"2025-03-10T00:00:00Z","reported_by":"user-42"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeEnvelope(t, w)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	// the orphaned parent ID is surfaced to the client
	assert.Equal(t, reportID.String(), data["report_id"])
	assert.Equal(t, string(errs.KindPartialWrite), data["kind"])
}

func TestHandleGetReportInvalidID(t *testing.T) {
	router := testRouter(&stubReportService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetReportNotFound(t *testing.T) {
	svc := &stubReportService{
		getFn: func(id uuid.UUID) (*models.CompleteReport, error) {
			return nil, errs.NewKind("report not found", http.StatusNotFound, errs.KindNotFound)
		},
	}
	router := testRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleUpdateReportStatusInvalid(t *testing.T) {
	svc := &stubReportService{
		statusFn: func(id uuid.UUID, status string) (*models.Report, error) {
			return nil, errs.NewKind("invalid status", http.StatusBadRequest, errs.KindInvalidStatus)
		},
	}
	router := testRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/reports/"+uuid.NewString()+"/status",
		bytes.NewBufferString(`{"status":"archived"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeEnvelope(t, w)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, string(errs.KindInvalidStatus), data["kind"])
}

func TestHandleListReportsBadDateFilter(t *testing.T) {
	router := testRouter(&stubReportService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports?date_from=notadate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleReportStats(t *testing.T) {
	router := testRouter(&stubReportService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(12), data["total_reports"])
	assert.Equal(t, float64(4), data["reports_today"])
}

func TestHandleListReportsPassesFilters(t *testing.T) {
	var got models.ReportFilters
	svc := &stubReportService{
		listFn: func(filters models.ReportFilters) ([]models.Report, error) {
			got = filters
			return []models.Report{}, nil
		},
	}
	router := testRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/reports?status=approved&reported_by=user-42&date_from=2025-01-01T00:00:00Z&page=3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, "user-42", got.ReportedBy)
	require.NotNil(t, got.DateFrom)
	assert.Equal(t, 3, got.Page)
}

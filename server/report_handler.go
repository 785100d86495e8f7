package server

import (
	"net/http"
	"strconv"
	"time"

	apiError "github.com/crimepatrol/backend/errors"
	"github.com/crimepatrol/backend/models"
	"github.com/crimepatrol/backend/server/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// respondServiceError maps a service error onto the response envelope,
// preserving the partial-write report ID when present.
func respondServiceError(c *gin.Context, err error, fallback string) {
	var apiErr *apiError.Error
	if errors.As(err, &apiErr) {
		data := gin.H{}
		if apiErr.ReportID != "" {
			data["report_id"] = apiErr.ReportID
		}
		if apiErr.Kind != "" {
			data["kind"] = apiErr.Kind
		}
		response.JSON(c, fallback, apiErr.Status, data, []string{apiErr.Message})
		return
	}
	response.JSON(c, fallback, http.StatusInternalServerError, nil, []string{err.Error()})
}

func (s *Server) handleCreateReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "invalid request body", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}

		complete, err := s.ReportService.CreateCompleteReport(&req)
		if err != nil {
			respondServiceError(c, err, "could not create report")
			return
		}

		response.JSON(c, "report created successfully", http.StatusCreated, complete, nil)
	}
}

func (s *Server) handleGetReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		reportID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.JSON(c, "invalid report id", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}

		complete, serr := s.ReportService.GetCompleteReport(reportID)
		if serr != nil {
			respondServiceError(c, serr, "could not fetch report")
			return
		}

		response.JSON(c, "report retrieved successfully", http.StatusOK, complete, nil)
	}
}

func (s *Server) handleUpdateReportStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		reportID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.JSON(c, "invalid report id", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}

		var req models.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "invalid request body", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}

		report, serr := s.ReportService.UpdateReportStatus(reportID, req.Status)
		if serr != nil {
			respondServiceError(c, serr, "could not update report status")
			return
		}

		response.JSON(c, "report status updated", http.StatusOK, report, nil)
	}
}

func parseReportFilters(c *gin.Context) (models.ReportFilters, error) {
	filters := models.ReportFilters{
		Status:     c.Query("status"),
		ReportedBy: c.Query("reported_by"),
	}

	if v := c.Query("date_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filters, errors.Wrap(err, "date_from must be RFC3339")
		}
		filters.DateFrom = &t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filters, errors.Wrap(err, "date_to must be RFC3339")
		}
		filters.DateTo = &t
	}
	if v := c.Query("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return filters, errors.New("page must be a positive integer")
		}
		filters.Page = page
	}
	return filters, nil
}

func (s *Server) handleListReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		filters, err := parseReportFilters(c)
		if err != nil {
			response.JSON(c, "invalid filters", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}

		reports, serr := s.ReportService.ListReports(filters)
		if serr != nil {
			respondServiceError(c, serr, "could not list reports")
			return
		}

		response.JSON(c, "reports retrieved successfully", http.StatusOK, reports, nil)
	}
}

func (s *Server) handleDeleteReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		reportID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.JSON(c, "invalid report id", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}

		if serr := s.ReportService.DeleteReport(reportID); serr != nil {
			respondServiceError(c, serr, "could not delete report")
			return
		}

		response.JSON(c, "report deleted", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleReportMarkers() gin.HandlerFunc {
	return func(c *gin.Context) {
		markers, err := s.ReportService.GetReportMarkers()
		if err != nil {
			respondServiceError(c, err, "could not fetch markers")
			return
		}
		response.JSON(c, "markers retrieved successfully", http.StatusOK, markers, nil)
	}
}

func (s *Server) handleReportStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := s.ReportService.GetReportStats()
		if err != nil {
			respondServiceError(c, err, "could not fetch report stats")
			return
		}
		response.JSON(c, "report stats retrieved successfully", http.StatusOK, stats, nil)
	}
}

func (s *Server) handleExportReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		filters, err := parseReportFilters(c)
		if err != nil {
			response.JSON(c, "invalid filters", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}

		data, filename, serr := s.ExportService.ExportReportsXLSX(filters)
		if serr != nil {
			respondServiceError(c, serr, "could not export reports")
			return
		}

		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	}
}

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/crimepatrol/backend/models"
	"github.com/crimepatrol/backend/server/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) handleEmergencyPing() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.EmergencyPingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "invalid request body", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}

		ping, created, err := s.EmergencyService.HandlePing(&req)
		if err != nil {
			respondServiceError(c, err, "could not record emergency ping")
			return
		}

		if created {
			response.JSON(c, "emergency ping recorded", http.StatusCreated, ping, nil)
			return
		}
		response.JSON(c, "emergency ping updated", http.StatusOK, ping, nil)
	}
}

func (s *Server) handleListPings() gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := models.PingFilters{
			Status: c.Query("status"),
		}
		if v := c.Query("since"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				response.JSON(c, "since must be RFC3339", http.StatusBadRequest, nil, []string{err.Error()})
				return
			}
			filters.Since = &t
		}
		if v := c.Query("limit"); v != "" {
			limit, err := strconv.Atoi(v)
			if err != nil || limit < 1 {
				response.JSON(c, "limit must be a positive integer", http.StatusBadRequest, nil, nil)
				return
			}
			filters.Limit = limit
		}

		pings, err := s.EmergencyService.ListRecentPings(filters)
		if err != nil {
			respondServiceError(c, err, "could not list emergency pings")
			return
		}
		response.JSON(c, "emergency pings retrieved successfully", http.StatusOK, pings, nil)
	}
}

func (s *Server) handleUpdatePingStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		pingID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.JSON(c, "invalid ping id", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}

		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "invalid request body", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}

		respondedBy := ""
		if user := userFromContext(c); user != nil {
			respondedBy = user.Fullname
		}

		ping, serr := s.EmergencyService.UpdatePingStatus(pingID, req.Status, respondedBy)
		if serr != nil {
			respondServiceError(c, serr, "could not update ping status")
			return
		}
		response.JSON(c, "ping status updated", http.StatusOK, ping, nil)
	}
}

package server

import (
	"net/http"
	"strconv"

	"github.com/crimepatrol/backend/db"
	"github.com/crimepatrol/backend/server/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func (s *Server) handleListStations() gin.HandlerFunc {
	return func(c *gin.Context) {
		stations, err := s.StationRepo.ListStations()
		if err != nil {
			response.JSON(c, "could not list police stations", http.StatusInternalServerError, nil, []string{err.Error()})
			return
		}
		response.JSON(c, "police stations retrieved successfully", http.StatusOK, stations, nil)
	}
}

func (s *Server) handleGetStation() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := uuid.Parse(c.Param("id")); err != nil {
			response.JSON(c, "invalid station id", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}

		station, err := s.StationRepo.GetStationByID(c.Param("id"))
		if err != nil {
			if errors.Is(err, db.ErrStationNotFound) {
				response.JSON(c, "police station not found", http.StatusNotFound, nil, nil)
				return
			}
			response.JSON(c, "could not fetch police station", http.StatusInternalServerError, nil, []string{err.Error()})
			return
		}
		response.JSON(c, "police station retrieved successfully", http.StatusOK, station, nil)
	}
}

func (s *Server) handleNearestStations() gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			response.JSON(c, "lat is required", http.StatusBadRequest, nil, nil)
			return
		}
		lng, err := strconv.ParseFloat(c.Query("lng"), 64)
		if err != nil {
			response.JSON(c, "lng is required", http.StatusBadRequest, nil, nil)
			return
		}

		limit := 3
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				response.JSON(c, "limit must be a positive integer", http.StatusBadRequest, nil, nil)
				return
			}
			limit = n
		}

		nearest, serr := s.EmergencyService.NearestStations(lat, lng, limit)
		if serr != nil {
			respondServiceError(c, serr, "could not find nearest stations")
			return
		}
		response.JSON(c, "nearest stations retrieved successfully", http.StatusOK, nearest, nil)
	}
}

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crimepatrol/backend/config"
	"github.com/crimepatrol/backend/db"
	"github.com/crimepatrol/backend/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStationRepo struct {
	stations []models.PoliceStation
}

func (s *stubStationRepo) ListStations() ([]models.PoliceStation, error) {
	return s.stations, nil
}

func (s *stubStationRepo) GetStationByID(id string) (*models.PoliceStation, error) {
	for i := range s.stations {
		if s.stations[i].ID.String() == id {
			return &s.stations[i], nil
		}
	}
	return nil, db.ErrStationNotFound
}

func stationTestRouter(repo *stubStationRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	s := &Server{
		Config:      &config.Config{},
		StationRepo: repo,
	}
	r := gin.New()
	r.GET("/api/v1/stations", s.handleListStations())
	r.GET("/api/v1/stations/:id", s.handleGetStation())
	return r
}

func TestHandleGetStation(t *testing.T) {
	station := models.PoliceStation{ID: uuid.New(), Name: "Police Station 1", Barangay: "Downtown"}
	router := stationTestRouter(&stubStationRepo{stations: []models.PoliceStation{station}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stations/"+station.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Police Station 1", data["name"])
}

func TestHandleGetStationNotFound(t *testing.T) {
	router := stationTestRouter(&stubStationRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stations/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetStationInvalidID(t *testing.T) {
	router := stationTestRouter(&stubStationRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stations/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

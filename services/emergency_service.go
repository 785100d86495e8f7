package services

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/crimepatrol/backend/db"
	errs "github.com/crimepatrol/backend/errors"
	"github.com/crimepatrol/backend/mailingservices"
	"github.com/crimepatrol/backend/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const earthRadiusKm = 6371.0

type EmergencyService interface {
	HandlePing(req *models.EmergencyPingRequest) (*models.EmergencyPing, bool, error)
	ListRecentPings(filters models.PingFilters) ([]models.EmergencyPing, error)
	UpdatePingStatus(pingID uuid.UUID, status string, respondedBy string) (*models.EmergencyPing, error)
	NearestStations(lat, lng float64, limit int) ([]models.StationDistance, error)
}

type emergencyService struct {
	emergencyRepo db.EmergencyRepository
	stationRepo   db.StationRepository
	notifier      NotificationService
	mail          *mailingservices.Mailgun
	dispatchEmail string
}

func NewEmergencyService(emergencyRepo db.EmergencyRepository, stationRepo db.StationRepository, notifier NotificationService, mail *mailingservices.Mailgun, dispatchEmail string) EmergencyService {
	return &emergencyService{
		emergencyRepo: emergencyRepo,
		stationRepo:   stationRepo,
		notifier:      notifier,
		mail:          mail,
		dispatchEmail: dispatchEmail,
	}
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// HandlePing creates a new ping session, or when the request carries a
// known session ID, updates that session's last-known location. The bool
// result reports whether a new session was created.
func (e *emergencyService) HandlePing(req *models.EmergencyPingRequest) (*models.EmergencyPing, bool, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, false, errs.NewKind("latitude and longitude are required", http.StatusBadRequest, errs.KindValidation)
	}
	lat, lng := *req.Latitude, *req.Longitude
	if !validCoordinates(lat, lng) {
		return nil, false, errs.NewKind("coordinates out of range", http.StatusBadRequest, errs.KindValidation)
	}

	at, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		return nil, false, errs.NewKind("timestamp must be RFC3339", http.StatusBadRequest, errs.KindValidation)
	}

	if req.SessionID != "" {
		if pingID, err := e.emergencyRepo.ResolveSession(req.SessionID); err == nil {
			return e.updateSession(pingID, lat, lng, at)
		} else if !errors.Is(err, db.ErrPingNotFound) {
			log.Printf("session lookup failed, opening new session: %v", err)
		}
	}

	ping := &models.EmergencyPing{
		ID:               uuid.New(),
		UserID:           req.UserID,
		EmergencyContact: req.EmergencyContact,
		Latitude:         lat,
		Longitude:        lng,
		Timestamp:        at,
		Status:           models.PingStatusActive,
		LastLatitude:     lat,
		LastLongitude:    lng,
		LastPing:         at,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := e.emergencyRepo.SavePing(ping); err != nil {
		return nil, false, errs.NewKind("failed to record emergency ping", http.StatusInternalServerError, errs.KindInternal)
	}

	if req.SessionID != "" {
		if err := e.emergencyRepo.CacheSession(req.SessionID, ping.ID); err != nil {
			log.Printf("failed to cache ping session %s: %v", req.SessionID, err)
		}
	}

	if e.notifier != nil {
		go e.notifier.NotifyEmergencyPing(ping)
	}
	if e.mail != nil && e.dispatchEmail != "" {
		go func() {
			if err := e.mail.SendEmergencyDispatch(e.dispatchEmail, ping.ID.String(), lat, lng, ping.EmergencyContact); err != nil {
				log.Printf("dispatch email failed for ping %s: %v", ping.ID, err)
			}
		}()
	}

	return ping, true, nil
}

func (e *emergencyService) updateSession(pingID uuid.UUID, lat, lng float64, at time.Time) (*models.EmergencyPing, bool, error) {
	if err := e.emergencyRepo.UpdatePingLocation(pingID, lat, lng, at); err != nil {
		if errors.Is(err, db.ErrPingNotFound) {
			return nil, false, errs.NewKind("ping session not found", http.StatusNotFound, errs.KindNotFound)
		}
		return nil, false, errs.NewKind("failed to update ping location", http.StatusInternalServerError, errs.KindInternal)
	}

	ping, err := e.emergencyRepo.GetPingByID(pingID)
	if err != nil {
		return nil, false, errs.NewKind("failed to fetch ping", http.StatusInternalServerError, errs.KindInternal)
	}

	if e.notifier != nil {
		go e.notifier.NotifyEmergencyPingUpdated(ping)
	}
	return ping, false, nil
}

func (e *emergencyService) ListRecentPings(filters models.PingFilters) ([]models.EmergencyPing, error) {
	pings, err := e.emergencyRepo.ListRecentPings(filters)
	if err != nil {
		return nil, errs.NewKind("failed to list emergency pings", http.StatusInternalServerError, errs.KindInternal)
	}
	return pings, nil
}

func (e *emergencyService) UpdatePingStatus(pingID uuid.UUID, status string, respondedBy string) (*models.EmergencyPing, error) {
	switch status {
	case models.PingStatusActive, models.PingStatusResponded, models.PingStatusResolved:
	default:
		return nil, errs.NewKind(fmt.Sprintf("invalid ping status %q", status), http.StatusBadRequest, errs.KindInvalidStatus)
	}

	ping, err := e.emergencyRepo.GetPingByID(pingID)
	if err != nil {
		if errors.Is(err, db.ErrPingNotFound) {
			return nil, errs.NewKind("emergency ping not found", http.StatusNotFound, errs.KindNotFound)
		}
		return nil, errs.NewKind("failed to fetch ping", http.StatusInternalServerError, errs.KindInternal)
	}

	now := time.Now()
	ping.Status = status
	ping.UpdatedAt = now
	switch status {
	case models.PingStatusResponded:
		ping.RespondedBy = respondedBy
		ping.RespondedAt = &now
	case models.PingStatusResolved:
		ping.ResolvedAt = &now
	}

	if err := e.emergencyRepo.UpdatePingStatus(ping); err != nil {
		return nil, errs.NewKind("failed to update ping status", http.StatusInternalServerError, errs.KindInternal)
	}

	// a resolved session must stop accepting heartbeats immediately, not
	// after the cache TTL runs out
	if status == models.PingStatusResolved {
		if err := e.emergencyRepo.DropSession(ping.ID); err != nil {
			log.Printf("failed to drop session for ping %s: %v", ping.ID, err)
		}
	}

	if e.notifier != nil {
		go e.notifier.NotifyEmergencyPingUpdated(ping)
	}
	return ping, nil
}

// NearestStations returns stations ordered by great-circle distance from
// the given point.
func (e *emergencyService) NearestStations(lat, lng float64, limit int) ([]models.StationDistance, error) {
	if !validCoordinates(lat, lng) {
		return nil, errs.NewKind("coordinates out of range", http.StatusBadRequest, errs.KindValidation)
	}

	stations, err := e.stationRepo.ListStations()
	if err != nil {
		return nil, errs.NewKind("failed to list police stations", http.StatusInternalServerError, errs.KindInternal)
	}

	distances := make([]models.StationDistance, 0, len(stations))
	for _, st := range stations {
		distances = append(distances, models.StationDistance{
			PoliceStation: st,
			DistanceKm:    haversineKm(lat, lng, st.Latitude, st.Longitude),
		})
	}
	sort.Slice(distances, func(i, j int) bool {
		return distances[i].DistanceKm < distances[j].DistanceKm
	})

	if limit > 0 && limit < len(distances) {
		distances = distances[:limit]
	}
	return distances, nil
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

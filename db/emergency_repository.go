package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crimepatrol/backend/models"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Active ping sessions live in redis so continuous location updates
// resolve the ping row without a DB lookup per heartbeat.
const pingSessionTTL = 2 * time.Hour

var ErrPingNotFound = errors.New("emergency ping not found")

type EmergencyRepository interface {
	SavePing(ping *models.EmergencyPing) error
	GetPingByID(id uuid.UUID) (*models.EmergencyPing, error)
	UpdatePingLocation(id uuid.UUID, lat, lng float64, at time.Time) error
	UpdatePingStatus(ping *models.EmergencyPing) error
	ListRecentPings(filters models.PingFilters) ([]models.EmergencyPing, error)
	CacheSession(sessionID string, pingID uuid.UUID) error
	ResolveSession(sessionID string) (uuid.UUID, error)
	DropSession(pingID uuid.UUID) error
}

type emergencyRepo struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewEmergencyRepo(db *GormDB, rdb *redis.Client) EmergencyRepository {
	return &emergencyRepo{DB: db.DB, Redis: rdb}
}

func (e *emergencyRepo) SavePing(ping *models.EmergencyPing) error {
	if err := e.DB.Create(ping).Error; err != nil {
		return fmt.Errorf("failed to save emergency ping: %v", err)
	}
	return nil
}

func (e *emergencyRepo) GetPingByID(id uuid.UUID) (*models.EmergencyPing, error) {
	var ping models.EmergencyPing
	err := e.DB.Where("id = ?", id).First(&ping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPingNotFound
		}
		return nil, err
	}
	return &ping, nil
}

func (e *emergencyRepo) UpdatePingLocation(id uuid.UUID, lat, lng float64, at time.Time) error {
	result := e.DB.Model(&models.EmergencyPing{}).Where("id = ?", id).Updates(map[string]interface{}{
		"last_latitude":  lat,
		"last_longitude": lng,
		"last_ping":      at,
		"updated_at":     time.Now(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update ping location: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPingNotFound
	}
	return nil
}

func (e *emergencyRepo) UpdatePingStatus(ping *models.EmergencyPing) error {
	return e.DB.Save(ping).Error
}

func (e *emergencyRepo) ListRecentPings(filters models.PingFilters) ([]models.EmergencyPing, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	query := e.DB.Model(&models.EmergencyPing{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Since != nil {
		query = query.Where("timestamp >= ?", *filters.Since)
	}

	pings := []models.EmergencyPing{}
	err := query.Order("timestamp DESC").Limit(limit).Find(&pings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pings: %v", err)
	}
	return pings, nil
}

func sessionKey(sessionID string) string {
	return "emergency:session:" + sessionID
}

func pingKey(pingID uuid.UUID) string {
	return "emergency:ping:" + pingID.String()
}

// CacheSession stores the session in both directions: session to ping for
// heartbeat resolution, ping to session so a resolved ping can evict its
// cache entry.
func (e *emergencyRepo) CacheSession(sessionID string, pingID uuid.UUID) error {
	payload, err := json.Marshal(pingID.String())
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := e.Redis.Set(ctx, sessionKey(sessionID), payload, pingSessionTTL).Err(); err != nil {
		return err
	}
	return e.Redis.Set(ctx, pingKey(pingID), sessionID, pingSessionTTL).Err()
}

func (e *emergencyRepo) ResolveSession(sessionID string) (uuid.UUID, error) {
	val, err := e.Redis.Get(context.Background(), sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrPingNotFound
		}
		return uuid.Nil, errors.Wrap(err, "redis.get error")
	}

	var idStr string
	if err := json.Unmarshal([]byte(val), &idStr); err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(idStr)
}

// DropSession evicts the cached session for a ping, if any.
func (e *emergencyRepo) DropSession(pingID uuid.UUID) error {
	ctx := context.Background()
	sessionID, err := e.Redis.Get(ctx, pingKey(pingID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return errors.Wrap(err, "redis.get error")
	}
	return e.Redis.Del(ctx, sessionKey(sessionID), pingKey(pingID)).Err()
}

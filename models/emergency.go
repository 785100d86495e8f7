package models

import (
	"time"

	"github.com/google/uuid"
)

// Emergency ping session statuses.
const (
	PingStatusActive    = "active"
	PingStatusResponded = "responded"
	PingStatusResolved  = "resolved"
)

// EmergencyPing is one panic-button session. The first POST creates the
// row; continuous pings from the same session only touch the last_*
// columns.
type EmergencyPing struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID           string     `json:"user_id" gorm:"index"`
	EmergencyContact string     `json:"emergency_contact"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	Timestamp        time.Time  `json:"timestamp"`
	Status           string     `json:"status" gorm:"default:active;index"`
	LastLatitude     float64    `json:"last_latitude"`
	LastLongitude    float64    `json:"last_longitude"`
	LastPing         time.Time  `json:"last_ping"`
	RespondedBy      string     `json:"responded_by"`
	RespondedAt      *time.Time `json:"responded_at"`
	ResolvedAt       *time.Time `json:"resolved_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// EmergencyPingRequest is the POST body from the mobile app. A SessionID
// marks a continuous-ping update of an existing session.
type EmergencyPingRequest struct {
	Latitude         *float64 `json:"latitude" binding:"required"`
	Longitude        *float64 `json:"longitude" binding:"required"`
	Timestamp        string   `json:"timestamp" binding:"required"`
	UserID           string   `json:"user_id"`
	SessionID        string   `json:"session_id"`
	EmergencyContact string   `json:"emergency_contact"`
}

// PingFilters narrows the recent-pings listing.
type PingFilters struct {
	Status string
	Since  *time.Time
	Limit  int
}

package models

import "github.com/google/uuid"

// PoliceStation is one entry of the seeded station directory shown on the
// contacts screen and the dashboard map.
type PoliceStation struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name           string    `gorm:"unique;not null" json:"name"`
	Address        string    `json:"address"`
	Barangay       string    `json:"barangay"`
	ContactNumbers string    `json:"contact_numbers"` // comma separated
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
}

// StationDistance pairs a station with its distance from a query point.
type StationDistance struct {
	PoliceStation
	DistanceKm float64 `json:"distance_km"`
}

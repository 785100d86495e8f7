package models

import (
	"time"

	"github.com/google/uuid"
)

// Report status values. Transitions are not restricted: the dashboard may
// set any valid status at any time.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusResponded = "responded"
	StatusSolved    = "solved"
)

// ValidStatuses lists every status a report may carry.
var ValidStatuses = []string{StatusPending, StatusApproved, StatusRejected, StatusResponded, StatusSolved}

// IsValidStatus reports whether s is one of the allowed report statuses.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Report is the aggregate root. Everything else in the report_* tables
// hangs off its ID.
type Report struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	IncidentType     string    `json:"incident_type" gorm:"not null;index"`
	IncidentDate     time.Time `json:"incident_date" gorm:"not null"`
	IncidentTime     time.Time `json:"incident_time"`
	IsInProgress     bool      `json:"is_in_progress"`
	Description      string    `json:"description" gorm:"type:varchar(1000)"`
	ReportedBy       string    `json:"reported_by" gorm:"not null;index"`
	Status           string    `json:"status" gorm:"default:pending;index"`
	IsVictimReporter bool      `json:"is_victim_reporter"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ReportLocation is 1:1 with Report. Latitude/longitude are pointers so a
// missing coordinate is distinguishable from 0,0.
type ReportLocation struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReportID  uuid.UUID `json:"report_id" gorm:"type:uuid;not null;index"`
	Address   string    `json:"address"`
	Type      string    `json:"type"`
	Details   string    `json:"details"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
}

// ReportReporterInfo is 1:1 with Report.
type ReportReporterInfo struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReportID uuid.UUID `json:"report_id" gorm:"type:uuid;not null;index"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Email    string    `json:"email"`
}

type ReportVictim struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReportID uuid.UUID `json:"report_id" gorm:"type:uuid;not null;index"`
	Name     string    `json:"name"`
	Contact  string    `json:"contact"`
}

type ReportSuspect struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReportID    uuid.UUID `json:"report_id" gorm:"type:uuid;not null;index"`
	Description string    `json:"description"`
	Vehicle     string    `json:"vehicle"`
}

type ReportWitness struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReportID uuid.UUID `json:"report_id" gorm:"type:uuid;not null;index"`
	Info     string    `json:"info"`
}

// ReportMedia references an externally stored blob by file ID. The bytes
// themselves live in the media bucket, not here.
type ReportMedia struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReportID         uuid.UUID `json:"report_id" gorm:"type:uuid;not null;index"`
	FileID           string    `json:"file_id" gorm:"not null"`
	MediaType        string    `json:"media_type"` // photo, video or audio
	FileNameOriginal string    `json:"file_name_original"`
	DisplayOrder     int       `json:"display_order"`
}

// CreateReportRequest is the submission payload. Only the parent fields
// are required; every nested section is optional.
type CreateReportRequest struct {
	IncidentType     string                 `json:"incident_type" binding:"required"`
	IncidentDate     time.Time              `json:"incident_date" binding:"required"`
	IncidentTime     time.Time              `json:"incident_time"`
	IsInProgress     bool                   `json:"is_in_progress"`
	Description      string                 `json:"description"`
	ReportedBy       string                 `json:"reported_by" binding:"required"`
	Status           string                 `json:"status"`
	IsVictimReporter bool                   `json:"is_victim_reporter"`
	Location         *LocationSection       `json:"location"`
	ReporterInfo     *ReporterInfoSection   `json:"reporter_info"`
	Victims          []VictimSection        `json:"victims"`
	Suspects         []SuspectSection       `json:"suspects"`
	Witnesses        []WitnessSection       `json:"witnesses"`
	Media            []MediaSection         `json:"media"`
}

type LocationSection struct {
	Address   string   `json:"address"`
	Type      string   `json:"type"`
	Details   string   `json:"details"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type ReporterInfoSection struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type VictimSection struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

type SuspectSection struct {
	Description string `json:"description"`
	Vehicle     string `json:"vehicle"`
}

type WitnessSection struct {
	Info string `json:"info"`
}

type MediaSection struct {
	FileID           string `json:"file_id" binding:"required"`
	MediaType        string `json:"media_type"`
	FileNameOriginal string `json:"file_name_original"`
	DisplayOrder     int    `json:"display_order"`
}

// CompleteReport is the assembled view of a report with all its sections.
// Absent 1:1 sections are nil; absent lists are empty, never nil.
type CompleteReport struct {
	Report       *Report             `json:"report"`
	Location     *ReportLocation     `json:"location"`
	ReporterInfo *ReportReporterInfo `json:"reporter_info"`
	Victims      []ReportVictim      `json:"victims"`
	Suspects     []ReportSuspect     `json:"suspects"`
	Witnesses    []ReportWitness     `json:"witnesses"`
	Media        []ReportMedia       `json:"media"`
}

// ReportFilters narrows a report listing. All filters are conjunctive;
// zero values impose no restriction.
type ReportFilters struct {
	Status     string
	ReportedBy string
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
}

// UpdateStatusRequest is the PATCH body for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReportMarker is the minimal shape the dashboard map consumes.
type ReportMarker struct {
	ID        uuid.UUID `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// ReportStats is the dashboard's headline counters.
type ReportStats struct {
	TotalReports int64 `json:"total_reports"`
	ReportsToday int64 `json:"reports_today"`
}

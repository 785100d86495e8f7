// Package errors defines the API error type shared by the handlers,
// services and repositories.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Kind classifies an error for callers that need more than a status code.
type Kind string

const (
	KindValidation    Kind = "validation_error"
	KindNotFound      Kind = "not_found"
	KindInvalidStatus Kind = "invalid_status"
	KindPartialWrite  Kind = "partial_write_failure"
	KindUpstream      Kind = "upstream_unavailable"
	KindInternal      Kind = "internal"
)

// Error is the API error type. ReportID is only set on partial-write
// failures so the caller can find the orphaned aggregate.
type Error struct {
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Kind     Kind   `json:"kind,omitempty"`
	ReportID string `json:"report_id,omitempty"`
}

var (
	ErrNotFound            = &Error{Message: "resource not found", Status: http.StatusNotFound, Kind: KindNotFound}
	ErrInternalServerError = &Error{Message: "internal server error", Status: http.StatusInternalServerError, Kind: KindInternal}
	ErrBadRequest          = &Error{Message: "bad request", Status: http.StatusBadRequest, Kind: KindValidation}
	ErrUnauthorized        = &Error{Message: "unauthorized", Status: http.StatusUnauthorized}
	ErrInvalidPassword     = &Error{Message: "invalid password", Status: http.StatusUnauthorized}
	InActiveUserError      = errors.New("user is inactive")
)

func (e *Error) Error() string {
	return fmt.Sprintf("error: %s, status: %d", e.Message, e.Status)
}

// New creates a new Error with the given message and status code.
func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

// NewKind creates a new Error carrying an explicit kind.
func NewKind(message string, status int, kind Kind) *Error {
	return &Error{
		Message: message,
		Status:  status,
		Kind:    kind,
	}
}

// NewPartialWrite reports a child-section write that failed after the
// parent report was created. No rollback is attempted; the parent ID is
// surfaced so the caller or a cleanup job can reconcile.
func NewPartialWrite(reportID, section string, cause error) *Error {
	return &Error{
		Message:  fmt.Sprintf("report %s created but %s section failed: %v", reportID, section, cause),
		Status:   http.StatusInternalServerError,
		Kind:     KindPartialWrite,
		ReportID: reportID,
	}
}

// Is lets errors.Is match on status and kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Status == e.Status && (t.Kind == "" || t.Kind == e.Kind)
}

// GetUniqueContraintError maps a postgres unique violation to a friendly
// message.
func GetUniqueContraintError(err error) *Error {
	if strings.Contains(err.Error(), "email") {
		return New("user with this email already exists", http.StatusBadRequest)
	}
	if strings.Contains(err.Error(), "telephone") || strings.Contains(err.Error(), "phone") {
		return New("user with this phone number already exists", http.StatusBadRequest)
	}
	return New(err.Error(), http.StatusBadRequest)
}

// ErrorHandler is the handler gin-rate-limit calls when a client exceeds
// its quota.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"errors": fmt.Sprintf("too many requests, try again in %s", time.Until(info.ResetTime).Round(time.Second)),
	})
	c.Abort()
}

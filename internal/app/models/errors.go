package models

import (
	"errors"
	"fmt"
)

// ErrorCategory buckets every remote-call failure into one of the handling
// policies: generation blocks the itinerary view, enrichment degrades
// inline, persistence warns while memory stays authoritative, assist fails
// open silently, export aborts the artifact.
type ErrorCategory string

const (
	CategoryGeneration  ErrorCategory = "generation"
	CategoryEnrichment  ErrorCategory = "enrichment"
	CategoryPersistence ErrorCategory = "persistence"
	CategoryAssist      ErrorCategory = "assist"
	CategoryExport      ErrorCategory = "export"
)

var (
	ErrGenerationInFlight = errors.New("a generation is already in flight for this session")
	ErrSuperseded         = errors.New("result superseded by a newer request")
	ErrNoItinerary        = errors.New("no current itinerary")
	ErrNotFound           = errors.New("saved itinerary not found")
)

// AppError is a categorized, user-presentable error. Message is safe to
// show; Err keeps the underlying cause for logs.
type AppError struct {
	Category ErrorCategory
	Message  string
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(category ErrorCategory, message string, err error) *AppError {
	return &AppError{Category: category, Message: message, Err: err}
}

// Notification is the transient toast payload surfaced for user-visible
// failures. DismissAfterSec is the auto-dismiss delay.
type Notification struct {
	Level           string `json:"level"`
	Message         string `json:"message"`
	DismissAfterSec int    `json:"dismissAfterSec"`
}

const notificationTTLSec = 6

// NotificationFor maps an error to its toast, or nil for categories that
// must stay silent (assist fails open).
func NotificationFor(err error) *Notification {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return &Notification{Level: "error", Message: "Something went wrong. Please try again.", DismissAfterSec: notificationTTLSec}
	}
	switch appErr.Category {
	case CategoryAssist:
		return nil
	case CategoryPersistence:
		return &Notification{Level: "warning", Message: appErr.Message, DismissAfterSec: notificationTTLSec}
	default:
		return &Notification{Level: "error", Message: appErr.Message, DismissAfterSec: notificationTTLSec}
	}
}

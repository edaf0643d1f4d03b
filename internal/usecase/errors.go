package usecase

import (
	"cinema-kiosk/internal/data/repository"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrSeatConflict       = errors.New("seat conflict")
	ErrStorageUnavailable = repository.ErrStorageUnavailable
)

// ValidationError carries a message and optional per-field details.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func invalidField(field, message string) error {
	return &ValidationError{Message: "Validation failed", Fields: map[string]string{field: message}}
}

// SeatConflictError lists the requested seats that are already held.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return "seats already reserved: " + strings.Join(e.Seats, ", ")
}

func (e *SeatConflictError) Unwrap() error { return ErrSeatConflict }

func notFound(format string, args ...any) error {
	return fmt.Errorf("%s %w", fmt.Sprintf(format, args...), ErrNotFound)
}

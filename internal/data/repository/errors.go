package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound                = errors.New("record not found")
	ErrSeatTaken               = errors.New("seat already reserved for this showing")
	ErrDuplicateSlug           = errors.New("movie slug already exists")
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")
	ErrStorageUnavailable      = errors.New("storage unavailable")
)

const (
	uniqueViolation = "23505"
	seatIndex       = "reserved_seats_showing_seat_active_key"
	slugIndex       = "movies_slug_live_key"
	idempotencyIdx  = "tickets_idempotency_key"
)

// translate maps driver errors onto the package sentinels, keeping the original in the chain.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case seatIndex:
				return fmt.Errorf("%w: %w", ErrSeatTaken, err)
			case slugIndex:
				return fmt.Errorf("%w: %w", ErrDuplicateSlug, err)
			case idempotencyIdx:
				return fmt.Errorf("%w: %w", ErrDuplicateIdempotencyKey, err)
			}
			return err
		}
		if isTransient(pgErr.Code) {
			return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.SafeToRetry(err) || errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return err
}

// isTransient covers connection exceptions, serialization failures, deadlocks and shutdowns.
func isTransient(code string) bool {
	switch {
	case strings.HasPrefix(code, "08"):
		return true
	case code == "40001", code == "40P01":
		return true
	case code == "57P01", code == "57P02", code == "57P03", code == "53300":
		return true
	}
	return false
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

type Platform string

const (
	PlatformKiosk   Platform = "kiosk"
	PlatformWebsite Platform = "website"
)

func (p Platform) Valid() bool {
	return p == PlatformKiosk || p == PlatformWebsite
}

// Ticket is immutable once created. The showing columns are a snapshot of
// the creation time.
type Ticket struct {
	ID             int64     `db:"id"`
	MovieID        uuid.UUID `db:"movie_id"`
	Platform       Platform  `db:"platform"`
	DayOfWeek      string    `db:"day_of_week"`
	WeekNumber     string    `db:"week_number"`
	IdempotencyKey *string   `db:"idempotency_key"`
	CreatedAt      time.Time `db:"created_at"`
}

// Reservation is a ticket joined with its payment, seats and movie.
type Reservation struct {
	Ticket     Ticket
	Payment    Payment
	Seats      []string
	MovieSlug  string
	MovieTitle string
}

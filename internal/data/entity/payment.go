package entity

import "github.com/google/uuid"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentCancelled, PaymentRefunded:
		return true
	}
	return false
}

// Terminal statuses accept no further transition.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentPaid || s == PaymentCancelled || s == PaymentRefunded
}

// HoldsSeat reports whether a ticket with this status still occupies its seats.
func (s PaymentStatus) HoldsSeat() bool {
	return s == PaymentPending || s == PaymentPaid
}

type Payment struct {
	BaseNoDelete
	TicketID int64         `db:"ticket_id"`
	MovieID  uuid.UUID     `db:"movie_id"`
	Amount   int64         `db:"amount"`
	Status   PaymentStatus `db:"status"`
}

// ExpiredHold describes a kiosk reservation cancelled by the expiry policy.
type ExpiredHold struct {
	TicketID   int64
	MovieID    uuid.UUID
	DayOfWeek  string
	WeekNumber string
	Seats      []string
}

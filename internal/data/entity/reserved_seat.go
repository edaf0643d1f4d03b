package entity

import "github.com/google/uuid"

type ReservedSeat struct {
	BaseSimple
	TicketID   int64     `db:"ticket_id"`
	MovieID    uuid.UUID `db:"movie_id"`
	DayOfWeek  string    `db:"day_of_week"`
	WeekNumber string    `db:"week_number"`
	SeatNumber string    `db:"seat_number"`
	Active     bool      `db:"active"`
}

// SeatClaim is an active seat together with the payment status of its ticket.
type SeatClaim struct {
	SeatNumber string
	TicketID   int64
	Status     PaymentStatus
}

// SalesRow is paid revenue grouped by the ticket showing columns.
type SalesRow struct {
	DayOfWeek  string
	WeekNumber string
	Tickets    int64
	Seats      int64
	Revenue    int64
}

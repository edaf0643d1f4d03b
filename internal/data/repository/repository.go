package repository

import (
	"cinema-kiosk/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Tx      Transactor
	Movie   MovieRepository
	Ticket  TicketRepository
	Payment PaymentRepository
	Seat    ReservedSeatRepository
	Sales   SalesRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Tx:      NewTransactor(db, log),
		Movie:   NewMovieRepository(db, log),
		Ticket:  NewTicketRepository(db, log),
		Payment: NewPaymentRepository(db, log),
		Seat:    NewReservedSeatRepository(db, log),
		Sales:   NewSalesRepository(db, log),
	}
}

package repository

import (
	"cinema-kiosk/internal/data/entity"
	"cinema-kiosk/pkg/database"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TicketRepository interface {
	// Create inserts the ticket and sets ticket.ID from the sequence.
	Create(ctx context.Context, ticket *entity.Ticket) error
	FindByID(ctx context.Context, id int64) (*entity.Ticket, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*entity.Ticket, error)

	// Reservation views join ticket, payment, seats and movie. Tickets
	// missing a payment or seats are left out.
	FindReservation(ctx context.Context, id int64) (*entity.Reservation, error)
	FindAllReservations(ctx context.Context, limit, offset int) ([]*entity.Reservation, error)
	CountReservations(ctx context.Context) (int64, error)
}

type ticketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketRepository(db database.PgxIface, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	query := `
		INSERT INTO tickets (movie_id, platform, day_of_week, week_number, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := conn(ctx, r.db).QueryRow(ctx, query,
		ticket.MovieID,
		ticket.Platform,
		ticket.DayOfWeek,
		ticket.WeekNumber,
		ticket.IdempotencyKey,
		ticket.CreatedAt,
	).Scan(&ticket.ID)

	if err != nil {
		err = translate(err)
		if errors.Is(err, ErrDuplicateIdempotencyKey) {
			return err
		}
		r.log.Error("Failed to create ticket",
			zap.Error(err),
			zap.String("movie_id", ticket.MovieID.String()),
		)
		return fmt.Errorf("create ticket: %w", err)
	}

	return nil
}

const ticketColumns = `id, movie_id, platform, day_of_week, week_number, idempotency_key, created_at`

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var ticket entity.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.MovieID,
		&ticket.Platform,
		&ticket.DayOfWeek,
		&ticket.WeekNumber,
		&ticket.IdempotencyKey,
		&ticket.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id int64) (*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := scanTicket(conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket by ID",
			zap.Error(err),
			zap.Int64("ticket_id", id),
		)
		return nil, fmt.Errorf("find ticket %d: %w", id, translate(err))
	}

	return ticket, nil
}

func (r *ticketRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE idempotency_key = $1`

	ticket, err := scanTicket(conn(ctx, r.db).QueryRow(ctx, query, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket by idempotency key",
			zap.Error(err),
			zap.String("idempotency_key", key),
		)
		return nil, fmt.Errorf("find ticket by idempotency key: %w", translate(err))
	}

	return ticket, nil
}

const reservationSelect = `
	SELECT t.id, t.movie_id, t.platform, t.day_of_week, t.week_number, t.idempotency_key, t.created_at,
	       p.id, p.ticket_id, p.movie_id, p.amount, p.status, p.created_at, p.updated_at,
	       m.slug, m.title,
	       array_agg(rs.seat_number ORDER BY left(rs.seat_number, 1), length(rs.seat_number), rs.seat_number)
	FROM tickets t
	JOIN payments p ON p.ticket_id = t.id
	JOIN movies m ON m.id = t.movie_id
	JOIN reserved_seats rs ON rs.ticket_id = t.id
`

const reservationGroup = ` GROUP BY t.id, p.id, m.id`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.Ticket.ID,
		&res.Ticket.MovieID,
		&res.Ticket.Platform,
		&res.Ticket.DayOfWeek,
		&res.Ticket.WeekNumber,
		&res.Ticket.IdempotencyKey,
		&res.Ticket.CreatedAt,
		&res.Payment.ID,
		&res.Payment.TicketID,
		&res.Payment.MovieID,
		&res.Payment.Amount,
		&res.Payment.Status,
		&res.Payment.CreatedAt,
		&res.Payment.UpdatedAt,
		&res.MovieSlug,
		&res.MovieTitle,
		&res.Seats,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ticketRepository) FindReservation(ctx context.Context, id int64) (*entity.Reservation, error) {
	query := reservationSelect + ` WHERE t.id = $1` + reservationGroup

	res, err := scanReservation(conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation",
			zap.Error(err),
			zap.Int64("ticket_id", id),
		)
		return nil, fmt.Errorf("find reservation %d: %w", id, translate(err))
	}

	return res, nil
}

func (r *ticketRepository) FindAllReservations(ctx context.Context, limit, offset int) ([]*entity.Reservation, error) {
	query := reservationSelect + reservationGroup + ` ORDER BY t.id DESC LIMIT $1 OFFSET $2`

	rows, err := conn(ctx, r.db).Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list reservations",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list reservations: %w", translate(err))
	}
	defer rows.Close()

	reservations := []*entity.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate reservations: %w", translate(err))
	}

	return reservations, nil
}

func (r *ticketRepository) CountReservations(ctx context.Context) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets t
		WHERE EXISTS (SELECT 1 FROM payments p WHERE p.ticket_id = t.id)
		  AND EXISTS (SELECT 1 FROM reserved_seats rs WHERE rs.ticket_id = t.id)
	`

	var count int64
	if err := conn(ctx, r.db).QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count reservations", zap.Error(err))
		return 0, fmt.Errorf("count reservations: %w", translate(err))
	}

	return count, nil
}

package repository

import (
	"cinema-kiosk/internal/data/entity"
	"cinema-kiosk/pkg/database"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByTicketID(ctx context.Context, ticketID int64) (*entity.Payment, error)

	// UpdateStatusIfPending moves a pending payment to status. It returns
	// (nil, nil) when the payment is no longer pending.
	UpdateStatusIfPending(ctx context.Context, ticketID int64, status entity.PaymentStatus, at time.Time) (*entity.Payment, error)

	// ExpireHolds cancels pending kiosk payments whose ticket was created at
	// or before cutoff and releases their seats. A non-nil scope limits the
	// sweep to one showing. Rows are locked in ticket order and rows already
	// locked by a concurrent sweep are skipped.
	ExpireHolds(ctx context.Context, cutoff, at time.Time, scope *ShowingScope) ([]entity.ExpiredHold, error)
}

// ShowingScope narrows a query to one showing.
type ShowingScope struct {
	MovieID    uuid.UUID
	DayOfWeek  string
	WeekNumber string
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, ticket_id, movie_id, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := conn(ctx, r.db).Exec(ctx, query,
		payment.ID,
		payment.TicketID,
		payment.MovieID,
		payment.Amount,
		payment.Status,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.Int64("ticket_id", payment.TicketID),
		)
		return fmt.Errorf("create payment for ticket %d: %w", payment.TicketID, translate(err))
	}

	return nil
}

const paymentColumns = `id, ticket_id, movie_id, amount, status, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var payment entity.Payment
	err := row.Scan(
		&payment.ID,
		&payment.TicketID,
		&payment.MovieID,
		&payment.Amount,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByTicketID(ctx context.Context, ticketID int64) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE ticket_id = $1`

	payment, err := scanPayment(conn(ctx, r.db).QueryRow(ctx, query, ticketID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by ticket ID",
			zap.Error(err),
			zap.Int64("ticket_id", ticketID),
		)
		return nil, fmt.Errorf("find payment for ticket %d: %w", ticketID, translate(err))
	}

	return payment, nil
}

func (r *paymentRepository) UpdateStatusIfPending(ctx context.Context, ticketID int64, status entity.PaymentStatus, at time.Time) (*entity.Payment, error) {
	query := `
		UPDATE payments
		SET status = $2, updated_at = $3
		WHERE ticket_id = $1 AND status = 'pending'
		RETURNING ` + paymentColumns

	payment, err := scanPayment(conn(ctx, r.db).QueryRow(ctx, query, ticketID, status, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.Int64("ticket_id", ticketID),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("update payment status for ticket %d: %w", ticketID, translate(err))
	}

	return payment, nil
}

func (r *paymentRepository) ExpireHolds(ctx context.Context, cutoff, at time.Time, scope *ShowingScope) ([]entity.ExpiredHold, error) {
	args := []any{cutoff, at}
	filter := ""
	if scope != nil {
		filter = ` AND t.movie_id = $3 AND t.day_of_week = $4 AND t.week_number = $5`
		args = append(args, scope.MovieID, scope.DayOfWeek, scope.WeekNumber)
	}

	query := `
		WITH candidates AS (
			SELECT p.ticket_id
			FROM payments p
			JOIN tickets t ON t.id = p.ticket_id
			WHERE p.status = 'pending'
			  AND t.platform = 'kiosk'
			  AND t.created_at <= $1` + filter + `
			ORDER BY p.ticket_id
			FOR UPDATE OF p SKIP LOCKED
		), expired AS (
			UPDATE payments p
			SET status = 'cancelled', updated_at = $2
			FROM candidates c, tickets t
			WHERE p.ticket_id = c.ticket_id
			  AND t.id = p.ticket_id
			  AND p.status = 'pending'
			RETURNING p.ticket_id, t.movie_id, t.day_of_week, t.week_number
		), released AS (
			UPDATE reserved_seats rs
			SET active = FALSE
			FROM expired e
			WHERE rs.ticket_id = e.ticket_id AND rs.active
			RETURNING rs.ticket_id, rs.seat_number
		)
		SELECT e.ticket_id, e.movie_id, e.day_of_week, e.week_number,
		       COALESCE(array_agg(r.seat_number) FILTER (WHERE r.seat_number IS NOT NULL), '{}')
		FROM expired e
		LEFT JOIN released r ON r.ticket_id = e.ticket_id
		GROUP BY e.ticket_id, e.movie_id, e.day_of_week, e.week_number
		ORDER BY e.ticket_id
	`

	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to expire pending holds", zap.Error(err))
		return nil, fmt.Errorf("expire holds: %w", translate(err))
	}
	defer rows.Close()

	var expired []entity.ExpiredHold
	for rows.Next() {
		var hold entity.ExpiredHold
		if err := rows.Scan(&hold.TicketID, &hold.MovieID, &hold.DayOfWeek, &hold.WeekNumber, &hold.Seats); err != nil {
			r.log.Error("Failed to scan expired hold", zap.Error(err))
			return nil, fmt.Errorf("scan expired hold: %w", err)
		}
		expired = append(expired, hold)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate expired holds: %w", translate(err))
	}

	return expired, nil
}

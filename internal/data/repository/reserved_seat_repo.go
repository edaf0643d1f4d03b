package repository

import (
	"cinema-kiosk/internal/data/entity"
	"cinema-kiosk/internal/showing"
	"cinema-kiosk/pkg/database"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type ReservedSeatRepository interface {
	// Create inserts one seat claim. A seat already held on the same
	// showing yields ErrSeatTaken.
	Create(ctx context.Context, seat *entity.ReservedSeat) error

	// CreateAll inserts the claims of one ticket in layout order, so two
	// transactions contending for the same seats wait on each other instead
	// of deadlocking.
	CreateAll(ctx context.Context, seats []entity.ReservedSeat) error

	// ActiveByShowing lists seats held by pending or paid tickets. Pending
	// kiosk holds created at or before holdCutoff are treated as released.
	ActiveByShowing(ctx context.Context, scope ShowingScope, holdCutoff time.Time) ([]entity.SeatClaim, error)

	// Release frees every seat of the ticket.
	Release(ctx context.Context, ticketID int64) ([]string, error)
}

type reservedSeatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservedSeatRepository(db database.PgxIface, log *zap.Logger) ReservedSeatRepository {
	return &reservedSeatRepository{
		db:  db,
		log: log.With(zap.String("repository", "reserved_seat")),
	}
}

func (r *reservedSeatRepository) Create(ctx context.Context, seat *entity.ReservedSeat) error {
	query := `
		INSERT INTO reserved_seats (id, ticket_id, movie_id, day_of_week, week_number, seat_number, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := conn(ctx, r.db).Exec(ctx, query,
		seat.ID,
		seat.TicketID,
		seat.MovieID,
		seat.DayOfWeek,
		seat.WeekNumber,
		seat.SeatNumber,
		seat.Active,
		seat.CreatedAt,
	)

	if err != nil {
		err = translate(err)
		if errors.Is(err, ErrSeatTaken) {
			r.log.Info("Seat claim lost to concurrent reservation",
				zap.String("seat", seat.SeatNumber),
				zap.Int64("ticket_id", seat.TicketID),
			)
			return err
		}
		r.log.Error("Failed to create reserved seat",
			zap.Error(err),
			zap.String("seat", seat.SeatNumber),
			zap.Int64("ticket_id", seat.TicketID),
		)
		return fmt.Errorf("reserve seat %s: %w", seat.SeatNumber, err)
	}

	return nil
}

func (r *reservedSeatRepository) CreateAll(ctx context.Context, seats []entity.ReservedSeat) error {
	byNumber := make(map[string]int, len(seats))
	order := make([]string, 0, len(seats))
	for i := range seats {
		byNumber[seats[i].SeatNumber] = i
		order = append(order, seats[i].SeatNumber)
	}
	showing.SortSeats(order)

	for _, number := range order {
		if err := r.Create(ctx, &seats[byNumber[number]]); err != nil {
			return err
		}
	}
	return nil
}

func (r *reservedSeatRepository) ActiveByShowing(ctx context.Context, scope ShowingScope, holdCutoff time.Time) ([]entity.SeatClaim, error) {
	query := `
		SELECT rs.seat_number, rs.ticket_id, p.status
		FROM reserved_seats rs
		JOIN tickets t ON t.id = rs.ticket_id
		JOIN payments p ON p.ticket_id = rs.ticket_id
		WHERE rs.movie_id = $1
		  AND rs.day_of_week = $2
		  AND rs.week_number = $3
		  AND rs.active
		  AND p.status IN ('pending', 'paid')
		  AND NOT (p.status = 'pending' AND t.platform = 'kiosk' AND t.created_at <= $4)
		ORDER BY rs.seat_number
	`

	rows, err := conn(ctx, r.db).Query(ctx, query, scope.MovieID, scope.DayOfWeek, scope.WeekNumber, holdCutoff)
	if err != nil {
		r.log.Error("Failed to list active seats",
			zap.Error(err),
			zap.String("movie_id", scope.MovieID.String()),
			zap.String("day_of_week", scope.DayOfWeek),
			zap.String("week_number", scope.WeekNumber),
		)
		return nil, fmt.Errorf("list active seats: %w", translate(err))
	}
	defer rows.Close()

	var claims []entity.SeatClaim
	for rows.Next() {
		var claim entity.SeatClaim
		if err := rows.Scan(&claim.SeatNumber, &claim.TicketID, &claim.Status); err != nil {
			r.log.Error("Failed to scan seat claim", zap.Error(err))
			return nil, fmt.Errorf("scan seat claim: %w", err)
		}
		claims = append(claims, claim)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate seat claims: %w", translate(err))
	}

	return claims, nil
}

func (r *reservedSeatRepository) Release(ctx context.Context, ticketID int64) ([]string, error) {
	query := `
		UPDATE reserved_seats
		SET active = FALSE
		WHERE ticket_id = $1 AND active
		RETURNING seat_number
	`

	rows, err := conn(ctx, r.db).Query(ctx, query, ticketID)
	if err != nil {
		r.log.Error("Failed to release seats",
			zap.Error(err),
			zap.Int64("ticket_id", ticketID),
		)
		return nil, fmt.Errorf("release seats of ticket %d: %w", ticketID, translate(err))
	}
	defer rows.Close()

	var seats []string
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, fmt.Errorf("scan released seat: %w", err)
		}
		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate released seats: %w", translate(err))
	}

	return seats, nil
}

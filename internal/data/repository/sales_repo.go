package repository

import (
	"cinema-kiosk/internal/data/entity"
	"cinema-kiosk/pkg/database"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type SalesRepository interface {
	// PaidByShowing sums paid tickets created in [from, to) grouped by the
	// ticket's day-of-week and week label.
	PaidByShowing(ctx context.Context, from, to time.Time) ([]entity.SalesRow, error)
}

type salesRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSalesRepository(db database.PgxIface, log *zap.Logger) SalesRepository {
	return &salesRepository{
		db:  db,
		log: log.With(zap.String("repository", "sales")),
	}
}

func (r *salesRepository) PaidByShowing(ctx context.Context, from, to time.Time) ([]entity.SalesRow, error) {
	query := `
		SELECT t.day_of_week, t.week_number,
		       COUNT(*) AS tickets,
		       COALESCE(SUM(s.seats), 0)::bigint AS seats,
		       COALESCE(SUM(p.amount), 0)::bigint AS revenue
		FROM tickets t
		JOIN payments p ON p.ticket_id = t.id
		JOIN LATERAL (
			SELECT COUNT(*) AS seats FROM reserved_seats rs WHERE rs.ticket_id = t.id
		) s ON TRUE
		WHERE p.status = 'paid'
		  AND t.created_at >= $1
		  AND t.created_at < $2
		GROUP BY t.day_of_week, t.week_number
	`

	rows, err := conn(ctx, r.db).Query(ctx, query, from, to)
	if err != nil {
		r.log.Error("Failed to aggregate paid sales",
			zap.Error(err),
			zap.Time("from", from),
			zap.Time("to", to),
		)
		return nil, fmt.Errorf("aggregate sales: %w", translate(err))
	}
	defer rows.Close()

	var result []entity.SalesRow
	for rows.Next() {
		var row entity.SalesRow
		if err := rows.Scan(&row.DayOfWeek, &row.WeekNumber, &row.Tickets, &row.Seats, &row.Revenue); err != nil {
			r.log.Error("Failed to scan sales row", zap.Error(err))
			return nil, fmt.Errorf("scan sales row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales rows: %w", translate(err))
	}

	return result, nil
}

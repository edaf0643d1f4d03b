package usecase

import (
	"context"
	"time"

	"cinema-kiosk/internal/data/entity"
	"cinema-kiosk/pkg/cache"
	"cinema-kiosk/pkg/events"

	"go.uber.org/zap"
)

// publish sends a seat event; failures are logged and never reach the caller.
func publish(ctx context.Context, p events.Publisher, log *zap.Logger, event events.SeatStatusChanged) {
	if err := p.PublishSeatStatus(context.WithoutCancel(ctx), event); err != nil {
		log.Warn("Failed to publish seat status",
			zap.Error(err),
			zap.Int64("ticket_id", event.TicketID),
			zap.String("status", event.Status),
		)
	}
}

func expiredEvent(hold entity.ExpiredHold, at time.Time) events.SeatStatusChanged {
	return events.SeatStatusChanged{
		MovieID:    hold.MovieID.String(),
		DayOfWeek:  hold.DayOfWeek,
		WeekNumber: hold.WeekNumber,
		TicketID:   hold.TicketID,
		Seats:      hold.Seats,
		Status:     events.SeatAvailable,
		OccurredAt: at,
	}
}

func salesCacheKey(t time.Time) string {
	return "analytics:sales:" + t.Format("2006-01")
}

// invalidateSales drops the cached reports of the months containing ts.
func invalidateSales(ctx context.Context, c cache.Cache, log *zap.Logger, ts ...time.Time) {
	keys := make([]string, 0, len(ts))
	seen := map[string]bool{}
	for _, t := range ts {
		key := salesCacheKey(t)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	if err := c.Delete(context.WithoutCancel(ctx), keys...); err != nil {
		log.Warn("Failed to invalidate sales cache", zap.Error(err))
	}
}

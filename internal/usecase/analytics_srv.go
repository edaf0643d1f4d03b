package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cinema-kiosk/internal/data/repository"
	"cinema-kiosk/internal/dto/response"
	"cinema-kiosk/internal/showing"
	"cinema-kiosk/pkg/cache"
	"cinema-kiosk/pkg/clock"

	"go.uber.org/zap"
)

type AnalyticsService interface {
	// Sales reports paid revenue of the current month by weekday of the
	// current week and by week bucket, with a next-week projection.
	Sales(ctx context.Context) (*response.SalesReport, error)
}

type analyticsService struct {
	repo  *repository.Repository
	clock clock.Clock
	cache cache.Cache
	log   *zap.Logger
}

func NewAnalyticsService(repo *repository.Repository, clk clock.Clock, c cache.Cache, log *zap.Logger) AnalyticsService {
	return &analyticsService{
		repo:  repo,
		clock: clk,
		cache: c,
		log:   log.With(zap.String("service", "analytics")),
	}
}

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

func (s *analyticsService) Sales(ctx context.Context) (*response.SalesReport, error) {
	now := s.clock.Now()
	key := salesCacheKey(now)

	var cached response.SalesReport
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.Warn("Sales cache read failed", zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	rows, err := s.repo.Sales.PaidByShowing(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("aggregate sales: %w", err)
	}

	currentWeekNo := showing.WeekOfMonth(now.Day())
	currentWeek := showing.WeekLabel(currentWeekNo)

	daily := make([]response.SalesBucket, len(weekdays))
	dayIndex := make(map[string]int, len(weekdays))
	for i, d := range weekdays {
		daily[i] = response.SalesBucket{Label: d.String()}
		dayIndex[d.String()] = i
	}

	weekly := make([]response.SalesBucket, showing.MaxWeek)
	weekIndex := make(map[string]int, showing.MaxWeek)
	for i := range weekly {
		weekly[i] = response.SalesBucket{Label: showing.WeekLabel(i + 1)}
		weekIndex[weekly[i].Label] = i
	}

	total := response.SalesBucket{Label: strings.ToLower(now.Month().String())}
	for _, row := range rows {
		add := func(b *response.SalesBucket) {
			b.Tickets += row.Tickets
			b.Seats += row.Seats
			b.Revenue += row.Revenue
		}

		add(&total)
		if i, ok := weekIndex[row.WeekNumber]; ok {
			add(&weekly[i])
		}
		if row.WeekNumber == currentWeek {
			if i, ok := dayIndex[row.DayOfWeek]; ok {
				add(&daily[i])
			}
		}
	}

	basis := make([]int64, 0, currentWeekNo)
	for i := 0; i < currentWeekNo; i++ {
		basis = append(basis, weekly[i].Revenue)
	}
	f := forecastNext(basis)

	report := &response.SalesReport{
		Month:       total.Label,
		CurrentWeek: currentWeek,
		CurrentDay:  now.Weekday().String(),
		Daily:       daily,
		Weekly:      weekly,
		Total:       total,
		Forecast: response.SalesForecast{
			NextWeekRevenue:  f.Next,
			Regression:       f.Regression,
			GrowthProjection: f.Growth,
			Direction:        f.Direction,
			Basis:            basis,
		},
		GeneratedAt: now,
	}

	if err := s.cache.Set(ctx, key, report); err != nil {
		s.log.Warn("Sales cache write failed", zap.Error(err))
	}

	s.log.Debug("Sales report computed",
		zap.String("month", report.Month),
		zap.Int64("revenue", total.Revenue),
	)
	return report, nil
}

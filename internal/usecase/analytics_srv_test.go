package usecase

import (
	"context"
	"testing"
	"time"

	"cinema-kiosk/internal/data/entity"
	"cinema-kiosk/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisCache(t *testing.T) (cache.Cache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return cache.New(client, time.Minute, zap.NewNop()), mr
}

// seedSales books paid tickets in September, in Week 1 and in Week 2 of October.
func seedSales(t *testing.T, env *testEnv) {
	t.Helper()

	env.clock.Set(time.Date(2026, time.September, 30, 12, 0, 0, 0, wib))
	_, err := env.reserve("website", "paid", "H1")
	require.NoError(t, err)

	env.clock.Set(time.Date(2026, time.October, 5, 12, 0, 0, 0, wib))
	_, err = env.reserve("kiosk", "paid", "A1")
	require.NoError(t, err)

	env.clock.Set(testNow)
	_, err = env.reserve("kiosk", "paid", "B1", "B2")
	require.NoError(t, err)
	_, err = env.reserve("kiosk", "", "C1")
	require.NoError(t, err)
}

func TestSales_Rollup(t *testing.T) {
	env := newTestEnv(t)
	seedSales(t, env)

	report, err := env.svc.Analytics.Sales(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "october", report.Month)
	assert.Equal(t, "Week 2", report.CurrentWeek)
	assert.Equal(t, "Wednesday", report.CurrentDay)

	assert.Equal(t, int64(600), report.Total.Revenue)
	assert.Equal(t, int64(2), report.Total.Tickets)
	assert.Equal(t, int64(3), report.Total.Seats)

	require.Len(t, report.Weekly, 4)
	assert.Equal(t, "Week 1", report.Weekly[0].Label)
	assert.Equal(t, int64(200), report.Weekly[0].Revenue)
	assert.Equal(t, int64(400), report.Weekly[1].Revenue)
	assert.Zero(t, report.Weekly[2].Revenue)

	require.Len(t, report.Daily, 7)
	assert.Equal(t, "Monday", report.Daily[0].Label)
	assert.Zero(t, report.Daily[0].Revenue, "Monday of Week 1 is not the current week")
	assert.Equal(t, "Wednesday", report.Daily[2].Label)
	assert.Equal(t, int64(400), report.Daily[2].Revenue)

	assert.Equal(t, []int64{200, 400}, report.Forecast.Basis)
	assert.Equal(t, 600.0, report.Forecast.Regression)
	assert.Equal(t, 800.0, report.Forecast.GrowthProjection)
	assert.Equal(t, 700.0, report.Forecast.NextWeekRevenue)
	assert.Equal(t, trendUp, report.Forecast.Direction)
}

func TestSales_CachedUntilPaymentChanges(t *testing.T) {
	c, mr := newRedisCache(t)
	env := newTestEnvWithCache(t, c)
	seedSales(t, env)
	ctx := context.Background()

	first, err := env.svc.Analytics.Sales(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists("analytics:sales:2026-10"))

	// A write that bypasses the services is invisible until invalidation.
	env.store.mu.Lock()
	env.store.payments[4].Status = entity.PaymentPaid
	env.store.mu.Unlock()

	cached, err := env.svc.Analytics.Sales(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Total.Revenue, cached.Total.Revenue)

	ticket, err := env.reserve("kiosk", "", "C2")
	require.NoError(t, err)
	_, err = env.svc.Payment.UpdateStatus(ctx, ticket.ID, "paid")
	require.NoError(t, err)
	assert.False(t, mr.Exists("analytics:sales:2026-10"))

	fresh, err := env.svc.Analytics.Sales(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), fresh.Total.Revenue)
}

func TestForecastNext(t *testing.T) {
	tests := []struct {
		name      string
		weekly    []int64
		next      float64
		direction string
	}{
		{name: "no data", weekly: nil, next: 0, direction: trendFlat},
		{name: "single week", weekly: []int64{500}, next: 500, direction: trendFlat},
		{name: "steady growth", weekly: []int64{100, 200, 300}, next: 462.5, direction: trendUp},
		{name: "decline", weekly: []int64{900, 600, 300}, next: 87.5, direction: trendDown},
		{name: "collapse clamps at zero", weekly: []int64{900, 300, 0}, next: 0, direction: trendFlat},
		{name: "flat", weekly: []int64{400, 400, 400, 400}, next: 400, direction: trendFlat},
		{name: "uses last four weeks", weekly: []int64{9999, 100, 200, 300, 400}, next: 572.22, direction: trendUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := forecastNext(tt.weekly)
			assert.InDelta(t, tt.next, f.Next, 0.01)
			assert.Equal(t, tt.direction, f.Direction)
			assert.GreaterOrEqual(t, f.Next, 0.0)
		})
	}
}

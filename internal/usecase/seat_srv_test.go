package usecase

import (
	"context"
	"testing"
	"time"

	"cinema-kiosk/internal/dto/request"
	"cinema-kiosk/internal/dto/response"
	"cinema-kiosk/internal/showing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailability_EmptyShowing(t *testing.T) {
	env := newTestEnv(t)

	m := env.seatMap(t)
	assert.Equal(t, env.movie.ID, m.MovieID)
	assert.Equal(t, "interstellar", m.MovieSlug)
	assert.Equal(t, "Wednesday", m.DayOfWeek)
	assert.Equal(t, "Week 2", m.WeekNumber)
	assert.Equal(t, showing.SeatCount, m.Total)
	assert.Equal(t, 94, m.Available)
	assert.Zero(t, m.Pending)
	assert.Zero(t, m.Sold)
	assert.Equal(t, "A1", m.Seats[0].SeatNumber)
	assert.Equal(t, "H14", m.Seats[len(m.Seats)-1].SeatNumber)
}

func TestAvailability_ClassifiesEverySeatOnce(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.reserve("kiosk", "", "A1", "A2")
	require.NoError(t, err)
	_, err = env.reserve("website", "paid", "B1")
	require.NoError(t, err)
	cancelled, err := env.reserve("kiosk", "", "C1")
	require.NoError(t, err)
	_, err = env.svc.Payment.UpdateStatus(context.Background(), cancelled.ID, "cancelled")
	require.NoError(t, err)

	m := env.seatMap(t)
	assert.Equal(t, 2, m.Pending)
	assert.Equal(t, 1, m.Sold)
	assert.Equal(t, 91, m.Available)
	assert.Equal(t, m.Total, m.Available+m.Pending+m.Sold)

	seen := map[string]bool{}
	for _, s := range m.Seats {
		assert.False(t, seen[s.SeatNumber], "seat %s listed twice", s.SeatNumber)
		seen[s.SeatNumber] = true
	}
	assert.Len(t, seen, showing.SeatCount)

	assert.Equal(t, response.SeatPending, seatStatus(m, "A1"))
	assert.Equal(t, response.SeatSold, seatStatus(m, "B1"))
	assert.Equal(t, response.SeatAvailable, seatStatus(m, "C1"))
}

func TestAvailability_RepeatedReadsAgree(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.reserve("kiosk", "", "E1")
	require.NoError(t, err)

	assert.Equal(t, env.seatMap(t), env.seatMap(t))
}

func TestAvailability_ExpiredHoldReadsAvailable(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.reserve("kiosk", "", "E2")
	require.NoError(t, err)

	env.clock.Advance(20 * time.Minute)
	assert.Equal(t, response.SeatAvailable, seatStatus(env.seatMap(t), "E2"))
}

func TestAvailability_ExplicitShowing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.reserve("kiosk", "", "A1")
	require.NoError(t, err)

	m, err := env.svc.Seat.Availability(context.Background(), request.SeatStatusQuery{
		MovieID:    "Interstellar",
		DayOfWeek:  "friday",
		WeekNumber: "Week 2",
	})
	require.NoError(t, err)
	assert.Equal(t, "Friday", m.DayOfWeek)
	assert.Equal(t, response.SeatAvailable, seatStatus(m, "A1"))
}

func TestAvailability_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Seat.Availability(ctx, request.SeatStatusQuery{})
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.Seat.Availability(ctx, request.SeatStatusQuery{MovieID: "00000000-0000-0000-0000-000000000000"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.Seat.Availability(ctx, request.SeatStatusQuery{MovieID: env.movie.ID, DayOfWeek: "someday"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.Seat.Availability(ctx, request.SeatStatusQuery{MovieID: env.movie.ID, WeekNumber: "Week 9"})
	require.ErrorIs(t, err, ErrValidation)
}

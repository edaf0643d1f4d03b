package usecase

import (
	"context"
	"testing"
	"time"

	"cinema-kiosk/internal/data/entity"
	"cinema-kiosk/internal/dto/response"
	"cinema-kiosk/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *fakeStore) paymentStatus(ticketID int64) entity.PaymentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.payments[ticketID]; ok {
		return p.Status
	}
	return ""
}

func TestUpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		target  string
		wantErr error
		want    entity.PaymentStatus
	}{
		{name: "pending to paid", initial: "", target: "paid", want: entity.PaymentPaid},
		{name: "pending to cancelled", initial: "", target: "Cancelled", want: entity.PaymentCancelled},
		{name: "pending to refunded", initial: "", target: "refunded", want: entity.PaymentRefunded},
		{name: "pending to pending", initial: "", target: "pending", want: entity.PaymentPending},
		{name: "paid to paid", initial: "paid", target: "paid", want: entity.PaymentPaid},
		{name: "paid to cancelled", initial: "paid", target: "cancelled", wantErr: ErrValidation, want: entity.PaymentPaid},
		{name: "paid to pending", initial: "paid", target: "pending", wantErr: ErrValidation, want: entity.PaymentPaid},
		{name: "unknown status", initial: "", target: "refunded2", wantErr: ErrValidation, want: entity.PaymentPending},
		{name: "empty status", initial: "", target: "", wantErr: ErrValidation, want: entity.PaymentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ticket, err := env.reserve("kiosk", tt.initial, "A1")
			require.NoError(t, err)

			p, err := env.svc.Payment.UpdateStatus(context.Background(), ticket.ID, tt.target)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
			} else {
				require.NoError(t, err)
				assert.Equal(t, string(tt.want), p.Status)
			}
			assert.Equal(t, tt.want, env.store.paymentStatus(ticket.ID))
		})
	}
}

func TestUpdateStatus_ReleaseFreesSeats(t *testing.T) {
	env := newTestEnv(t)
	ticket, err := env.reserve("kiosk", "", "B2", "B3")
	require.NoError(t, err)

	_, err = env.svc.Payment.UpdateStatus(context.Background(), ticket.ID, "cancelled")
	require.NoError(t, err)

	m := env.seatMap(t)
	assert.Equal(t, response.SeatAvailable, seatStatus(m, "B2"))
	assert.Equal(t, response.SeatAvailable, seatStatus(m, "B3"))

	released := env.events.byStatus(events.SeatAvailable)
	require.Len(t, released, 1)
	assert.ElementsMatch(t, []string{"B2", "B3"}, released[0].Seats)

	// The ticket keeps its seat list for history.
	got, err := env.svc.Ticket.GetTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B2", "B3"}, got.SeatNumbers)

	_, err = env.reserve("kiosk", "", "B2")
	require.NoError(t, err)
}

func TestUpdateStatus_PaidMarksSold(t *testing.T) {
	env := newTestEnv(t)
	ticket, err := env.reserve("kiosk", "", "C7")
	require.NoError(t, err)

	_, err = env.svc.Payment.UpdateStatus(context.Background(), ticket.ID, "paid")
	require.NoError(t, err)

	assert.Equal(t, response.SeatSold, seatStatus(env.seatMap(t), "C7"))
	sold := env.events.byStatus(events.SeatSold)
	require.Len(t, sold, 1)
	assert.Equal(t, []string{"C7"}, sold[0].Seats)
}

func TestUpdateStatus_SameStatusEmitsNothing(t *testing.T) {
	env := newTestEnv(t)
	ticket, err := env.reserve("website", "paid", "C8")
	require.NoError(t, err)
	before := len(env.events.events)

	_, err = env.svc.Payment.UpdateStatus(context.Background(), ticket.ID, "paid")
	require.NoError(t, err)
	assert.Len(t, env.events.events, before)
}

func TestUpdateStatus_UnknownTicket(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Payment.UpdateStatus(context.Background(), 404, "paid")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus_LatePaymentOnExpiredHold(t *testing.T) {
	env := newTestEnv(t)
	ticket, err := env.reserve("kiosk", "", "D4")
	require.NoError(t, err)

	env.clock.Advance(25 * time.Minute)
	_, err = env.svc.Payment.UpdateStatus(context.Background(), ticket.ID, "paid")
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, entity.PaymentCancelled, env.store.paymentStatus(ticket.ID))
}

func TestExpirePending(t *testing.T) {
	env := newTestEnv(t)

	old, err := env.reserve("kiosk", "", "A1")
	require.NoError(t, err)
	web, err := env.reserve("website", "", "A2")
	require.NoError(t, err)
	paid, err := env.reserve("kiosk", "paid", "A3")
	require.NoError(t, err)

	env.clock.Advance(10 * time.Minute)
	fresh, err := env.reserve("kiosk", "", "A4")
	require.NoError(t, err)

	env.clock.Advance(10 * time.Minute)
	n, err := env.svc.Payment.ExpirePending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, entity.PaymentCancelled, env.store.paymentStatus(old.ID))
	assert.Equal(t, entity.PaymentPending, env.store.paymentStatus(web.ID))
	assert.Equal(t, entity.PaymentPaid, env.store.paymentStatus(paid.ID))
	assert.Equal(t, entity.PaymentPending, env.store.paymentStatus(fresh.ID))

	n, err = env.svc.Payment.ExpirePending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunExpirySweeper(t *testing.T) {
	env := newTestEnv(t)
	ticket, err := env.reserve("kiosk", "", "H1")
	require.NoError(t, err)
	env.clock.Advance(21 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		env.svc.Payment.RunExpirySweeper(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return env.store.paymentStatus(ticket.ID) == entity.PaymentCancelled
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishSeatStatus(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, zap.NewNop())

	event := SeatStatusChanged{
		MovieID:    "m-1",
		DayOfWeek:  "Wednesday",
		WeekNumber: "Week 2",
		TicketID:   7,
		Seats:      []string{"A1", "A2"},
		Status:     SeatPending,
	}
	require.NoError(t, p.PublishSeatStatus(context.Background(), event))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "m-1|Wednesday|Week 2", string(msg.Key))

	var decoded SeatStatusChanged
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, []string{"A1", "A2"}, decoded.Seats)
	assert.Equal(t, SeatPending, decoded.Status)
	assert.Equal(t, int64(7), decoded.TicketID)
	assert.False(t, decoded.OccurredAt.IsZero())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newKafkaPublisher(w, zap.NewNop())

	err := p.PublishSeatStatus(context.Background(), SeatStatusChanged{MovieID: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNewPublisher_NoBrokersIsNoop(t *testing.T) {
	p := NewPublisher(nil, "cinema.seats.status", zap.NewNop())
	_, ok := p.(Noop)
	assert.True(t, ok)
	assert.NoError(t, p.PublishSeatStatus(context.Background(), SeatStatusChanged{}))
}

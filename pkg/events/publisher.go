package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Seat statuses carried by SeatStatusChanged.
const (
	SeatAvailable = "available"
	SeatPending   = "pending"
	SeatSold      = "sold"
)

// SeatStatusChanged is emitted whenever seats of a showing change classification.
type SeatStatusChanged struct {
	MovieID    string    `json:"movie_id"`
	DayOfWeek  string    `json:"day_of_week"`
	WeekNumber string    `json:"week_number"`
	TicketID   int64     `json:"ticket_id"`
	Seats      []string  `json:"seats"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Key groups messages of one showing on the same partition.
func (e SeatStatusChanged) Key() string {
	return e.MovieID + "|" + e.DayOfWeek + "|" + e.WeekNumber
}

type Publisher interface {
	PublishSeatStatus(ctx context.Context, event SeatStatusChanged) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
	log    *zap.Logger
}

// NewPublisher returns a Kafka backed publisher, or Noop when no brokers are configured.
func NewPublisher(brokers []string, topic string, log *zap.Logger) Publisher {
	if len(brokers) == 0 {
		log.Info("Kafka brokers not configured, seat events disabled")
		return Noop{}
	}

	p := &kafkaPublisher{log: log.With(zap.String("component", "events"))}
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		// Async keeps broker latency off the reservation path.
		Async: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				p.log.Warn("Seat events not delivered", zap.Int("count", len(messages)), zap.Error(err))
			}
		},
	}
	return p
}

func newKafkaPublisher(writer messageWriter, log *zap.Logger) *kafkaPublisher {
	return &kafkaPublisher{
		writer: writer,
		log:    log.With(zap.String("component", "events")),
	}
}

func (p *kafkaPublisher) PublishSeatStatus(ctx context.Context, event SeatStatusChanged) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msgBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode seat event: %w", err)
	}

	p.log.Debug("Publishing seat status",
		zap.String("key", event.Key()),
		zap.String("status", event.Status),
		zap.Strings("seats", event.Seats),
	)

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key()),
		Value: msgBytes,
	}); err != nil {
		return fmt.Errorf("publish seat event: %w", err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop discards events.
type Noop struct{}

func (Noop) PublishSeatStatus(context.Context, SeatStatusChanged) error { return nil }
func (Noop) Close() error                                               { return nil }

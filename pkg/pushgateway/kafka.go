package pushgateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the gateway uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaGateway publishes one message per recipient to a topic consumed by
// the device push workers
type KafkaGateway struct {
	writer messageWriter
}

// pushEvent is the value of every published message
type pushEvent struct {
	BatchID    string    `json:"batchId"`
	CustomerID string    `json:"customerId"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Type       string    `json:"type"`
	QueuedAt   time.Time `json:"queuedAt"`
}

// NewKafkaGateway creates a gateway writing to topic on brokers
func NewKafkaGateway(brokers []string, topic string) *KafkaGateway {
	return &KafkaGateway{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Name returns the gateway name
func (g *KafkaGateway) Name() string { return NameKafka }

// Send publishes the batch keyed by customer id. Messages rejected by the
// broker count as failed.
func (g *KafkaGateway) Send(ctx context.Context, msg Message, recipientIDs []string) (*DeliveryReport, error) {
	batchID := uuid.NewString()
	now := time.Now()

	msgs := make([]kafka.Message, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		value, err := json.Marshal(pushEvent{
			BatchID:    batchID,
			CustomerID: id,
			Title:      msg.Title,
			Body:       msg.Body,
			Type:       msg.Type,
			QueuedAt:   now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal push event: %w", err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(id), Value: value})
	}

	report := &DeliveryReport{BatchID: batchID}
	err := g.writer.WriteMessages(ctx, msgs...)
	var writeErrs kafka.WriteErrors
	switch {
	case err == nil:
		report.SentCount = len(msgs)
	case errors.As(err, &writeErrs):
		for _, e := range writeErrs {
			if e != nil {
				report.FailedCount++
			} else {
				report.SentCount++
			}
		}
	default:
		return nil, fmt.Errorf("failed to publish batch %s: %w", batchID, err)
	}
	return report, nil
}

// Close flushes and closes the underlying writer
func (g *KafkaGateway) Close() error {
	return g.writer.Close()
}

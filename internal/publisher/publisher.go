// Package publisher emits checkout events for downstream consumers.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	OrdersTopic          = "orders-placed"
	EventTypeOrderPlaced = "order.placed"
)

type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, userID string, order domain.Order) error
	Close() error
}

type OrderPlacedEvent struct {
	EventType  string       `json:"event_type"`
	UserID     string       `json:"user_id"`
	Order      domain.Order `json:"order"`
	OccurredAt time.Time    `json:"occurred_at"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  OrdersTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
	}
	return &KafkaPublisher{writer: w}
}

// PublishOrderPlaced keys by user so one user's orders stay on one partition.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, userID string, order domain.Order) error {
	payload, err := json.Marshal(OrderPlacedEvent{
		EventType:  EventTypeOrderPlaced,
		UserID:     userID,
		Order:      order,
		OccurredAt: order.PlacedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(userID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeOrderPlaced)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher is used when no brokers are configured.
type LogPublisher struct{}

func (LogPublisher) PublishOrderPlaced(_ context.Context, userID string, order domain.Order) error {
	log.Printf("order placed: user=%s items=%d total=%.2f", userID, len(order.Items), order.Total)
	return nil
}

func (LogPublisher) Close() error {
	return nil
}

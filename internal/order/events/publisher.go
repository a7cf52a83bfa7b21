package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Symbiotnev/PITIA-pitia/internal/order/domain"
	"github.com/segmentio/kafka-go"
)

// Publisher notifies interested consumers (provider notification feeds)
// that an order was placed. Publication is best-effort: the order is
// already persisted when this runs and a failed publish never rolls it back.
type Publisher interface {
	OrderPlaced(ctx context.Context, order *domain.Order) error
	Close() error
}

type orderPlacedEvent struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	ProviderIDs []string  `json:"provider_ids"`
	Total       float64   `json:"total"`
	CreatedAt   time.Time `json:"created_at"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, order *domain.Order) error {
	payload, err := json.Marshal(orderPlacedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		ProviderIDs: order.ProviderIDs(),
		Total:       order.Total,
		CreatedAt:   order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.UserID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

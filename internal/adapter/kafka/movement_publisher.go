package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/renzotjpro/ecommerce-support/internal/domain"
)

const (
	DefaultMovementTopic = "inventory.stock-movements"
	movementEventType    = "stock_movement.recorded"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// MovementPublisher emits every stock movement to a Kafka topic keyed by
// product id, so consumers see a product's movements in order.
type MovementPublisher struct {
	writer messageWriter
}

func NewMovementPublisher(topic string, brokers ...string) *MovementPublisher {
	if topic == "" {
		topic = DefaultMovementTopic
	}
	return &MovementPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
	}
}

type movementPayload struct {
	MovementID    string    `json:"movement_id"`
	ProductID     string    `json:"product_id"`
	Delta         int64     `json:"delta"`
	Reason        string    `json:"reason"`
	PreviousStock int64     `json:"previous_stock"`
	NewStock      int64     `json:"new_stock"`
	RecordedAt    time.Time `json:"recorded_at"`
}

func (p *MovementPublisher) Record(ctx context.Context, movement *domain.StockMovement) error {
	payload, err := json.Marshal(movementPayload{
		MovementID:    movement.ID.String(),
		ProductID:     movement.ProductID,
		Delta:         movement.Delta,
		Reason:        movement.Reason,
		PreviousStock: movement.PreviousStock,
		NewStock:      movement.NewStock,
		RecordedAt:    movement.RecordedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal stock movement: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(movement.ProductID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(movementEventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish stock movement: %w", err)
	}
	return nil
}

func (p *MovementPublisher) Close() error {
	return p.writer.Close()
}

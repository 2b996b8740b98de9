package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const DefaultMovementReason = "manual_update"

// StockMovement is an append-only audit record of one stock quantity change.
type StockMovement struct {
	ID            uuid.UUID
	ProductID     string
	Delta         int64
	Reason        string
	PreviousStock int64
	NewStock      int64
	RecordedAt    time.Time
}

// MovementRecorder is a write-only audit sink.
type MovementRecorder interface {
	Record(ctx context.Context, movement *StockMovement) error
}

func NewStockMovement(productID string, delta int64, reason string, previous, current int64, now time.Time) *StockMovement {
	if reason == "" {
		reason = DefaultMovementReason
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	return &StockMovement{
		ID:            id,
		ProductID:     productID,
		Delta:         delta,
		Reason:        reason,
		PreviousStock: previous,
		NewStock:      current,
		RecordedAt:    now.UTC(),
	}
}

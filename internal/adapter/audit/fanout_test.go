package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renzotjpro/ecommerce-support/internal/domain"
)

type stubSink struct {
	err      error
	recorded []*domain.StockMovement
}

func (s *stubSink) Record(ctx context.Context, m *domain.StockMovement) error {
	s.recorded = append(s.recorded, m)
	return s.err
}

func TestFanout_Record(t *testing.T) {
	movement := domain.NewStockMovement("PROD001", 5, "restock", 0, 5, time.Now())

	t.Run("writes to every sink", func(t *testing.T) {
		a, b := &stubSink{}, &stubSink{}
		require.NoError(t, NewFanout(a, b).Record(context.Background(), movement))
		assert.Len(t, a.recorded, 1)
		assert.Len(t, b.recorded, 1)
	})

	t.Run("keeps going after a failure", func(t *testing.T) {
		errTopic := errors.New("topic unavailable")
		a, b := &stubSink{err: errTopic}, &stubSink{}
		err := NewFanout(a, b).Record(context.Background(), movement)
		require.ErrorIs(t, err, errTopic)
		assert.Len(t, b.recorded, 1)
	})

	t.Run("no sinks", func(t *testing.T) {
		assert.NoError(t, NewFanout().Record(context.Background(), movement))
	})
}

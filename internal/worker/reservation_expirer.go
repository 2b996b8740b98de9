package worker

import (
	"context"
	"log/slog"
	"time"
)

// Expirer releases active reservations whose hold has passed.
type Expirer interface {
	ExpireReservations(ctx context.Context, limit int) (int, error)
}

type SweepRecorder interface {
	RecordSweep(ctx context.Context, duration time.Duration, released int)
}

type ReservationExpirer struct {
	expirer   Expirer
	metrics   SweepRecorder
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

func NewReservationExpirer(
	expirer Expirer,
	metrics SweepRecorder,
	logger *slog.Logger,
	interval time.Duration,
	batchSize int,
) *ReservationExpirer {
	return &ReservationExpirer{
		expirer:   expirer,
		metrics:   metrics,
		logger:    logger,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start sweeps on every tick until ctx is cancelled.
func (w *ReservationExpirer) Start(ctx context.Context) {
	w.logger.Info("reservation expirer starting",
		slog.Duration("interval", w.interval),
		slog.Int("batch_size", w.batchSize),
	)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reservation expirer shutting down")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep drains expired reservations batch by batch. A full batch means more
// may be waiting.
func (w *ReservationExpirer) sweep(ctx context.Context) {
	start := time.Now()
	var total int
	defer func() {
		if w.metrics != nil {
			w.metrics.RecordSweep(ctx, time.Since(start), total)
		}
	}()

	for ctx.Err() == nil {
		released, err := w.expirer.ExpireReservations(ctx, w.batchSize)
		total += released
		if err != nil {
			w.logger.Error("failed to expire reservations", slog.String("error", err.Error()))
			return
		}
		if released < w.batchSize {
			break
		}
	}

	if total > 0 {
		w.logger.Info("expired reservations released", slog.Int("count", total))
	}
}

// Package audit combines several movement sinks into one.
package audit

import (
	"context"
	"errors"

	"github.com/renzotjpro/ecommerce-support/internal/domain"
)

// Fanout writes each movement to every sink. All sinks are attempted; the
// returned error joins the failures.
type Fanout struct {
	sinks []domain.MovementRecorder
}

func NewFanout(sinks ...domain.MovementRecorder) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Record(ctx context.Context, movement *domain.StockMovement) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Record(ctx, movement); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

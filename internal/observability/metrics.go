package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/renzotjpro/ecommerce-support/internal/domain"
)

type LedgerMetrics struct {
	reservations       metric.Int64Counter
	releases           metric.Int64Counter
	stockAdjustments   metric.Int64Counter
	adjustedUnits      metric.Int64Counter
	auditFailures      metric.Int64Counter
	sweepDuration      metric.Float64Histogram
	dependencyUp       metric.Int64ObservableGauge
	dependencyStatus   map[string]bool
	dependencyStatusMu sync.RWMutex
}

func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	m := &LedgerMetrics{
		dependencyStatus: make(map[string]bool),
	}

	var err error

	m.reservations, err = meter.Int64Counter(
		"inventory_reservations_total",
		metric.WithDescription("Reservation attempts by outcome"),
	)
	if err != nil {
		return nil, err
	}

	m.releases, err = meter.Int64Counter(
		"inventory_reservation_releases_total",
		metric.WithDescription("Released reservations by reason"),
	)
	if err != nil {
		return nil, err
	}

	m.stockAdjustments, err = meter.Int64Counter(
		"inventory_stock_adjustments_total",
		metric.WithDescription("Committed stock updates by direction"),
	)
	if err != nil {
		return nil, err
	}

	m.adjustedUnits, err = meter.Int64Counter(
		"inventory_stock_adjusted_units_total",
		metric.WithDescription("Absolute units added or removed by stock updates"),
	)
	if err != nil {
		return nil, err
	}

	m.auditFailures, err = meter.Int64Counter(
		"inventory_audit_failures_total",
		metric.WithDescription("Stock movements that could not be written to the audit sink"),
	)
	if err != nil {
		return nil, err
	}

	m.sweepDuration, err = meter.Float64Histogram(
		"inventory_expiry_sweep_seconds",
		metric.WithDescription("Duration of expired reservation sweeps in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.dependencyUp, err = meter.Int64ObservableGauge(
		"dependency_up",
		metric.WithDescription("Dependency health status (1=up, 0=down)"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			m.dependencyStatusMu.RLock()
			defer m.dependencyStatusMu.RUnlock()
			for name, up := range m.dependencyStatus {
				val := int64(0)
				if up {
					val = 1
				}
				o.Observe(val, metric.WithAttributes(attribute.String("dependency", name)))
			}
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *LedgerMetrics) RecordReservation(ctx context.Context, outcome string) {
	m.reservations.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)),
	)
}

func (m *LedgerMetrics) RecordRelease(ctx context.Context, reason domain.ReleaseReason) {
	m.releases.Add(ctx, 1,
		metric.WithAttributes(attribute.String("reason", string(reason))),
	)
}

func (m *LedgerMetrics) RecordStockAdjustment(ctx context.Context, delta int64) {
	direction := "in"
	units := delta
	if delta < 0 {
		direction = "out"
		units = -delta
	}
	attrs := metric.WithAttributes(attribute.String("direction", direction))
	m.stockAdjustments.Add(ctx, 1, attrs)
	m.adjustedUnits.Add(ctx, units, attrs)
}

func (m *LedgerMetrics) RecordAuditFailure(ctx context.Context) {
	m.auditFailures.Add(ctx, 1)
}

func (m *LedgerMetrics) RecordSweep(ctx context.Context, duration time.Duration, released int) {
	m.sweepDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.Bool("released_any", released > 0)),
	)
}

func (m *LedgerMetrics) SetDependencyStatus(name string, up bool) {
	m.dependencyStatusMu.Lock()
	defer m.dependencyStatusMu.Unlock()
	m.dependencyStatus[name] = up
}

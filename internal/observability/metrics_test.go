package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/renzotjpro/ecommerce-support/internal/domain"
)

func newTestMetrics(t *testing.T) (*LedgerMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := NewLedgerMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	return metrics, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	rm := metricdata.ResourceMetrics{}
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return rm
}

func TestLedgerMetrics_RecordReservation(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	ctx := context.Background()

	metrics.RecordReservation(ctx, "reserved")
	metrics.RecordReservation(ctx, "reserved")
	metrics.RecordReservation(ctx, "insufficient_stock")

	rm := collect(t, reader)
	if got := sumFor(rm, "inventory_reservations_total", attribute.String("outcome", "reserved")); got != 2 {
		t.Errorf("reserved = %d, want 2", got)
	}
	if got := sumFor(rm, "inventory_reservations_total", attribute.String("outcome", "insufficient_stock")); got != 1 {
		t.Errorf("insufficient_stock = %d, want 1", got)
	}
}

func TestLedgerMetrics_RecordRelease(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	ctx := context.Background()

	metrics.RecordRelease(ctx, domain.ReleaseReasonManual)
	metrics.RecordRelease(ctx, domain.ReleaseReasonExpired)
	metrics.RecordRelease(ctx, domain.ReleaseReasonExpired)

	rm := collect(t, reader)
	if got := sumFor(rm, "inventory_reservation_releases_total", attribute.String("reason", "expired")); got != 2 {
		t.Errorf("expired = %d, want 2", got)
	}
}

func TestLedgerMetrics_RecordStockAdjustment(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	ctx := context.Background()

	metrics.RecordStockAdjustment(ctx, 25)
	metrics.RecordStockAdjustment(ctx, -10)
	metrics.RecordStockAdjustment(ctx, -5)

	rm := collect(t, reader)
	if got := sumFor(rm, "inventory_stock_adjustments_total", attribute.String("direction", "out")); got != 2 {
		t.Errorf("out adjustments = %d, want 2", got)
	}
	if got := sumFor(rm, "inventory_stock_adjusted_units_total", attribute.String("direction", "out")); got != 15 {
		t.Errorf("out units = %d, want 15", got)
	}
	if got := sumFor(rm, "inventory_stock_adjusted_units_total", attribute.String("direction", "in")); got != 25 {
		t.Errorf("in units = %d, want 25", got)
	}
}

func TestLedgerMetrics_RecordAuditFailureAndSweep(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	ctx := context.Background()

	metrics.RecordAuditFailure(ctx)
	metrics.RecordSweep(ctx, 20*time.Millisecond, 3)

	rm := collect(t, reader)
	if findMetric(rm, "inventory_audit_failures_total") == nil {
		t.Error("inventory_audit_failures_total metric not found")
	}
	if findMetric(rm, "inventory_expiry_sweep_seconds") == nil {
		t.Error("inventory_expiry_sweep_seconds metric not found")
	}
}

func TestLedgerMetrics_DependencyStatus(t *testing.T) {
	metrics, reader := newTestMetrics(t)

	metrics.SetDependencyStatus("postgres", true)
	metrics.SetDependencyStatus("redis", false)

	rm := collect(t, reader)
	m := findMetric(rm, "dependency_up")
	if m == nil {
		t.Fatal("dependency_up metric not found")
	}
	gauge, ok := m.Data.(metricdata.Gauge[int64])
	if !ok {
		t.Fatalf("dependency_up data type = %T", m.Data)
	}
	values := map[string]int64{}
	for _, dp := range gauge.DataPoints {
		name, _ := dp.Attributes.Value("dependency")
		values[name.AsString()] = dp.Value
	}
	if values["postgres"] != 1 || values["redis"] != 0 {
		t.Errorf("dependency values = %v", values)
	}
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumFor(rm metricdata.ResourceMetrics, name string, attr attribute.KeyValue) int64 {
	m := findMetric(rm, name)
	if m == nil {
		return 0
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		return 0
	}
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attr.Key); ok && v.Emit() == attr.Value.Emit() {
			total += dp.Value
		}
	}
	return total
}

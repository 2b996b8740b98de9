package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type stubExpirer struct {
	mu      sync.Mutex
	batches []int
	err     error
	calls   int
}

func (s *stubExpirer) ExpireReservations(ctx context.Context, limit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	if len(s.batches) == 0 {
		return 0, nil
	}
	n := s.batches[0]
	s.batches = s.batches[1:]
	return n, nil
}

func (s *stubExpirer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubRecorder struct {
	sweeps   int
	released int
}

func (r *stubRecorder) RecordSweep(ctx context.Context, d time.Duration, released int) {
	r.sweeps++
	r.released += released
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReservationExpirer_SweepDrainsFullBatches(t *testing.T) {
	expirer := &stubExpirer{batches: []int{10, 10, 4}}
	recorder := &stubRecorder{}
	w := NewReservationExpirer(expirer, recorder, discardLogger(), time.Second, 10)

	w.sweep(context.Background())

	if got := expirer.callCount(); got != 3 {
		t.Errorf("ExpireReservations calls = %d, want 3", got)
	}
	if recorder.sweeps != 1 || recorder.released != 24 {
		t.Errorf("recorded sweeps=%d released=%d, want 1 and 24", recorder.sweeps, recorder.released)
	}
}

func TestReservationExpirer_SweepStopsOnError(t *testing.T) {
	expirer := &stubExpirer{err: errors.New("store unavailable")}
	w := NewReservationExpirer(expirer, nil, discardLogger(), time.Second, 10)

	w.sweep(context.Background())

	if got := expirer.callCount(); got != 1 {
		t.Errorf("ExpireReservations calls = %d, want 1", got)
	}
}

func TestReservationExpirer_StartStopsOnCancel(t *testing.T) {
	expirer := &stubExpirer{}
	w := NewReservationExpirer(expirer, nil, discardLogger(), 5*time.Millisecond, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for expirer.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("expirer never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

package refresh

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/termweather/internal/weather"
)

// blockingFetcher counts fetches and holds each one until released.
type blockingFetcher struct {
	calls   atomic.Int64
	release chan struct{}
	outcome func(loc weather.Location) weather.Outcome
}

func newBlockingFetcher(outcome func(loc weather.Location) weather.Outcome) *blockingFetcher {
	return &blockingFetcher{
		release: make(chan struct{}),
		outcome: outcome,
	}
}

func (f *blockingFetcher) Fetch(ctx context.Context, loc weather.Location) weather.Outcome {
	f.calls.Add(1)
	<-f.release
	return f.outcome(loc)
}

func successOutcome(weather.Location) weather.Outcome {
	return weather.Success(&weather.Snapshot{FetchedAt: time.Now()})
}

func newTestScheduler(f Fetcher) *Scheduler {
	loc := weather.Location{Zip: "98272", Country: "US"}
	return New(f, loc, 10*time.Minute, time.Second, 2, time.Hour, zap.NewNop())
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestTriggerNowCoalesces(t *testing.T) {
	f := newBlockingFetcher(successOutcome)
	s := newTestScheduler(f)

	var mu sync.Mutex
	delivered := 0
	s.SetNotify(func(weather.Outcome) {
		mu.Lock()
		delivered++
		mu.Unlock()
	})

	// First trigger launches; the rest arrive while it is in flight.
	for i := 0; i < 5; i++ {
		s.TriggerNow()
	}
	waitFor(t, func() bool { return f.calls.Load() == 1 }, "fetch did not start")
	close(f.release)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return delivered == 1
	}, "outcome was not delivered")

	if got := f.calls.Load(); got != 1 {
		t.Fatalf("expected exactly 1 fetch for 5 triggers, got %d", got)
	}
}

func TestStopDiscardsInFlightResult(t *testing.T) {
	f := newBlockingFetcher(successOutcome)
	s := newTestScheduler(f)

	delivered := make(chan struct{}, 1)
	s.SetNotify(func(weather.Outcome) { delivered <- struct{}{} })

	s.TriggerNow()
	waitFor(t, func() bool { return f.calls.Load() == 1 }, "fetch did not start")

	s.Stop()
	close(f.release)

	select {
	case <-delivered:
		t.Fatal("result delivered after stop")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUnauthorizedHaltsUntilSettingsChange(t *testing.T) {
	var fixed atomic.Bool
	f := newBlockingFetcher(func(loc weather.Location) weather.Outcome {
		if !fixed.Load() {
			return weather.Failure(weather.Errf(weather.KindUnauthorized, "bad key"))
		}
		return successOutcome(loc)
	})
	s := newTestScheduler(f)

	outcomes := make(chan weather.Outcome, 4)
	s.SetNotify(func(o weather.Outcome) { outcomes <- o })

	s.TriggerNow()
	waitFor(t, func() bool { return f.calls.Load() == 1 }, "fetch did not start")
	f.release <- struct{}{}

	o := <-outcomes
	if o.Err == nil || o.Err.Kind != weather.KindUnauthorized {
		t.Fatalf("expected unauthorized outcome, got %+v", o)
	}
	if !s.Halted() {
		t.Fatal("scheduler should halt after unauthorized")
	}

	// Periodic ticks must not fetch while halted.
	s.tick()
	time.Sleep(50 * time.Millisecond)
	if f.calls.Load() != 1 {
		t.Fatalf("halted scheduler fetched anyway: %d calls", f.calls.Load())
	}

	// A settings change resumes and triggers exactly one fetch.
	fixed.Store(true)
	s.UpdateSettings(weather.Location{Zip: "10001", Country: "US"})
	waitFor(t, func() bool { return f.calls.Load() == 2 }, "settings change did not trigger a fetch")
	f.release <- struct{}{}

	o = <-outcomes
	if !o.OK() {
		t.Fatalf("expected success after corrected settings, got %+v", o)
	}
	if s.Halted() {
		t.Fatal("scheduler should be resumed after settings change")
	}
}

func TestSettingsChangeDuringInFlightFetch(t *testing.T) {
	// The old location fails with Unauthorized; the corrected one
	// succeeds. The correction lands while the stale fetch is running.
	f := newBlockingFetcher(func(loc weather.Location) weather.Outcome {
		if loc.Zip == "98272" {
			return weather.Failure(weather.Errf(weather.KindUnauthorized, "bad key"))
		}
		return successOutcome(loc)
	})
	s := newTestScheduler(f)

	outcomes := make(chan weather.Outcome, 4)
	s.SetNotify(func(o weather.Outcome) { outcomes <- o })

	s.TriggerNow()
	waitFor(t, func() bool { return f.calls.Load() == 1 }, "fetch did not start")

	s.UpdateSettings(weather.Location{Zip: "10001", Country: "US"})
	f.release <- struct{}{}

	o := <-outcomes
	if o.Err == nil || o.Err.Kind != weather.KindUnauthorized {
		t.Fatalf("expected the stale unauthorized outcome first, got %+v", o)
	}
	if s.Halted() {
		t.Fatal("stale unauthorized completion halted past the settings change")
	}

	// Exactly one follow-up fetch, using the new settings.
	waitFor(t, func() bool { return f.calls.Load() == 2 }, "no follow-up fetch with the new settings")
	f.release <- struct{}{}

	o = <-outcomes
	if !o.OK() {
		t.Fatalf("expected success from the corrected settings, got %+v", o)
	}
	if got := f.calls.Load(); got != 2 {
		t.Fatalf("expected exactly 2 fetches, got %d", got)
	}
}

func TestStartIsIdempotent(t *testing.T) {
	f := newBlockingFetcher(successOutcome)
	s := newTestScheduler(f)
	defer s.Stop()

	if err := s.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("second start failed: %v", err)
	}
}

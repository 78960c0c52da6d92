package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/termweather/internal/weather"
)

// Fetcher performs one logical fetch. Implemented by openweather.Client.
type Fetcher interface {
	Fetch(ctx context.Context, loc weather.Location) weather.Outcome
}

// Scheduler owns the refresh cadence. It guarantees at most one fetch in
// flight: triggers arriving during a fetch coalesce into it. Completed
// outcomes are delivered through the notify callback; after Stop they are
// discarded instead.
type Scheduler struct {
	fetcher Fetcher
	log     *zap.Logger
	cron    *gocron.Scheduler

	interval time.Duration
	timeout  time.Duration

	mu       sync.Mutex
	decider  *Decider
	loc      weather.Location
	notify   func(weather.Outcome)
	started  bool
	stopped  bool
	inFlight bool

	// era counts settings generations. A fetch launched under an older
	// era is stale: its outcome is still delivered, but it must not
	// touch the backoff/halt bookkeeping.
	era uint64

	// pendingLaunch requests one follow-up fetch as soon as the current
	// in-flight one completes. Set by a settings change that could not
	// launch immediately.
	pendingLaunch bool
}

// New creates a Scheduler fetching for loc every interval.
func New(fetcher Fetcher, loc weather.Location, interval, timeout time.Duration, backoffFactor float64, backoffMax time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{
		fetcher:  fetcher,
		log:      log,
		cron:     gocron.NewScheduler(time.UTC),
		interval: interval,
		timeout:  timeout,
		decider:  NewDecider(time.Now(), interval, backoffFactor, backoffMax),
		loc:      loc,
	}
}

// SetNotify installs the completion callback. Must be called before Start.
func (s *Scheduler) SetNotify(fn func(weather.Outcome)) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

// Start begins periodic triggering. Calling it again while running is a
// no-op.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return nil
	}

	if _, err := s.cron.Every(s.interval).Do(s.tick); err != nil {
		return err
	}
	s.cron.StartAsync()
	s.started = true
	s.log.Info("scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// TriggerNow requests an immediate fetch, bypassing backoff and halt. If a
// fetch is already in flight the request coalesces into it.
func (s *Scheduler) TriggerNow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.inFlight {
		return
	}
	s.launchLocked()
}

// UpdateSettings applies a new location and API-key generation: it
// resumes a halted scheduler, resets backoff, and triggers exactly one
// fetch with the new configuration. If a fetch with the old settings is
// still in flight, the new fetch launches as soon as it completes; the
// stale outcome cannot halt or back off past this point.
func (s *Scheduler) UpdateSettings(loc weather.Location) {
	s.mu.Lock()
	s.loc = loc
	s.era++
	s.decider.Resume(time.Now())
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if s.inFlight {
		s.pendingLaunch = true
		s.mu.Unlock()
		return
	}
	s.launchLocked()
	s.mu.Unlock()
}

// Stop cancels the periodic timer. An in-flight fetch finishes but its
// result is discarded.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

// tick is the periodic job body.
func (s *Scheduler) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.inFlight || !s.decider.Due(time.Now()) {
		return
	}
	s.launchLocked()
}

// launchLocked starts the fetch goroutine. Caller holds s.mu.
func (s *Scheduler) launchLocked() {
	s.inFlight = true
	go s.run(s.loc, s.era)
}

func (s *Scheduler) run(loc weather.Location, era uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	out := s.fetcher.Fetch(ctx, loc)

	s.mu.Lock()
	s.inFlight = false
	if era == s.era {
		s.decider.RecordOutcome(time.Now(), out.Err)
	}
	if s.pendingLaunch && !s.stopped {
		s.pendingLaunch = false
		s.launchLocked()
	}
	stopped := s.stopped
	notify := s.notify
	halted := s.decider.Halted()
	s.mu.Unlock()

	if out.Err != nil {
		s.log.Warn("fetch outcome",
			zap.String("kind", out.Err.Kind.String()),
			zap.String("message", out.Err.Message),
			zap.Bool("halted", halted))
	}
	if stopped || notify == nil {
		return
	}
	notify(out)
}

// Halted reports whether automatic refresh is suspended.
func (s *Scheduler) Halted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decider.Halted()
}

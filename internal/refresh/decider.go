// Package refresh drives periodic and on-demand weather fetches. The
// retry/backoff/halt policy lives in Decider, which is pure so tests can
// simulate time; the timer mechanism around it is a thin gocron wrapper.
package refresh

import (
	"math"
	"time"

	"github.com/i474232898/termweather/internal/weather"
)

// Decider decides whether an automatic refresh tick should fetch. It is
// not safe for concurrent use; Scheduler serializes access to it.
type Decider struct {
	interval time.Duration
	factor   float64
	maxDelay time.Duration

	failures int
	halted   bool
	nextDue  time.Time
}

// NewDecider creates a Decider. The first automatic fetch is due one
// interval after start; startup fetches go through TriggerNow instead.
func NewDecider(start time.Time, interval time.Duration, factor float64, maxDelay time.Duration) *Decider {
	if factor < 1 {
		factor = 1
	}
	return &Decider{
		interval: interval,
		factor:   factor,
		maxDelay: maxDelay,
		nextDue:  start.Add(interval),
	}
}

// Due reports whether an automatic fetch should run at now. Ticks arrive
// on the scheduler cadence while nextDue is measured from fetch
// completion, so half an interval of grace keeps completion latency from
// pushing every fetch a full tick later.
func (d *Decider) Due(now time.Time) bool {
	if d.halted {
		return false
	}
	return !now.Add(d.interval / 2).Before(d.nextDue)
}

// Halted reports whether automatic refresh is suspended pending a
// settings change.
func (d *Decider) Halted() bool {
	return d.halted
}

// RecordOutcome updates the policy state after a fetch completes at now.
func (d *Decider) RecordOutcome(now time.Time, ferr *weather.FetchError) {
	if ferr == nil {
		d.failures = 0
		d.nextDue = now.Add(d.interval)
		return
	}

	switch ferr.Kind {
	case weather.KindTransient, weather.KindRateLimited:
		d.failures++
		d.nextDue = now.Add(d.backoffDelay())
	case weather.KindUnauthorized, weather.KindNotFound:
		// Retrying cannot succeed until the configuration changes.
		d.halted = true
	default:
		// Malformed responses retry on the normal cadence.
		d.nextDue = now.Add(d.interval)
	}
}

// Resume clears halt and backoff state after a settings change and makes
// the next tick due immediately.
func (d *Decider) Resume(now time.Time) {
	d.halted = false
	d.failures = 0
	d.nextDue = now
}

func (d *Decider) backoffDelay() time.Duration {
	delay := time.Duration(float64(d.interval) * math.Pow(d.factor, float64(d.failures)))
	if d.maxDelay > 0 && delay > d.maxDelay {
		delay = d.maxDelay
	}
	return delay
}

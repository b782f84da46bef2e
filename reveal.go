package mdstream

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"
)

// Reveal pacing defaults. Live content surfaces at one code point per
// RevealInterval; once input ends, whatever is still hidden drains smoothly
// within DrainWindow.
const (
	DefaultRevealInterval = 2 * time.Millisecond
	DefaultDrainWindow    = 10 * time.Second
	DefaultTickPeriod     = 16 * time.Millisecond
)

// Revealer paces the visible disclosure of already-committed content. It
// tracks a monotone code-point cursor against the current content length and
// is independent of parsing: callers feed it lengths, not text. Safe for
// concurrent use; a Scheduler typically ticks it from its own goroutine
// while the producer grows it from another.
type Revealer struct {
	mu sync.Mutex

	id        string
	revealed  int
	total     int
	streaming bool
	active    bool
	finished  bool
	deadline  time.Time
	lastTick  time.Time

	interval   time.Duration // live cadence per code point
	drain      time.Duration // drain window after input ends
	tickPeriod time.Duration // expected spacing of Tick calls
}

// RevealOption adjusts Revealer pacing.
type RevealOption func(*Revealer)

// WithRevealInterval sets the live cadence: one code point is revealed per
// interval while the producer is still emitting.
func WithRevealInterval(d time.Duration) RevealOption {
	return func(r *Revealer) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithDrainWindow sets the maximum time the Revealer takes to surface the
// remaining content after input ends.
func WithDrainWindow(d time.Duration) RevealOption {
	return func(r *Revealer) {
		if d > 0 {
			r.drain = d
		}
	}
}

// WithTickPeriod tells the Revealer how often it will be ticked, which the
// drain regime uses to size its per-tick steps.
func WithTickPeriod(d time.Duration) RevealOption {
	return func(r *Revealer) {
		if d > 0 {
			r.tickPeriod = d
		}
	}
}

// NewRevealer returns a Revealer with default pacing.
func NewRevealer(opts ...RevealOption) *Revealer {
	r := &Revealer{
		interval:   DefaultRevealInterval,
		drain:      DefaultDrainWindow,
		tickPeriod: DefaultTickPeriod,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Publish binds the Revealer to a piece of content. A new id restarts the
// cursor from zero; republishing the current id only updates the length.
// Content not marked streaming is shown in full immediately.
func (r *Revealer) Publish(id string, total int, streaming bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id != r.id {
		r.id = id
		r.revealed = 0
		r.finished = false
		r.deadline = time.Time{}
		r.lastTick = time.Time{}
	}
	r.total = total
	r.streaming = streaming
	if !streaming {
		r.revealed = total
		r.active = false
		r.finished = true
		return
	}
	if r.revealed > total {
		r.revealed = total
	}
	r.active = true
}

// Grow raises the known content length. Shrinking is ignored; the cursor
// never moves backwards.
func (r *Revealer) Grow(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if total > r.total {
		r.total = total
	}
}

// FinishInput marks the producer as done and fixes the drain deadline. The
// remaining hidden content will be fully revealed at or before now+drain.
func (r *Revealer) FinishInput(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	r.finished = true
	r.deadline = now.Add(r.drain)
	if r.revealed >= r.total {
		r.active = false
	}
}

// Tick advances the cursor for one scheduling step and returns its new
// value. Live regime: one code point per interval of elapsed wall time.
// Drain regime: per-tick steps sized so the remainder completes at or
// before the deadline.
func (r *Revealer) Tick(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return r.revealed
	}
	if r.lastTick.IsZero() {
		r.lastTick = now
		return r.revealed
	}
	var step int
	if !r.finished {
		elapsed := now.Sub(r.lastTick)
		step = int(elapsed / r.interval)
		if step > 0 {
			// Carry the sub-interval remainder so cadence is exact over time.
			r.lastTick = r.lastTick.Add(time.Duration(step) * r.interval)
		}
	} else {
		remaining := r.total - r.revealed
		until := r.deadline.Sub(now)
		if until <= 0 {
			step = remaining
		} else {
			frames := int(until / r.tickPeriod)
			if frames < 1 {
				frames = 1
			}
			step = (remaining + frames - 1) / frames
			if step < 1 {
				step = 1
			}
		}
		r.lastTick = now
	}
	r.revealed += step
	if r.revealed > r.total {
		r.revealed = r.total
	}
	if r.finished && r.revealed >= r.total {
		r.active = false
	}
	return r.revealed
}

// Revealed returns the current cursor.
func (r *Revealer) Revealed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revealed
}

// Done reports whether all published content is visible and no more input
// is expected.
func (r *Revealer) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished && r.revealed >= r.total
}

// Active reports whether the Revealer still has pacing work to do.
func (r *Revealer) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Cancel deactivates the Revealer without touching the cursor. Used when
// the content is superseded or its view is torn down.
func (r *Revealer) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = false
}

// RevealSlice returns the first n code points of s. n at or beyond the
// code-point length returns s unchanged; the cut never splits a multi-byte
// sequence.
func RevealSlice(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if n >= utf8.RuneCountInString(s) {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Scheduler drives a Revealer from a periodic timer and delivers each new
// cursor value to a callback. It stops on its own once the Revealer is done.
type Scheduler struct {
	revealer *Revealer
	period   time.Duration
	onTick   func(revealed int)

	stopOnce sync.Once
	stopped  chan struct{}
	done     chan struct{}
}

// NewScheduler returns a Scheduler ticking r every period. A period of zero
// uses DefaultTickPeriod. onTick may be nil.
func NewScheduler(r *Revealer, period time.Duration, onTick func(revealed int)) *Scheduler {
	if period <= 0 {
		period = DefaultTickPeriod
	}
	WithTickPeriod(period)(r)
	return &Scheduler{
		revealer: r,
		period:   period,
		onTick:   onTick,
		stopped:  make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run ticks until the Revealer is done, the context is cancelled, or Stop
// is called. It blocks; callers wanting a background scheduler start it in
// a goroutine.
func (s *Scheduler) Run(ctx context.Context) error {
	defer close(s.done)
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	last := -1
	for {
		select {
		case <-ctx.Done():
			s.revealer.Cancel()
			return ctx.Err()
		case <-s.stopped:
			s.revealer.Cancel()
			return nil
		case now := <-ticker.C:
			revealed := s.revealer.Tick(now)
			if revealed != last && s.onTick != nil {
				s.onTick(revealed)
				last = revealed
			}
			if s.revealer.Done() {
				return nil
			}
		}
	}
}

// Stop ends the Run loop. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopped) })
}

// Wait blocks until Run has returned.
func (s *Scheduler) Wait() {
	<-s.done
}

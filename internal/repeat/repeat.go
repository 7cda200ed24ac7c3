// Package repeat runs the press-and-hold delete timer.
//
// A repeat session fires ticks at a fixed interval while the pointer
// holds over the delete key. Sessions replace rather than stack: at
// most one timer is live, and starting again cancels the previous one.
// Ticks are published through a broker so the consumer can marshal them
// onto its own serialization domain (the Bubble Tea update loop) before
// touching the text buffer.
package repeat

import (
	"context"
	"sync"
	"time"

	"tapboard/internal/log"
	"tapboard/internal/pubsub"
)

// DefaultInterval is the delay between repeat ticks.
const DefaultInterval = 80 * time.Millisecond

// DefaultHoldThreshold is how long a press must hold over the delete
// key before the repeat session starts.
const DefaultHoldThreshold = 300 * time.Millisecond

// Clock provides time-related operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// NewTimer creates a new Timer that will send the current time
	// on its channel after at least duration d.
	NewTimer(d time.Duration) Timer
}

// Timer represents a timer that can be stopped and provides a channel.
type Timer interface {
	// Stop prevents the Timer from firing. Returns true if the call stops
	// the timer, false if the timer has already expired or been stopped.
	Stop() bool
	// C returns the channel on which the time is delivered.
	C() <-chan time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// NewTimer creates a new time.Timer.
func (RealClock) NewTimer(d time.Duration) Timer {
	return &realTimer{timer: time.NewTimer(d)}
}

// realTimer wraps time.Timer to implement the Timer interface.
type realTimer struct {
	timer *time.Timer
}

func (t *realTimer) Stop() bool          { return t.timer.Stop() }
func (t *realTimer) C() <-chan time.Time { return t.timer.C }

// Tick is one repeat firing. Seq counts ticks within a session.
type Tick struct {
	Seq int
}

// Controller manages the repeat-delete timer session.
// Start and Stop are safe to call from the update loop at any time.
type Controller struct {
	interval time.Duration
	clock    Clock
	broker   *pubsub.Broker[Tick]

	mu   sync.Mutex
	done chan struct{} // nil when no session is active
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the wall clock, for tests.
func WithClock(c Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

// WithInterval overrides the tick interval.
func WithInterval(d time.Duration) Option {
	return func(ctl *Controller) { ctl.interval = d }
}

// NewController creates an idle repeat controller.
func NewController(opts ...Option) *Controller {
	ctl := &Controller{
		interval: DefaultInterval,
		clock:    RealClock{},
		broker:   pubsub.NewBroker[Tick](),
	}
	for _, opt := range opts {
		opt(ctl)
	}
	return ctl
}

// Start begins a repeat session. Any existing session is cancelled
// first, so two calls in a row leave exactly one live timer.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done != nil {
		close(c.done)
	}
	done := make(chan struct{})
	c.done = done

	log.Debug(log.CatRepeat, "repeat session started", "interval", c.interval)
	go c.loop(done)
}

// Stop cancels the active session. No-op when idle.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done == nil {
		return
	}
	close(c.done)
	c.done = nil
	log.Debug(log.CatRepeat, "repeat session stopped")
}

// Active reports whether a repeat session is running.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done != nil
}

// Subscribe returns a tick subscription tied to ctx.
func (c *Controller) Subscribe(ctx context.Context) <-chan pubsub.Event[Tick] {
	return c.broker.Subscribe(ctx)
}

// Listener returns a continuous tick listener for the update loop.
func (c *Controller) Listener(ctx context.Context) *pubsub.ContinuousListener[Tick] {
	return pubsub.NewContinuousListener(ctx, c.broker)
}

// Close stops the session and shuts down the tick broker.
func (c *Controller) Close() {
	c.Stop()
	c.broker.Close()
}

// loop fires ticks until the session's done channel closes.
func (c *Controller) loop(done chan struct{}) {
	seq := 0
	for {
		timer := c.clock.NewTimer(c.interval)
		select {
		case <-timer.C():
			// A close racing the timer fire must not produce a tick.
			select {
			case <-done:
				return
			default:
			}
			seq++
			c.broker.Publish(pubsub.CreatedEvent, Tick{Seq: seq})
		case <-done:
			timer.Stop()
			return
		}
	}
}

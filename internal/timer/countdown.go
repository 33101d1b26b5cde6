// Package timer implements the rest-interval countdown shown next to a
// routine day on the public training page.
//
// The countdown itself runs in the student's browser: the page script in
// internal/api/training_handler.go follows the same states and transitions
// as Countdown. Server code only uses Presets and FormatClock to render the
// preset buttons. Countdown is the executable model of that behaviour and has
// no server-side caller.
package timer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// State of a Countdown.
type State int

const (
	Idle State = iota
	Running
	Paused
	Expired
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Expired:
		return "expired"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Presets are the selectable countdown lengths.
var Presets = []time.Duration{1 * time.Minute, 2 * time.Minute, 3 * time.Minute, 4 * time.Minute}

// Step is how much one tick takes off the clock.
const Step = time.Second

var (
	ErrInvalidPreset     = errors.New("timer: preset must be one of 1, 2, 3 or 4 minutes")
	ErrInvalidTransition = errors.New("timer: invalid state transition")
)

// Countdown counts down from a preset to zero and fires the alarm once when
// it gets there. After expiring it can be started again.
type Countdown struct {
	mu        sync.Mutex
	state     State
	remaining time.Duration
	alarm     func()
}

// New returns an idle countdown. alarm may be nil.
func New(alarm func()) *Countdown {
	return &Countdown{alarm: alarm}
}

// Start arms the countdown with preset. Allowed from Idle and Expired.
func (c *Countdown) Start(preset time.Duration) error {
	if !validPreset(preset) {
		return ErrInvalidPreset
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Idle && c.state != Expired {
		return fmt.Errorf("%w: start while %s", ErrInvalidTransition, c.state)
	}
	c.state = Running
	c.remaining = preset
	return nil
}

// Pause stops a running countdown without losing the remaining time.
func (c *Countdown) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Running {
		return fmt.Errorf("%w: pause while %s", ErrInvalidTransition, c.state)
	}
	c.state = Paused
	return nil
}

// Resume continues a paused countdown.
func (c *Countdown) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Paused {
		return fmt.Errorf("%w: resume while %s", ErrInvalidTransition, c.state)
	}
	c.state = Running
	return nil
}

// Reset returns to Idle with no time left.
func (c *Countdown) Reset() {
	c.mu.Lock()
	c.state = Idle
	c.remaining = 0
	c.mu.Unlock()
}

// Tick advances a running countdown by one Step. Ticks in any other state
// are ignored. Reaching zero moves to Expired and fires the alarm.
func (c *Countdown) Tick() {
	c.mu.Lock()
	if c.state != Running {
		c.mu.Unlock()
		return
	}
	c.remaining -= Step
	if c.remaining > 0 {
		c.mu.Unlock()
		return
	}
	c.remaining = 0
	c.state = Expired
	alarm := c.alarm
	c.mu.Unlock()

	if alarm != nil {
		alarm()
	}
}

// Run feeds ticks into the countdown until ctx is done. Cancelling ctx is
// the teardown: no tick is processed after Run returns.
func (c *Countdown) Run(ctx context.Context, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}
			c.Tick()
		}
	}
}

// RunWithTicker drives the countdown from a one-second ticker and stops the
// ticker when ctx is done.
func (c *Countdown) RunWithTicker(ctx context.Context) {
	ticker := time.NewTicker(Step)
	defer ticker.Stop()
	c.Run(ctx, ticker.C)
}

// State returns the current state.
func (c *Countdown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Remaining returns the time left on the clock.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// FormatClock renders d as m:ss, e.g. 1:05.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func validPreset(d time.Duration) bool {
	for _, p := range Presets {
		if p == d {
			return true
		}
	}
	return false
}

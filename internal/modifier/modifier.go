// Package modifier tracks shift and caps-lock state for the input surface.
//
// Shift follows the classic one-shot protocol: committing an alphabetic
// character while shift is active clears it. Caps-lock is sticky and is
// toggled by a double tap on the shift key within the tap window.
package modifier

import "time"

// DefaultTapWindow is the maximum gap between shift taps that still
// counts toward a double tap.
const DefaultTapWindow = 500 * time.Millisecond

// Clock provides wall time for tap-gap measurement.
// Use RealClock in production and a fixed clock in tests.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// State is the full modifier state. The zero value is the initial state:
// shift off, caps off, no recorded tap.
type State struct {
	ShiftActive    bool
	CapsLockActive bool
	LastShiftTap   time.Time // zero when no tap has been recorded
	ShiftTapStreak int
}

// Uppercase reports whether alphabetic keys should display uppercase.
func (s State) Uppercase() bool {
	return s.CapsLockActive || s.ShiftActive
}

// Machine applies modifier transitions. All methods must be called from
// the same goroutine that owns the input state.
type Machine struct {
	clock     Clock
	tapWindow time.Duration
	state     State
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides the wall clock, for tests.
func WithClock(c Clock) Option {
	return func(m *Machine) { m.clock = c }
}

// WithTapWindow overrides the double-tap window.
func WithTapWindow(d time.Duration) Option {
	return func(m *Machine) { m.tapWindow = d }
}

// NewMachine creates a modifier machine in the initial state.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		clock:     RealClock{},
		tapWindow: DefaultTapWindow,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current modifier state.
func (m *Machine) State() State { return m.state }

// Reset returns the machine to the initial state.
func (m *Machine) Reset() { m.state = State{} }

// OnShiftCommitted processes a committed shift key.
//
// Two taps within the tap window toggle caps-lock; entering caps-lock
// turns the shift display on and leaving it turns the display off. A
// lone tap first drops caps-lock if it was on, then toggles shift.
// Taps separated by at least the window never combine: the streak
// silently restarts at 1 and the tap acts as a fresh shift toggle.
func (m *Machine) OnShiftCommitted() State {
	now := m.clock.Now()

	if !m.state.LastShiftTap.IsZero() && now.Sub(m.state.LastShiftTap) < m.tapWindow {
		m.state.ShiftTapStreak++
	} else {
		m.state.ShiftTapStreak = 1
	}

	if m.state.ShiftTapStreak == 2 {
		m.state.CapsLockActive = !m.state.CapsLockActive
		m.state.ShiftActive = m.state.CapsLockActive
		m.state.ShiftTapStreak = 0
	} else {
		if m.state.CapsLockActive {
			m.state.CapsLockActive = false
		}
		m.state.ShiftActive = !m.state.ShiftActive
	}

	m.state.LastShiftTap = now
	return m.state
}

// OnCharacterCommitted processes a committed non-shift key. One-shot
// shift clears after a single alphabetic commit; caps-lock never does.
func (m *Machine) OnCharacterCommitted(isAlphabetic bool) State {
	if isAlphabetic && m.state.ShiftActive && !m.state.CapsLockActive {
		m.state.ShiftActive = false
	}
	return m.state
}

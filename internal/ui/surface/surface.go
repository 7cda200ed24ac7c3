// Package surface renders the on-screen key grid and feeds pointer
// events into the drag controller.
//
// The component owns the full interaction loop: mouse press/motion/
// release become pointer events, bubblezone resolves which cap the
// pointer is over, long-press checks are scheduled as timed commands
// carrying their token, and repeat ticks arrive through the tick
// broker so deletes happen on the update loop.
package surface

import (
	"context"
	"time"

	"tapboard/internal/feedback"
	"tapboard/internal/grid"
	"tapboard/internal/input"
	"tapboard/internal/layout"
	"tapboard/internal/log"
	"tapboard/internal/modifier"
	"tapboard/internal/pubsub"
	"tapboard/internal/repeat"
	"tapboard/internal/textbuf"
	"tapboard/internal/tracing"
	"tapboard/internal/ui/styles"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// LongPressMsg is delivered when a scheduled hold check matures. The
// token lets the controller ignore checks armed for an earlier cell.
type LongPressMsg struct {
	Token input.LongPressToken
}

// clearFlashMsg removes the pulse highlight. The generation guards
// against a stale clear erasing a newer flash.
type clearFlashMsg struct {
	gen int
}

// commitTap wraps the committer so the surface can observe the outcome
// of the commit made inside Controller.PointerUp.
type commitTap struct {
	inner input.Committer
	fired bool
	last  bool
}

func (t *commitTap) Commit(cell grid.Cell) bool {
	ok := false
	if t.inner != nil {
		ok = t.inner.Commit(cell)
	}
	t.fired = true
	t.last = ok
	return ok
}

// Config wires a surface to the engine.
type Config struct {
	Controller *input.Controller
	Machine    *modifier.Machine
	Committer  input.Committer
	Buffer     textbuf.Buffer
	Pulses     *feedback.BrokerSink
	Repeater   *repeat.Controller
	Recorder   *tracing.GestureRecorder

	HoldThreshold time.Duration
	FlashDuration time.Duration
}

// Model is the key surface component.
type Model struct {
	ctx  context.Context
	ctrl *input.Controller
	mach *modifier.Machine
	tap  *commitTap
	buf  textbuf.Buffer

	recorder *tracing.GestureRecorder
	gesture  *tracing.Gesture

	repeater      *repeat.Controller
	pulseListener *pubsub.ContinuousListener[feedback.Pulse]
	tickListener  *pubsub.ContinuousListener[repeat.Tick]

	holdThreshold time.Duration
	flashDur      time.Duration

	pressed   bool
	flashCell grid.Cell
	flashing  bool
	flashGen  int

	capCache *readThroughCaps
}

// readThroughCaps bundles the cap cache with its flushable manager so
// the theme-rebuild hook and the layout toggle can invalidate it.
type readThroughCaps struct {
	mgr interface {
		Flush(ctx context.Context) error
	}
	rtc interface {
		Get(ctx context.Context, key string, in capInput, ttl time.Duration) (string, error)
	}
}

// New creates a key surface over an already-wired controller. The
// surface interposes on the committer to observe commit outcomes.
func New(ctx context.Context, cfg Config) Model {
	tap := &commitTap{inner: cfg.Committer}
	cfg.Controller.SetCommitter(tap)

	mgr, rtc := newCapCache()
	caps := &readThroughCaps{mgr: mgr, rtc: rtc}
	styles.RegisterStyleRebuilder(func() {
		_ = mgr.Flush(context.Background())
	})

	m := Model{
		ctx:           ctx,
		ctrl:          cfg.Controller,
		mach:          cfg.Machine,
		tap:           tap,
		buf:           cfg.Buffer,
		recorder:      cfg.Recorder,
		holdThreshold: cfg.HoldThreshold,
		flashDur:      cfg.FlashDuration,
		capCache:      caps,
	}
	if m.holdThreshold <= 0 {
		m.holdThreshold = repeat.DefaultHoldThreshold
	}
	if m.flashDur <= 0 {
		m.flashDur = 120 * time.Millisecond
	}
	if cfg.Pulses != nil {
		m.pulseListener = cfg.Pulses.PulseListener(ctx)
	}
	if cfg.Repeater != nil {
		m.repeater = cfg.Repeater
		m.tickListener = cfg.Repeater.Listener(ctx)
	}
	return m
}

// Init starts the pulse and tick listeners.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.pulseListener != nil {
		cmds = append(cmds, m.pulseListener.Listen())
	}
	if m.tickListener != nil {
		cmds = append(cmds, m.tickListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Layout returns the active layout.
func (m Model) Layout() layout.Layout { return m.ctrl.Layout() }

// Tracking reports whether a drag is in progress.
func (m Model) Tracking() bool { return m.ctrl.Tracking() }

// SetLayout swaps the key surface. Any in-flight interaction is
// cancelled and the rendered cap cache flushed.
func (m Model) SetLayout(l layout.Layout) Model {
	m = m.cancelGesture()
	m.ctrl.SetLayout(l)
	m.pressed = false
	m.flashing = false
	_ = m.capCache.mgr.Flush(m.ctx)
	return m
}

// CancelInteraction abandons any in-flight drag without committing.
func (m Model) CancelInteraction() Model {
	m = m.cancelGesture()
	m.ctrl.PointerCancel()
	m.pressed = false
	m.flashing = false
	return m
}

func (m Model) cancelGesture() Model {
	if m.gesture != nil {
		m.gesture.Cancelled()
		m.gesture = nil
	}
	return m
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)

	case LongPressMsg:
		wasActive := m.repeater != nil && m.repeater.Active()
		m.ctrl.LongPressFired(msg.Token)
		if m.repeater != nil && m.repeater.Active() && !wasActive {
			m.gesture.LongPressFired()
		}
		return m, nil

	case pubsub.Event[feedback.Pulse]:
		p := msg.Payload
		m.gesture.CellEntered(p.Cell.Row, p.Cell.Col, string(p.Kind))
		m.flashCell = p.Cell
		m.flashing = true
		m.flashGen++
		gen := m.flashGen
		var listen tea.Cmd
		if m.pulseListener != nil {
			listen = m.pulseListener.Listen()
		}
		return m, tea.Batch(listen, tea.Tick(m.flashDur, func(time.Time) tea.Msg {
			return clearFlashMsg{gen: gen}
		}))

	case clearFlashMsg:
		if msg.gen == m.flashGen {
			m.flashing = false
		}
		return m, nil

	case pubsub.Event[repeat.Tick]:
		if cell, ok := m.ctrl.ActiveCell(); ok {
			if def, found := m.ctrl.Layout().Key(cell); found && def.Kind == layout.GlyphDelete {
				m.tap.Commit(cell)
				m.gesture.RepeatTick()
			}
		}
		var listen tea.Cmd
		if m.tickListener != nil {
			listen = m.tickListener.Listen()
		}
		return m, listen
	}
	return m, nil
}

// handleMouse maps terminal mouse events to pointer events.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if m.pressed {
			// A second press without a release: the controller
			// restarts, the old gesture span ends cancelled.
			m = m.cancelGesture()
		}
		m.pressed = true
		m.gesture = m.recorder.Begin(m.ctrl.Layout().Name())
		token, armed := m.ctrl.PointerDown(m.pointAt(msg))
		return m, m.scheduleHold(token, armed)

	case tea.MouseActionMotion:
		if !m.pressed {
			return m, nil
		}
		_, hadCell := m.ctrl.ActiveCell()
		token, armed := m.ctrl.PointerMove(m.pointAt(msg))
		if _, hasCell := m.ctrl.ActiveCell(); hadCell && !hasCell {
			m.gesture.GridLeft()
		}
		return m, m.scheduleHold(token, armed)

	case tea.MouseActionRelease:
		if !m.pressed {
			return m, nil
		}
		m.pressed = false
		m.tap.fired = false
		m.ctrl.PointerUp()
		if m.tap.fired {
			m.gesture.Committed(m.tap.last, m.buf.Len())
		} else {
			m.gesture.Missed()
		}
		m.gesture = nil
		return m, nil
	}
	return m, nil
}

// scheduleHold turns an armed long-press token into a timed command.
func (m Model) scheduleHold(token input.LongPressToken, armed bool) tea.Cmd {
	if !armed {
		return nil
	}
	log.Debug(log.CatInput, "hold check scheduled", "token", token, "after", m.holdThreshold)
	return tea.Tick(m.holdThreshold, func(time.Time) tea.Msg {
		return LongPressMsg{Token: token}
	})
}

// pointAt resolves a mouse event to a point in surface space. The hit
// cell's zone gives the cell; the returned point is the cell center so
// grid.Locate resolves back to exactly that cell. Misses map to an
// out-of-grid point.
func (m Model) pointAt(msg tea.MouseMsg) grid.Point {
	geo := m.ctrl.Layout().Geometry()
	for row := range geo.Rows {
		for col := range geo.Cols {
			z := zone.Get(keyZoneID(row, col))
			if z != nil && z.InBounds(msg) {
				return grid.Point{
					X: (float64(col) + 0.5) * geo.CellWidth,
					Y: (float64(row) + 0.5) * geo.CellHeight,
				}
			}
		}
	}
	return grid.Point{X: -1, Y: -1}
}

// View renders the key grid. Caps come from the read-through render
// cache; the cache key covers layout, label, variant, and flash state.
func (m Model) View() string {
	l := m.ctrl.Layout()
	geo := l.Geometry()
	state := m.mach.State()

	rows := make([]string, 0, geo.Rows)
	for row := range geo.Rows {
		caps := make([]string, 0, geo.Cols)
		for col := range geo.Cols {
			cell := grid.Cell{Row: row, Col: col}
			def, _ := l.Key(cell)
			in := capInput{
				Label:    layout.Resolve(def, state),
				Flashing: m.flashing && m.flashCell == cell,
				Width:    capInnerWidth,
			}
			rendered, err := m.capCache.rtc.Get(m.ctx, capCacheKey(l.Name(), row, col, in), in, capCacheTTL)
			if err != nil {
				rendered, _ = renderCap(m.ctx, in)
			}
			caps = append(caps, zone.Mark(keyZoneID(row, col), rendered))
		}
		rows = append(rows, joinRow(caps))
	}

	out := rows[0]
	for _, r := range rows[1:] {
		out += "\n" + r
	}
	return out
}

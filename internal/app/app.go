// Package app contains the root application model.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"tapboard/internal/config"
	"tapboard/internal/dispatch"
	"tapboard/internal/feedback"
	"tapboard/internal/input"
	"tapboard/internal/keys"
	"tapboard/internal/layout"
	"tapboard/internal/log"
	"tapboard/internal/modifier"
	"tapboard/internal/pubsub"
	"tapboard/internal/repeat"
	"tapboard/internal/store"
	"tapboard/internal/textbuf"
	"tapboard/internal/tracing"
	"tapboard/internal/ui/bufferview"
	"tapboard/internal/ui/help"
	"tapboard/internal/ui/logoverlay"
	"tapboard/internal/ui/styles"
	"tapboard/internal/ui/surface"
	"tapboard/internal/ui/toaster"
	"tapboard/internal/watcher"
)

// reloadMsg signals that the config file changed on disk.
type reloadMsg struct{}

// transcriptSavedMsg carries the outcome of a transcript save.
type transcriptSavedMsg struct {
	guid string
	err  error
}

// Config wires the root model to everything built in cmd.
type Config struct {
	Cfg        config.Config
	ConfigPath string

	// ReloadConfig re-reads the config file. Used by live reload; nil
	// disables it even when the watcher fires.
	ReloadConfig func() (config.Config, error)

	// Transcripts persists committed text. Nil disables saving.
	Transcripts store.TranscriptRepository

	// Recorder traces gestures. Nil disables tracing.
	Recorder *tracing.GestureRecorder

	DebugMode bool
}

// Model is the root application state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg        config.Config
	configPath string
	reload     func() (config.Config, error)

	// Engine
	machine  *modifier.Machine
	buffer   *textbuf.Memory
	repeater *repeat.Controller
	sink     *feedback.BrokerSink
	ctrl     *input.Controller

	// Components
	surface    surface.Model
	bufview    bufferview.Model
	helpView   help.Model
	toaster    toaster.Model
	logOverlay logoverlay.Model

	keys        keys.KeyMap
	transcripts store.TranscriptRepository

	width  int
	height int

	showHelp   bool
	showStatus bool
	debugMode  bool

	resultListener *pubsub.ContinuousListener[feedback.Result]
	logListener    *log.LogListener

	watcherHandle *watcher.Watcher
	reloadCh      <-chan struct{}
}

// New assembles the engine and UI from a validated config.
func New(appCfg Config) Model {
	// The surface marks a hit zone per key cap and View scans them; the
	// global zone manager has to exist before the first render.
	zone.NewGlobal()

	ctx, cancel := context.WithCancel(context.Background())

	cfg := appCfg.Cfg
	machine := modifier.NewMachine(modifier.WithTapWindow(cfg.Timing.DoubleTapWindow()))
	buffer := textbuf.NewMemory()
	repeater := repeat.NewController(repeat.WithInterval(cfg.Timing.RepeatInterval()))
	sink := feedback.NewBrokerSink()

	active, err := cfg.BuildLayout(cfg.Layout.Active)
	if err != nil {
		// Validate ran before New; fall back defensively anyway.
		log.ErrorErr(log.CatConfig, "active layout failed to build, using letters", err)
		active = layout.Letters()
	}

	ctrl := input.NewController(active, feedback.Fanout{feedback.LogSink{}, sink}, nil, repeater)
	dispatcher := dispatch.NewDispatcher(ctrl, machine, buffer)

	surf := surface.New(ctx, surface.Config{
		Controller:    ctrl,
		Machine:       machine,
		Committer:     dispatcher,
		Buffer:        buffer,
		Pulses:        sink,
		Repeater:      repeater,
		Recorder:      appCfg.Recorder,
		HoldThreshold: cfg.Timing.HoldThreshold(),
		FlashDuration: cfg.Timing.HighlightFlash(),
	})

	m := Model{
		ctx:            ctx,
		cancel:         cancel,
		cfg:            cfg,
		configPath:     appCfg.ConfigPath,
		reload:         appCfg.ReloadConfig,
		machine:        machine,
		buffer:         buffer,
		repeater:       repeater,
		sink:           sink,
		ctrl:           ctrl,
		surface:        surf,
		bufview:        bufferview.New(buffer),
		helpView:       help.New(),
		toaster:        toaster.New(),
		logOverlay:     logoverlay.New(),
		keys:           keys.DefaultKeyMap(),
		transcripts:    appCfg.Transcripts,
		showStatus:     cfg.UI.ShowStatusBar,
		debugMode:      appCfg.DebugMode,
		resultListener: sink.ResultListener(ctx),
	}

	if appCfg.DebugMode {
		m.logListener = log.NewListener(ctx)
	}

	if cfg.AutoReload && appCfg.ConfigPath != "" && appCfg.ReloadConfig != nil {
		w, err := watcher.New(watcher.DefaultConfig(appCfg.ConfigPath))
		if err != nil {
			log.ErrorErr(log.CatConfig, "config watcher init failed", err)
		} else if ch, err := w.Start(); err != nil {
			log.ErrorErr(log.CatConfig, "config watcher start failed", err)
			_ = w.Stop()
		} else {
			m.watcherHandle = w
			m.reloadCh = ch
		}
	}

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.surface.Init()}
	if m.resultListener != nil {
		cmds = append(cmds, m.resultListener.Listen())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.reloadCh != nil {
		cmds = append(cmds, waitForReload(m.reloadCh))
	}
	return tea.Batch(cmds...)
}

// waitForReload turns a watcher signal into a message.
func waitForReload(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return reloadMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.helpView = m.helpView.SetSize(msg.Width, msg.Height)
		m.bufview = m.bufview.SetSize(min(msg.Width-2, 74), 6)
		m.logOverlay.SetSize(msg.Width, msg.Height)
		return m, nil

	case log.LogEvent:
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		var listen tea.Cmd
		if m.logListener != nil {
			listen = m.logListener.Listen()
		}
		return m, tea.Batch(cmd, listen)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.logOverlay.Visible() || m.showHelp {
			return m, nil
		}
		var cmd tea.Cmd
		m.surface, cmd = m.surface.Update(msg)
		return m, cmd

	case pubsub.Event[feedback.Result]:
		var listen tea.Cmd
		if m.resultListener != nil {
			listen = m.resultListener.Listen()
		}
		if !msg.Payload.Success {
			m.toaster = m.toaster.Show("released over a dead zone", toaster.StyleWarn)
			return m, tea.Batch(listen, toaster.ScheduleDismiss(2*time.Second))
		}
		return m, listen

	case reloadMsg:
		return m.handleReload()

	case transcriptSavedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatStore, "transcript save failed", msg.err)
			m.toaster = m.toaster.Show("transcript save failed", toaster.StyleError)
		} else {
			log.Info(log.CatStore, "transcript saved", "guid", msg.guid)
			m.toaster = m.toaster.Show("Transcript saved", toaster.StyleSuccess)
		}
		return m, toaster.ScheduleDismiss(3 * time.Second)

	case toaster.DismissMsg:
		m.toaster = m.toaster.Hide()
		return m, nil

	case logoverlay.CloseMsg:
		m.logOverlay.Hide()
		return m, nil
	}

	// Everything else (long-press checks, repeat ticks, pulse flashes)
	// belongs to the surface.
	var cmd tea.Cmd
	m.surface, cmd = m.surface.Update(msg)
	return m, cmd
}

// handleKey routes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.saveAndQuit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		if m.debugMode {
			m.logOverlay.Toggle()
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.surface = m.surface.CancelInteraction()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLayout):
		return m.cycleLayout()

	case key.Matches(msg, m.keys.ClearBuffer):
		m.buffer.Clear()
		log.Debug(log.CatUI, "buffer cleared")
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m, m.saveTranscript()

	case key.Matches(msg, m.keys.ToggleStatus):
		m.showStatus = !m.showStatus
		return m, nil
	}

	return m, nil
}

// cycleLayout swaps to the next configured layout. The drag session
// and the repeat session are reset; the choice is persisted so the
// next start opens on the same surface.
func (m Model) cycleLayout() (tea.Model, tea.Cmd) {
	names := m.cfg.LayoutNames()
	if len(names) < 2 {
		return m, nil
	}

	current := m.surface.Layout().Name()
	next := names[0]
	for i, name := range names {
		if name == current {
			next = names[(i+1)%len(names)]
			break
		}
	}

	l, err := m.cfg.BuildLayout(next)
	if err != nil {
		log.ErrorErr(log.CatConfig, "layout build failed on toggle", err, "layout", next)
		return m, nil
	}

	m.surface = m.surface.SetLayout(l)
	m.machine.Reset()
	m.cfg.Layout.Active = next
	log.Info(log.CatUI, "layout toggled", "layout", next)

	if m.configPath != "" {
		if err := config.SaveActiveLayout(m.configPath, next); err != nil {
			log.ErrorErr(log.CatConfig, "persisting active layout failed", err)
		}
	}
	return m, nil
}

// handleReload re-reads the config after the watcher fires. An invalid
// file keeps the running settings.
func (m Model) handleReload() (tea.Model, tea.Cmd) {
	listen := waitForReload(m.reloadCh)

	cfg, err := m.reload()
	if err != nil {
		log.ErrorErr(log.CatConfig, "config reload failed", err)
		m.toaster = m.toaster.Show("config invalid, keeping old settings", toaster.StyleError)
		return m, tea.Batch(listen, toaster.ScheduleDismiss(3*time.Second))
	}
	if err := config.Validate(cfg); err != nil {
		log.ErrorErr(log.CatConfig, "config reload rejected", err)
		m.toaster = m.toaster.Show("config invalid, keeping old settings", toaster.StyleError)
		return m, tea.Batch(listen, toaster.ScheduleDismiss(3*time.Second))
	}

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Mode:   cfg.Theme.Mode,
		Colors: cfg.Theme.FlattenedColors(),
	}); err != nil {
		log.ErrorErr(log.CatConfig, "theme from reloaded config rejected", err)
		m.toaster = m.toaster.Show("config invalid, keeping old settings", toaster.StyleError)
		return m, tea.Batch(listen, toaster.ScheduleDismiss(3*time.Second))
	}

	m.cfg = cfg
	m.showStatus = cfg.UI.ShowStatusBar

	// Rebuild the active layout; geometry may have changed. The session
	// resets the same way the mode toggle does.
	if l, err := cfg.BuildLayout(cfg.Layout.Active); err == nil {
		m.surface = m.surface.SetLayout(l)
	} else {
		log.ErrorErr(log.CatConfig, "reloaded active layout failed to build", err)
	}

	log.Info(log.CatConfig, "config reloaded")
	m.toaster = m.toaster.Show("Config reloaded", toaster.StyleInfo)
	return m, tea.Batch(listen, toaster.ScheduleDismiss(2*time.Second))
}

// saveTranscript persists the current buffer. No-op without a store or
// with an empty buffer.
func (m Model) saveTranscript() tea.Cmd {
	if m.transcripts == nil || !m.cfg.Transcript.Enabled {
		return nil
	}
	if m.buffer.Len() == 0 {
		return nil
	}

	t := &store.Transcript{
		Layout:    m.surface.Layout().Name(),
		Content:   m.buffer.String(),
		CharCount: m.buffer.Len(),
	}
	return func() tea.Msg {
		err := m.transcripts.Save(t)
		return transcriptSavedMsg{guid: t.GUID, err: err}
	}
}

// saveAndQuit persists the buffer before quitting. Persistence is
// best-effort: a failed save never blocks exit.
func (m Model) saveAndQuit() tea.Cmd {
	if m.transcripts != nil && m.cfg.Transcript.Enabled && m.buffer.Len() > 0 {
		t := &store.Transcript{
			Layout:    m.surface.Layout().Name(),
			Content:   m.buffer.String(),
			CharCount: m.buffer.Len(),
		}
		if err := m.transcripts.Save(t); err != nil {
			log.ErrorErr(log.CatStore, "transcript save on quit failed", err)
		}
	}
	return tea.Quit
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	board := m.surface.View()

	panes := []string{m.bufview.View(), board}
	if m.showStatus {
		panes = append(panes, m.statusBar())
	}
	view := lipgloss.JoinVertical(lipgloss.Center, panes...)
	view = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)

	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	if m.showHelp {
		view = m.helpView.Overlay(view)
	}
	if m.debugMode && m.logOverlay.Visible() {
		view = m.logOverlay.Overlay(view)
	}

	return zone.Scan(view)
}

// statusBar renders the layout name, modifier state, and key hints.
func (m Model) statusBar() string {
	parts := []string{styles.StatusBarStyle.Render(m.surface.Layout().Name())}

	state := m.machine.State()
	variant := layout.ShiftPlain
	switch {
	case state.CapsLockActive:
		variant = layout.ShiftCapsLocked
	case state.ShiftActive:
		variant = layout.ShiftHeld
	}
	if badge := surface.ModifierBadge(variant); badge != "" {
		parts = append(parts, badge)
	}

	if m.cfg.UI.ShowKeyHints {
		parts = append(parts, styles.HelpHintStyle.Render("tab layout · ? help · ctrl+c quit"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, joinWithGap(parts)...)
}

func joinWithGap(parts []string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, "  ")
		}
		out = append(out, p)
	}
	return out
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	if m.watcherHandle != nil {
		_ = m.watcherHandle.Stop()
	}
	m.cancel()
	m.repeater.Close()
	m.sink.Close()
	return nil
}

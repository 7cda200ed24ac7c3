// Package config provides configuration types and defaults for tapboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tapboard/internal/grid"
	"tapboard/internal/layout"
	"tapboard/internal/log"
)

// LayoutDefConfig defines a custom key layout. Each row is a
// space-separated list of key tokens: a single grapheme cluster for a
// character key, or one of the named keys "shift", "delete", "space",
// "newline". Every row must carry the same number of tokens.
type LayoutDefConfig struct {
	Name string   `mapstructure:"name"`
	Rows []string `mapstructure:"rows"`
}

// LayoutConfig holds the key surface configuration.
type LayoutConfig struct {
	// Active names the layout shown at startup.
	// Default: "letters"
	Active string `mapstructure:"active"`

	// CellWidth and CellHeight size each key cell in pointer units.
	CellWidth  float64 `mapstructure:"cell_width"`
	CellHeight float64 `mapstructure:"cell_height"`

	// Custom layouts, selectable alongside the builtin letters and
	// symbols surfaces.
	Custom []LayoutDefConfig `mapstructure:"custom"`
}

// TimingConfig holds the gesture timing knobs, in milliseconds.
type TimingConfig struct {
	// DoubleTapWindowMS is the maximum gap between two shift taps that
	// still toggles caps lock. Default: 500
	DoubleTapWindowMS int `mapstructure:"double_tap_window_ms"`

	// RepeatIntervalMS is the delay between repeated deletes while the
	// delete key is held. Default: 80
	RepeatIntervalMS int `mapstructure:"repeat_interval_ms"`

	// HoldThresholdMS is how long the pointer must rest on the delete
	// key before repeat starts. Default: 300
	HoldThresholdMS int `mapstructure:"hold_threshold_ms"`

	// HighlightFlashMS is how long a key cap stays highlighted after a
	// feedback pulse. Default: 120
	HighlightFlashMS int `mapstructure:"highlight_flash_ms"`
}

// DoubleTapWindow returns the caps-lock double-tap window as a duration.
func (tc TimingConfig) DoubleTapWindow() time.Duration {
	return time.Duration(tc.DoubleTapWindowMS) * time.Millisecond
}

// RepeatInterval returns the delete repeat interval as a duration.
func (tc TimingConfig) RepeatInterval() time.Duration {
	return time.Duration(tc.RepeatIntervalMS) * time.Millisecond
}

// HoldThreshold returns the delete hold threshold as a duration.
func (tc TimingConfig) HoldThreshold() time.Duration {
	return time.Duration(tc.HoldThresholdMS) * time.Millisecond
}

// HighlightFlash returns the key highlight duration.
func (tc TimingConfig) HighlightFlash() time.Duration {
	return time.Duration(tc.HighlightFlashMS) * time.Millisecond
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	ShowKeyHints  bool   `mapstructure:"show_key_hints"`  // Show keybinding hints under the buffer
	MarkdownStyle string `mapstructure:"markdown_style"`  // "dark" (default) or "light"
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     key:
	//       cap: "#44475A"
	// Or quoted dot notation:
	//   colors:
	//     "key.cap": "#44475A"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// flattenColors recursively flattens a nested map into dot-notation keys.
func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// TranscriptConfig holds transcript persistence configuration.
type TranscriptConfig struct {
	// Enabled controls whether the typed buffer is saved on quit.
	// Default: true
	Enabled bool `mapstructure:"enabled"`

	// DBPath is the sqlite database file for saved transcripts.
	// Default: ~/.config/tapboard/transcripts.db
	DBPath string `mapstructure:"db_path"`
}

// TracingConfig holds distributed tracing configuration for gestures.
type TracingConfig struct {
	// Enabled controls whether gesture tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/tapboard/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// 1.0 = all traces, 0.1 = 10% of traces
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Config holds all configuration options for tapboard.
type Config struct {
	AutoReload bool             `mapstructure:"auto_reload"`
	Layout     LayoutConfig     `mapstructure:"layout"`
	Timing     TimingConfig     `mapstructure:"timing"`
	UI         UIConfig         `mapstructure:"ui"`
	Theme      ThemeConfig      `mapstructure:"theme"`
	Transcript TranscriptConfig `mapstructure:"transcript"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// DefaultTranscriptDBPath returns the default path for the transcript
// database, or empty string if home dir unavailable.
func DefaultTranscriptDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tapboard", "transcripts.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/tapboard/traces/traces.jsonl or empty string if home
// dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tapboard", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoReload: true,
		Layout: LayoutConfig{
			Active:     "letters",
			CellWidth:  layout.DefaultGeometry.CellWidth,
			CellHeight: layout.DefaultGeometry.CellHeight,
		},
		Timing: TimingConfig{
			DoubleTapWindowMS: 500,
			RepeatIntervalMS:  80,
			HoldThresholdMS:   300,
			HighlightFlashMS:  120,
		},
		UI: UIConfig{
			ShowStatusBar: true,
			ShowKeyHints:  true,
			MarkdownStyle: "dark",
		},
		Transcript: TranscriptConfig{
			Enabled: true,
			DBPath:  DefaultTranscriptDBPath(),
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// namedKeys maps layout row tokens to their key definitions.
var namedKeys = map[string]layout.KeyDef{
	"shift":   layout.Shift(),
	"delete":  layout.Delete(),
	"space":   layout.Space(),
	"newline": layout.Newline(),
}

// BuildLayout resolves a layout name against the builtins and the
// configured custom layouts, applying the configured cell size.
func (c Config) BuildLayout(name string) (layout.Layout, error) {
	geo := layout.DefaultGeometry
	if c.Layout.CellWidth > 0 {
		geo.CellWidth = c.Layout.CellWidth
	}
	if c.Layout.CellHeight > 0 {
		geo.CellHeight = c.Layout.CellHeight
	}

	switch name {
	case "", "letters":
		return layout.Letters().WithGeometry(geo), nil
	case "symbols":
		return layout.Symbols().WithGeometry(geo), nil
	}

	for _, def := range c.Layout.Custom {
		if def.Name == name {
			return buildCustomLayout(def, geo)
		}
	}
	return layout.Layout{}, fmt.Errorf("unknown layout %q", name)
}

// buildCustomLayout turns a row token list into a Layout.
func buildCustomLayout(def LayoutDefConfig, geo grid.Geometry) (layout.Layout, error) {
	if len(def.Rows) == 0 {
		return layout.Layout{}, fmt.Errorf("layout %q has no rows", def.Name)
	}

	var keys []layout.KeyDef
	cols := 0
	for i, row := range def.Rows {
		tokens := splitTokens(row)
		if i == 0 {
			cols = len(tokens)
		} else if len(tokens) != cols {
			return layout.Layout{}, fmt.Errorf(
				"layout %q row %d has %d keys, want %d", def.Name, i, len(tokens), cols)
		}
		for _, tok := range tokens {
			if named, ok := namedKeys[tok]; ok {
				keys = append(keys, named)
				continue
			}
			keys = append(keys, layout.Char(tok))
		}
	}

	geo.Rows = len(def.Rows)
	geo.Cols = cols
	return layout.New(def.Name, geo, keys)
}

// splitTokens splits a row on spaces, dropping empties so extra
// whitespace in the config is harmless.
func splitTokens(row string) []string {
	var tokens []string
	start := -1
	for i, r := range row {
		if r == ' ' {
			if start >= 0 {
				tokens = append(tokens, row[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, row[start:])
	}
	return tokens
}

// LayoutNames returns the selectable layout names: the builtins followed
// by the configured custom layouts.
func (c Config) LayoutNames() []string {
	names := []string{"letters", "symbols"}
	for _, def := range c.Layout.Custom {
		names = append(names, def.Name)
	}
	return names
}

// ValidateLayout checks the layout section, including that every custom
// layout actually builds.
func ValidateLayout(lc LayoutConfig) error {
	if lc.CellWidth < 0 || lc.CellHeight < 0 {
		return fmt.Errorf("layout.cell_width and layout.cell_height must not be negative")
	}

	cfg := Config{Layout: lc}
	for _, def := range lc.Custom {
		if def.Name == "" {
			return fmt.Errorf("custom layouts must be named")
		}
		if def.Name == "letters" || def.Name == "symbols" {
			return fmt.Errorf("custom layout %q shadows a builtin layout", def.Name)
		}
		if _, err := buildCustomLayout(def, layout.DefaultGeometry); err != nil {
			return err
		}
	}

	if lc.Active != "" {
		if _, err := cfg.BuildLayout(lc.Active); err != nil {
			return fmt.Errorf("layout.active: %w", err)
		}
	}
	return nil
}

// ValidateTiming checks the timing section.
func ValidateTiming(tc TimingConfig) error {
	check := func(name string, v int) error {
		if v < 0 {
			return fmt.Errorf("timing.%s must not be negative, got %d", name, v)
		}
		return nil
	}
	if err := check("double_tap_window_ms", tc.DoubleTapWindowMS); err != nil {
		return err
	}
	if err := check("repeat_interval_ms", tc.RepeatIntervalMS); err != nil {
		return err
	}
	if err := check("hold_threshold_ms", tc.HoldThresholdMS); err != nil {
		return err
	}
	return check("highlight_flash_ms", tc.HighlightFlashMS)
}

// ValidateTheme checks the theme section.
func ValidateTheme(theme ThemeConfig) error {
	switch theme.Mode {
	case "", "light", "dark":
		return nil
	default:
		return fmt.Errorf("theme.mode must be \"light\", \"dark\", or empty, got %q", theme.Mode)
	}
}

// ValidateTracing checks the tracing section.
func ValidateTracing(tracing TracingConfig) error {
	// Validate SampleRate is in range [0.0, 1.0]
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	// Validate Exporter is a valid option
	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Validate checks every section of the config.
func Validate(cfg Config) error {
	if err := ValidateLayout(cfg.Layout); err != nil {
		return err
	}
	if err := ValidateTiming(cfg.Timing); err != nil {
		return err
	}
	if err := ValidateTheme(cfg.Theme); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Tapboard Configuration

# Reload the keyboard when this file changes
auto_reload: true

# Key surface
layout:
  active: letters       # Layout shown at startup: "letters", "symbols", or a custom name
  cell_width: 32        # Pointer units per key cell
  cell_height: 48

  # Custom layouts - each row is a space-separated list of keys.
  # Named keys: shift, delete, space, newline. Anything else is a
  # character key (one grapheme cluster).
  # custom:
  #   - name: numpad
  #     rows:
  #       - "7 8 9"
  #       - "4 5 6"
  #       - "1 2 3"
  #       - "0 . delete"

# Gesture timing, in milliseconds
timing:
  double_tap_window_ms: 500   # Two shift taps within this window toggle caps lock
  repeat_interval_ms: 80      # Delay between repeated deletes while held
  hold_threshold_ms: 300      # Hold on delete before repeat starts
  highlight_flash_ms: 120     # Key cap highlight duration after a tap

# UI settings
ui:
  show_status_bar: true   # Show status bar at bottom
  show_key_hints: true    # Show keybinding hints under the buffer
  # markdown_style: dark  # Help rendering style: "dark" (default) or "light"

# Theme configuration
theme:
  # Force light or dark mode (empty uses terminal detection):
  # mode: dark
  #
  # Override specific colors:
  # colors:
  #   key.cap: "#44475A"
  #   key.highlight: "#73F59F"
  #   buffer.cursor: "#F1FA8C"

# Transcript persistence
transcript:
  enabled: true
  # db_path: ~/.config/tapboard/transcripts.db

# Gesture tracing (for debugging input handling)
tracing:
  enabled: false
  exporter: file        # "none", "file", "stdout", or "otlp"
  # file_path: ~/.config/tapboard/traces/traces.jsonl
  # otlp_endpoint: localhost:4317
  sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"tapboard/internal/grid"
	"tapboard/internal/layout"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestDefaultTimings(t *testing.T) {
	tc := Defaults().Timing
	require.Equal(t, 500*time.Millisecond, tc.DoubleTapWindow())
	require.Equal(t, 80*time.Millisecond, tc.RepeatInterval())
	require.Equal(t, 300*time.Millisecond, tc.HoldThreshold())
}

func TestBuildLayout_BuiltinsApplyCellSize(t *testing.T) {
	cfg := Defaults()
	cfg.Layout.CellWidth = 20
	cfg.Layout.CellHeight = 30

	l, err := cfg.BuildLayout("letters")
	require.NoError(t, err)
	require.Equal(t, 20.0, l.Geometry().CellWidth)
	require.Equal(t, 30.0, l.Geometry().CellHeight)
	require.Equal(t, layout.DefaultGeometry.Rows, l.Geometry().Rows)

	l, err = cfg.BuildLayout("") // empty name falls back to letters
	require.NoError(t, err)
	require.Equal(t, "letters", l.Name())
}

func TestBuildLayout_Custom(t *testing.T) {
	cfg := Defaults()
	cfg.Layout.Custom = []LayoutDefConfig{{
		Name: "numpad",
		Rows: []string{
			"7 8 9",
			"4 5 6",
			"1 2 3",
			"0 . delete",
		},
	}}

	l, err := cfg.BuildLayout("numpad")
	require.NoError(t, err)
	require.Equal(t, 4, l.Geometry().Rows)
	require.Equal(t, 3, l.Geometry().Cols)

	def, ok := l.Key(grid.Cell{Row: 3, Col: 2})
	require.True(t, ok)
	require.Equal(t, layout.GlyphDelete, def.Kind)

	def, ok = l.Key(grid.Cell{Row: 0, Col: 0})
	require.True(t, ok)
	require.Equal(t, layout.Char("7"), def)
}

func TestBuildLayout_UnknownName(t *testing.T) {
	_, err := Defaults().BuildLayout("dvorak")
	require.ErrorContains(t, err, "unknown layout")
}

func TestValidateLayout(t *testing.T) {
	tests := []struct {
		name    string
		lc      LayoutConfig
		wantErr string
	}{
		{
			name: "ragged rows",
			lc: LayoutConfig{Custom: []LayoutDefConfig{
				{Name: "bad", Rows: []string{"a b c", "d e"}},
			}},
			wantErr: "row 1 has 2 keys, want 3",
		},
		{
			name: "unnamed custom layout",
			lc: LayoutConfig{Custom: []LayoutDefConfig{
				{Rows: []string{"a b"}},
			}},
			wantErr: "must be named",
		},
		{
			name: "shadows builtin",
			lc: LayoutConfig{Custom: []LayoutDefConfig{
				{Name: "symbols", Rows: []string{"a b"}},
			}},
			wantErr: "shadows a builtin",
		},
		{
			name:    "unknown active layout",
			lc:      LayoutConfig{Active: "missing"},
			wantErr: "layout.active",
		},
		{
			name:    "negative cell size",
			lc:      LayoutConfig{CellWidth: -1},
			wantErr: "must not be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorContains(t, ValidateLayout(tt.lc), tt.wantErr)
		})
	}
}

func TestValidateTiming(t *testing.T) {
	tc := Defaults().Timing
	require.NoError(t, ValidateTiming(tc))

	tc.RepeatIntervalMS = -1
	require.ErrorContains(t, ValidateTiming(tc), "repeat_interval_ms")
}

func TestValidateTheme(t *testing.T) {
	require.NoError(t, ValidateTheme(ThemeConfig{Mode: "dark"}))
	require.NoError(t, ValidateTheme(ThemeConfig{}))
	require.ErrorContains(t, ValidateTheme(ThemeConfig{Mode: "solarized"}), "theme.mode")
}

func TestValidateTracing(t *testing.T) {
	require.NoError(t, ValidateTracing(Defaults().Tracing))

	require.ErrorContains(t,
		ValidateTracing(TracingConfig{SampleRate: 1.5}),
		"sample_rate")
	require.ErrorContains(t,
		ValidateTracing(TracingConfig{Exporter: "jaeger"}),
		"exporter")
	require.ErrorContains(t,
		ValidateTracing(TracingConfig{Enabled: true, Exporter: "file"}),
		"file_path")
	require.ErrorContains(t,
		ValidateTracing(TracingConfig{Enabled: true, Exporter: "otlp", SampleRate: 1.0}),
		"otlp_endpoint")
}

func TestFlattenedColors(t *testing.T) {
	theme := ThemeConfig{Colors: map[string]any{
		"key": map[string]any{
			"cap": "#44475A",
		},
		"buffer.cursor": "#F1FA8C",
	}}
	flat := theme.FlattenedColors()
	require.Equal(t, "#44475A", flat["key.cap"])
	require.Equal(t, "#F1FA8C", flat["buffer.cursor"])
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tapboard.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// The template must be parseable YAML.
	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	require.Contains(t, parsed, "layout")
	require.Contains(t, parsed, "timing")
}

func TestSaveActiveLayout_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tapboard.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveActiveLayout(path, "symbols"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "active: symbols")
	require.Contains(t, content, "# Tapboard Configuration", "comments survive the rewrite")
	require.NotContains(t, content, "active: letters")
}

func TestSaveActiveLayout_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh", "tapboard.yaml")
	require.NoError(t, SaveActiveLayout(path, "letters"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed struct {
		Layout struct {
			Active string `yaml:"active"`
		} `yaml:"layout"`
	}
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	require.Equal(t, "letters", parsed.Layout.Active)
	require.False(t, strings.Contains(string(data), "\t"), "yaml output uses spaces")
}

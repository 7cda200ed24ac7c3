package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tapboard/internal/app"
	"tapboard/internal/config"
	"tapboard/internal/log"
	"tapboard/internal/store"
	"tapboard/internal/tracing"
	"tapboard/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "tapboard",
	Short:   "A touch-style on-screen keyboard in the terminal",
	Long:    `An on-screen keyboard driven by pointer gestures: tap or slide onto a key and release to type it, hold delete to auto-repeat, double-tap shift for caps lock.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/tapboard/config.yaml)")
	rootCmd.Flags().String("layout", "",
		"layout to open with (overrides layout.active)")
	rootCmd.Flags().Bool("no-auto-reload", false,
		"disable live config reload when the file changes")
	rootCmd.Flags().Bool("debug", false,
		"enable debug logging and the log overlay (ctrl+l)")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("layout.active", defaults.Layout.Active)
	viper.SetDefault("layout.cell_width", defaults.Layout.CellWidth)
	viper.SetDefault("layout.cell_height", defaults.Layout.CellHeight)
	viper.SetDefault("timing.double_tap_window_ms", defaults.Timing.DoubleTapWindowMS)
	viper.SetDefault("timing.repeat_interval_ms", defaults.Timing.RepeatIntervalMS)
	viper.SetDefault("timing.hold_threshold_ms", defaults.Timing.HoldThresholdMS)
	viper.SetDefault("timing.highlight_flash_ms", defaults.Timing.HighlightFlashMS)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.show_key_hints", defaults.UI.ShowKeyHints)
	viper.SetDefault("transcript.enabled", defaults.Transcript.Enabled)
	viper.SetDefault("transcript.db_path", defaults.Transcript.DBPath)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .tapboard.yaml (current directory)
		// 2. ~/.config/tapboard/config.yaml (user config)
		if _, err := os.Stat(".tapboard.yaml"); err == nil {
			viper.SetConfigFile(".tapboard.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "tapboard"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create a commented default
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			home, _ := os.UserHomeDir()
			defaultPath := filepath.Join(home, ".config", "tapboard", "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// reloadConfig re-reads the config file for live reload.
func reloadConfig() (config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("re-reading config: %w", err)
	}
	fresh := config.Defaults()
	if err := viper.Unmarshal(&fresh); err != nil {
		return config.Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return fresh, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	if layoutFlag, _ := cmd.Flags().GetString("layout"); layoutFlag != "" {
		cfg.Layout.Active = layoutFlag
	}
	if noReload, _ := cmd.Flags().GetBool("no-auto-reload"); noReload {
		cfg.AutoReload = false
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	debugMode, _ := cmd.Flags().GetBool("debug")
	if !debugMode {
		debugMode = os.Getenv("TAPBOARD_DEBUG") != ""
	}
	if debugMode {
		home, _ := os.UserHomeDir()
		logPath := filepath.Join(home, ".config", "tapboard", "debug.log")
		if cleanup, err := log.Init(logPath); err == nil {
			defer cleanup()
		}
	}

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Mode:   cfg.Theme.Mode,
		Colors: cfg.Theme.FlattenedColors(),
	}); err != nil {
		return fmt.Errorf("invalid theme: %w", err)
	}

	provider, err := tracing.NewProvider(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     cfg.Tracing.FilePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  "tapboard",
	})
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	// Transcript persistence is best-effort: a broken store never
	// prevents typing.
	var transcripts store.TranscriptRepository
	if cfg.Transcript.Enabled {
		db, err := store.NewDB(cfg.Transcript.DBPath)
		if err != nil {
			log.ErrorErr(log.CatStore, "transcript store unavailable", err)
		} else {
			defer func() { _ = db.Close() }()
			transcripts = store.NewTranscriptRepository(db)
		}
	}

	model := app.New(app.Config{
		Cfg:          cfg,
		ConfigPath:   viper.ConfigFileUsed(),
		ReloadConfig: reloadConfig,
		Transcripts:  transcripts,
		Recorder:     tracing.NewGestureRecorder(provider.Tracer()),
		DebugMode:    debugMode,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tapboard/internal/config"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	require.True(t, names["transcripts"])
}

func TestTranscriptsCommand_HasActions(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range transcriptsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"list", "show", "delete"} {
		require.True(t, names[want], "missing %s", want)
	}
}

func TestReloadConfig_DefaultsWhenUnset(t *testing.T) {
	// Without a config file read, reload still layers viper state onto
	// package defaults rather than zero values.
	fresh := config.Defaults()
	require.NoError(t, config.Validate(fresh))
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3 (test)")
	require.Equal(t, "1.2.3 (test)", rootCmd.Version)
	SetVersion("dev")
}

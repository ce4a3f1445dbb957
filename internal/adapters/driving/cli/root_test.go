package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/logger"
)

func TestRootCmd_PersistentFlags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{name: "config"},
		{name: "env-file"},
		{name: "verbose", shorthand: "v"},
		{name: "source", shorthand: "s"},
		{name: "category", shorthand: "c"},
		{name: "reading"},
		{name: "headerless"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := rootCmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.shorthand, f.Shorthand)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	want := []string{"search", "check", "tui", "serve", "mcp", "config", "version"}
	var got []string
	for _, cmd := range rootCmd.Commands() {
		got = append(got, cmd.Name())
	}
	for _, name := range want {
		assert.Contains(t, got, name)
	}
}

func captureSettings(t *testing.T) **domain.Settings {
	t.Helper()
	appRuntime = nil
	var captured *domain.Settings
	buildRuntime = func(s *domain.Settings) (*Runtime, error) {
		captured = s
		return newTestRuntime(s).Runtime, nil
	}
	return &captured
}

func TestRootCmd_FlagsOverrideSettings(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	captured := captureSettings(t)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{
		"check", "--source", "https://example.com/faq.csv",
		"--category", "diet", "--reading", "--headerless",
	})

	require.NoError(t, rootCmd.Execute())
	require.NotNil(t, *captured)
	s := *captured
	assert.Equal(t, "https://example.com/faq.csv", s.Source.Locator)
	assert.Equal(t, "diet", s.Policy.Category)
	assert.True(t, s.Reading.Enabled)
	assert.True(t, s.Policy.Headerless)
}

func TestRootCmd_SettingsWithoutFlags(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, settingsService.Set("category", "health"))
	captured := captureSettings(t)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"check"})

	require.NoError(t, rootCmd.Execute())
	s := *captured
	assert.Equal(t, "faq.csv", s.Source.Locator)
	assert.Equal(t, "health", s.Policy.Category)
	assert.False(t, s.Reading.Enabled)
}

func TestRootCmd_SetupUsesConfigFlag(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	settingsService, configStore = nil, nil

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--config", path, "config", "path"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, path+"\n", buf.String())
	assert.NotNil(t, settingsService)
}

func TestRootCmd_VerboseEnablesLogger(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer logger.SetVerbose(false)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"--verbose", "version"})

	require.NoError(t, rootCmd.Execute())
	assert.True(t, logger.IsVerbose())
}

func TestResolveSettings_NoService(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	settingsService = nil

	_, err := resolveSettings(checkCmd)

	assert.Error(t, err)
}

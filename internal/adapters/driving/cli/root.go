// Package cli provides the kotae command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kotae/internal/adapters/driven/config/file"
	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/ports/driving"
	"github.com/custodia-labs/kotae/internal/core/services"
	"github.com/custodia-labs/kotae/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// Persistent flags.
var (
	configPath     string
	envFiles       []string
	verbose        bool
	sourceFlag     string
	categoryFlag   string
	readingFlag    bool
	headerlessFlag bool
)

// Services resolved before each command runs. Tests may replace them.
var (
	settingsService driving.SettingsService
	configStore     configFile
	appRuntime      *Runtime
)

// buildRuntime wires the runtime from resolved settings. Tests replace it
// to avoid touching the network or the dictionary.
var buildRuntime = NewRuntime

// configFile is the subset of the config store the config command needs.
type configFile interface {
	Get(key string) (any, bool)
	Path() string
}

var rootCmd = &cobra.Command{
	Use:   "kotae",
	Short: "Keyword search over a question and answer sheet",
	Long: `kotae loads a question and answer dataset from a CSV or TSV file or URL
and filters it by keywords. Every whitespace-separated term must appear
in the question or the answer. Matching folds katakana to hiragana, and
can optionally match kanji by reading.

Settings come from ~/.kotae/config.toml, a .env file and KOTAE_*
environment variables. Flags override all three.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default ~/.kotae/config.toml)")
	pf.StringSliceVar(&envFiles, "env-file", nil, ".env files to read (default ./.env)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
	pf.StringVarP(&sourceFlag, "source", "s", "", "dataset URL or file path")
	pf.StringVarP(&categoryFlag, "category", "c", "", "only keep records in this category")
	pf.BoolVar(&readingFlag, "reading", false, "also match kanji by their hiragana reading")
	pf.BoolVar(&headerlessFlag, "headerless", false, "treat the first two columns as question and answer")
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// setup resolves settings. Tests that preset settingsService skip it.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if settingsService != nil {
		return nil
	}

	var (
		store *file.ConfigStore
		err   error
	)
	if configPath != "" {
		store, err = file.NewConfigStoreAt(configPath)
	} else {
		store, err = file.NewConfigStore("")
	}
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	env, err := file.LoadEnv(envFiles...)
	if err != nil {
		return fmt.Errorf("reading .env: %w", err)
	}

	logger.Debug("Config file: %s", store.Path())
	settingsService = services.NewSettingsService(store, env)
	configStore = store
	return nil
}

// resolveSettings applies flag overrides on top of the resolved settings.
func resolveSettings(cmd *cobra.Command) (*domain.Settings, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		settings.Source.Locator = sourceFlag
	}
	if flags.Changed("category") {
		settings.Policy.Category = categoryFlag
	}
	if flags.Changed("reading") {
		settings.Reading.Enabled = readingFlag
	}
	if flags.Changed("headerless") {
		settings.Policy.Headerless = headerlessFlag
	}
	return settings, nil
}

// runtimeFor returns the preset runtime, or builds one from settings.
func runtimeFor(cmd *cobra.Command) (*Runtime, error) {
	if appRuntime != nil {
		return appRuntime, nil
	}
	settings, err := resolveSettings(cmd)
	if err != nil {
		return nil, err
	}
	rt, err := buildRuntime(settings)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

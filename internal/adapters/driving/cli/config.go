package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
	Long: `Inspect and change the settings stored in ~/.kotae/config.toml.

Each key can be overridden by an environment variable named after it,
for example KOTAE_SOURCE_LOCATOR for source.locator.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved settings",
	Long:  `Show every setting after applying the config file, .env and environment overrides.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the stored value of a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Validate and store a value",
	Long: `Validate and store a value in the config file.

Lists are comma separated:
  kotae config set policy.non_empty question,answer
Durations accept Go syntax or plain seconds:
  kotae config set reload.interval 5m`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List recognised keys and their environment variables",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return fmt.Errorf("failed to resolve settings: %w", err)
	}
	data, err := yaml.Marshal(settingsDocument(settings))
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := requireKnownKey(args[0]); err != nil {
		return err
	}
	if configStore == nil {
		return errors.New("config store not configured")
	}

	out := cmd.OutOrStdout()
	if v, ok := configStore.Get(args[0]); ok {
		fmt.Fprintln(out, formatValue(v))
	} else {
		fmt.Fprintln(out, "(not set)")
	}
	if env, ok := os.LookupEnv(services.EnvName(args[0])); ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: overridden by %s=%s\n", services.EnvName(args[0]), env)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	fmt.Fprintln(cmd.OutOrStdout(), configStore.Path())
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	out := cmd.OutOrStdout()
	for _, k := range settingsService.Keys() {
		fmt.Fprintf(out, "%-22s %s\n", k, services.EnvName(k))
	}
	return nil
}

func requireKnownKey(key string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, k := range settingsService.Keys() {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case []any:
		data, err := yaml.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data[:len(data)-1])
	default:
		return fmt.Sprint(x)
	}
}

// settingsDocument renders settings under the same keys the config file uses.
func settingsDocument(s *domain.Settings) map[string]any {
	fields := func(fs []domain.Field) []string {
		out := make([]string, len(fs))
		for i, f := range fs {
			out[i] = string(f)
		}
		return out
	}
	delimiter := string(s.Source.EffectiveDelimiter())
	if delimiter == "\t" {
		delimiter = "tab"
	}
	return map[string]any{
		"source": map[string]any{
			"locator":         s.Source.Locator,
			"cache_bust":      s.Source.CacheBust,
			"delimiter":       delimiter,
			"rate_per_second": s.Source.RatePerSecond,
			"timeout":         s.Source.Timeout.String(),
		},
		"columns": map[string]any{
			"question":   s.Policy.Columns.Question,
			"answer":     s.Policy.Columns.Answer,
			"category":   s.Policy.Columns.Category,
			"headerless": s.Policy.Headerless,
		},
		"policy": map[string]any{
			"required":  fields(s.Policy.Required),
			"non_empty": fields(s.Policy.NonEmpty),
		},
		"category": s.Policy.Category,
		"reading": map[string]any{
			"enabled":    s.Reading.Enabled,
			"cache_size": s.Reading.CacheSize,
		},
		"normalise": map[string]any{
			"fold_width": s.FoldWidth,
		},
		"reload": map[string]any{
			"interval": durationString(s.Reload.Interval),
			"watch":    s.Reload.Watch,
		},
		"http": map[string]any{
			"addr":         s.HTTP.Addr,
			"cors_origins": s.HTTP.CORSOrigins,
		},
	}
}

func durationString(d time.Duration) string {
	if d == 0 {
		return "off"
	}
	return d.String()
}

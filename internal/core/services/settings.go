package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/ports/driven"
	"github.com/custodia-labs/kotae/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeySourceLocator     = "source.locator"
	KeySourceCacheBust   = "source.cache_bust"
	KeySourceDelimiter   = "source.delimiter"
	KeySourceRate        = "source.rate_per_second"
	KeySourceTimeout     = "source.timeout"
	KeyColumnsQuestion   = "columns.question"
	KeyColumnsAnswer     = "columns.answer"
	KeyColumnsCategory   = "columns.category"
	KeyColumnsHeaderless = "columns.headerless"
	KeyPolicyRequired    = "policy.required"
	KeyPolicyNonEmpty    = "policy.non_empty"
	KeyCategory          = "category"
	KeyReadingEnabled    = "reading.enabled"
	KeyReadingCacheSize  = "reading.cache_size"
	KeyFoldWidth         = "normalise.fold_width"
	KeyReloadInterval    = "reload.interval"
	KeyReloadWatch       = "reload.watch"
	KeyHTTPAddr          = "http.addr"
	KeyHTTPCORSOrigins   = "http.cors_origins"
)

// EnvPrefix prefixes environment variable overrides.
const EnvPrefix = "KOTAE_"

type valueKind int

const (
	kindString valueKind = iota
	kindBool
	kindInt
	kindFloat
	kindDuration
	kindList
	kindDelimiter
)

var keyKinds = map[string]valueKind{
	KeySourceLocator:     kindString,
	KeySourceCacheBust:   kindBool,
	KeySourceDelimiter:   kindDelimiter,
	KeySourceRate:        kindFloat,
	KeySourceTimeout:     kindDuration,
	KeyColumnsQuestion:   kindString,
	KeyColumnsAnswer:     kindString,
	KeyColumnsCategory:   kindString,
	KeyColumnsHeaderless: kindBool,
	KeyPolicyRequired:    kindList,
	KeyPolicyNonEmpty:    kindList,
	KeyCategory:          kindString,
	KeyReadingEnabled:    kindBool,
	KeyReadingCacheSize:  kindInt,
	KeyFoldWidth:         kindBool,
	KeyReloadInterval:    kindDuration,
	KeyReloadWatch:       kindBool,
	KeyHTTPAddr:          kindString,
	KeyHTTPCORSOrigins:   kindList,
}

// EnvName returns the environment variable that overrides key,
// e.g. KOTAE_SOURCE_LOCATOR for source.locator.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// SettingsService resolves settings from the environment, the config
// file and defaults, in that order.
type SettingsService struct {
	configStore driven.ConfigStore
	env         driven.Environment
}

// NewSettingsService creates a new settings service.
// The env parameter is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, env driven.Environment) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		env:         env,
	}
}

// ResolveSettings is a convenience for NewSettingsService(store, env).Get().
func ResolveSettings(store driven.ConfigStore, env driven.Environment) (*domain.Settings, error) {
	return NewSettingsService(store, env).Get()
}

// Keys lists every recognised configuration key in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(keyKinds))
	for k := range keyKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()
	r := &resolver{s: s}

	src := &settings.Source
	src.Locator = r.getString(KeySourceLocator, src.Locator)
	src.CacheBust = r.getBool(KeySourceCacheBust, src.CacheBust)
	src.Delimiter = r.getDelimiter(KeySourceDelimiter, src.Delimiter)
	src.RatePerSecond = r.getFloat(KeySourceRate, src.RatePerSecond)
	src.Timeout = r.getDuration(KeySourceTimeout, src.Timeout)

	pol := &settings.Policy
	pol.Columns.Question = r.getString(KeyColumnsQuestion, pol.Columns.Question)
	pol.Columns.Answer = r.getString(KeyColumnsAnswer, pol.Columns.Answer)
	pol.Columns.Category = r.getString(KeyColumnsCategory, pol.Columns.Category)
	pol.Headerless = r.getBool(KeyColumnsHeaderless, pol.Headerless)
	pol.Required = r.getFields(KeyPolicyRequired, pol.Required)
	pol.NonEmpty = r.getFields(KeyPolicyNonEmpty, pol.NonEmpty)
	pol.Category = r.getString(KeyCategory, pol.Category)

	settings.Reading.Enabled = r.getBool(KeyReadingEnabled, settings.Reading.Enabled)
	settings.Reading.CacheSize = r.getInt(KeyReadingCacheSize, settings.Reading.CacheSize)
	settings.FoldWidth = r.getBool(KeyFoldWidth, settings.FoldWidth)
	settings.Reload.Interval = r.getDuration(KeyReloadInterval, settings.Reload.Interval)
	settings.Reload.Watch = r.getBool(KeyReloadWatch, settings.Reload.Watch)
	settings.HTTP.Addr = r.getString(KeyHTTPAddr, settings.HTTP.Addr)
	settings.HTTP.CORSOrigins = r.getList(KeyHTTPCORSOrigins, settings.HTTP.CORSOrigins)

	if r.err != nil {
		return nil, r.err
	}
	return &settings, nil
}

// Set validates value for key and persists it to the config file.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := keyKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}
	typed, err := convert(kind, value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if key == KeyPolicyRequired || key == KeyPolicyNonEmpty {
		if _, err := toFields(typed); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// convert turns a string into the value stored in the config file.
func convert(kind valueKind, value string) (any, error) {
	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", domain.ErrInvalidInput, value)
		}
		return b, nil
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidInput, value)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, value)
		}
		return f, nil
	case kindDuration:
		if _, err := parseDuration(value); err != nil {
			return nil, err
		}
		return strings.TrimSpace(value), nil
	case kindList:
		return splitList(value), nil
	case kindDelimiter:
		if _, err := domain.ParseDelimiter(value); err != nil {
			return nil, err
		}
		return value, nil
	default:
		return value, nil
	}
}

// resolver reads keys with environment precedence and records the first error.
type resolver struct {
	s   *SettingsService
	err error
}

func (r *resolver) lookup(key string) (any, bool) {
	if r.s.env != nil {
		if v, ok := r.s.env.Lookup(EnvName(key)); ok {
			return v, true
		}
	}
	if r.s.configStore == nil {
		return nil, false
	}
	return r.s.configStore.Get(key)
}

func (r *resolver) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%s: %w", key, err)
	}
}

func (r *resolver) getString(key, def string) string {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	return fmt.Sprint(v)
}

func (r *resolver) getBool(key string, def bool) bool {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			r.fail(key, fmt.Errorf("%w: %q is not a boolean", domain.ErrInvalidInput, b))
			return def
		}
		return parsed
	}
	r.fail(key, fmt.Errorf("%w: expected boolean, got %T", domain.ErrInvalidInput, v))
	return def
}

func (r *resolver) getInt(key string, def int) int {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			r.fail(key, fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidInput, n))
			return def
		}
		return parsed
	}
	r.fail(key, fmt.Errorf("%w: expected integer, got %T", domain.ErrInvalidInput, v))
	return def
}

func (r *resolver) getFloat(key string, def float64) float64 {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			r.fail(key, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, n))
			return def
		}
		return parsed
	}
	r.fail(key, fmt.Errorf("%w: expected number, got %T", domain.ErrInvalidInput, v))
	return def
}

func (r *resolver) getDuration(key string, def time.Duration) time.Duration {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	switch d := v.(type) {
	case int64:
		return time.Duration(d) * time.Second
	case int:
		return time.Duration(d) * time.Second
	case string:
		parsed, err := parseDuration(d)
		if err != nil {
			r.fail(key, err)
			return def
		}
		return parsed
	}
	r.fail(key, fmt.Errorf("%w: expected duration, got %T", domain.ErrInvalidInput, v))
	return def
}

func (r *resolver) getDelimiter(key string, def rune) rune {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	d, err := domain.ParseDelimiter(fmt.Sprint(v))
	if err != nil {
		r.fail(key, err)
		return def
	}
	return d
}

func (r *resolver) getList(key string, def []string) []string {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	switch l := v.(type) {
	case string:
		return splitList(l)
	case []string:
		return l
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	r.fail(key, fmt.Errorf("%w: expected list, got %T", domain.ErrInvalidInput, v))
	return def
}

func (r *resolver) getFields(key string, def []domain.Field) []domain.Field {
	if _, ok := r.lookup(key); !ok {
		return def
	}
	fields, err := toFields(r.getList(key, nil))
	if err != nil {
		r.fail(key, err)
		return def
	}
	return fields
}

func toFields(v any) ([]domain.Field, error) {
	list, _ := v.([]string)
	fields := make([]domain.Field, 0, len(list))
	for _, item := range list {
		f, err := domain.ParseField(item)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// parseDuration accepts Go durations ("30s", "5m") and bare seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %q is not a duration", domain.ErrInvalidInput, s)
	}
	return d, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package domain

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	Source    SourceSettings
	Policy    LoadPolicy
	Reading   ReadingSettings
	FoldWidth bool
	Reload    ReloadSettings
	HTTP      HTTPSettings
}

// SourceSettings configures where and how the dataset is fetched.
type SourceSettings struct {
	// Locator is a URL or file path to a delimited-text resource.
	Locator string

	// CacheBust appends a timestamp parameter to HTTP locators.
	CacheBust bool

	// Delimiter separates fields. Zero selects by extension.
	Delimiter rune

	// RatePerSecond throttles HTTP fetches.
	RatePerSecond float64

	// Timeout bounds a single fetch.
	Timeout time.Duration
}

// ReadingSettings configures the tokenizer-backed reading path.
type ReadingSettings struct {
	Enabled   bool
	CacheSize int
}

// ReloadSettings configures automatic reloads.
type ReloadSettings struct {
	// Interval between reloads. Zero disables periodic reloads.
	Interval time.Duration

	// Watch reloads when a local source file changes.
	Watch bool
}

// HTTPSettings configures the HTTP API.
type HTTPSettings struct {
	Addr        string
	CORSOrigins []string
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() Settings {
	return Settings{
		Source: SourceSettings{
			CacheBust:     true,
			RatePerSecond: 2,
			Timeout:       15 * time.Second,
		},
		Policy: DefaultLoadPolicy(),
		Reading: ReadingSettings{
			CacheSize: 4096,
		},
		HTTP: HTTPSettings{
			Addr: ":8080",
		},
	}
}

// ParseOptions derives parser options from the source and policy.
func (s Settings) ParseOptions() ParseOptions {
	return ParseOptions{
		Delimiter:  s.Source.EffectiveDelimiter(),
		Headerless: s.Policy.Headerless,
	}
}

// EffectiveDelimiter returns the configured delimiter, or tab for .tsv
// locators and comma otherwise.
func (s SourceSettings) EffectiveDelimiter() rune {
	if s.Delimiter != 0 {
		return s.Delimiter
	}
	loc := s.Locator
	if i := strings.IndexAny(loc, "?#"); i >= 0 {
		loc = loc[:i]
	}
	if strings.EqualFold(path.Ext(loc), ".tsv") {
		return '\t'
	}
	return ','
}

// ParseDelimiter converts a configuration value into a delimiter rune.
// "tab" and "\t" select a tab.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, fmt.Errorf("%w: invalid delimiter %q", ErrInvalidInput, s)
	}
	return r[0], nil
}

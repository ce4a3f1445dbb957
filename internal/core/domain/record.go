package domain

import "time"

// Record is one normalised question/answer unit derived from one source row.
// Records are immutable once built.
type Record struct {
	// ID is derived from the row content, so reloading identical content
	// yields identical IDs.
	ID string `json:"id" yaml:"id"`

	// Question is the trimmed question cell.
	Question string `json:"question" yaml:"question"`

	// Answer is the trimmed answer cell. May be empty.
	// Literal newlines are line breaks for display.
	Answer string `json:"answer" yaml:"answer"`

	// Category is the optional discriminator used for category narrowing.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// NormalizedText is the normalised "question answer" text matched by queries.
	NormalizedText string `json:"-" yaml:"-"`

	// ReadingText is the hiragana reading of the question and answer.
	// Empty unless the reading path is enabled.
	ReadingText string `json:"-" yaml:"-"`
}

// AnswerLines splits the answer on literal newlines.
// An empty answer yields no lines.
func (r *Record) AnswerLines() []string {
	if r.Answer == "" {
		return nil
	}
	lines := make([]string, 0, 4)
	start := 0
	for i := 0; i < len(r.Answer); i++ {
		if r.Answer[i] == '\n' {
			lines = append(lines, trimCR(r.Answer[start:i]))
			start = i + 1
		}
	}
	return append(lines, trimCR(r.Answer[start:]))
}

func trimCR(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\r' {
		return s[:n-1]
	}
	return s
}

// Dataset is the complete Record sequence produced by one successful load.
// A Dataset is replaced as a whole; it is never modified in place.
type Dataset struct {
	// Version increases by one with every successful replacement.
	Version uint64

	// Source is the locator the dataset was loaded from (without cache-busting).
	Source string

	// Category is the category selector applied while loading, if any.
	Category string

	// Records are in source row order.
	Records []Record

	// Skipped counts rows dropped by the non-empty policy or category narrowing.
	Skipped int

	// LoadedAt is when the dataset was published.
	LoadedAt time.Time
}

// Len returns the number of records, tolerating a nil dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Categories returns the distinct non-empty categories in first-seen order.
func (d *Dataset) Categories() []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for i := range d.Records {
		c := d.Records[i].Category
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Token is one morpheme produced by a tokenizer.
type Token struct {
	// Surface is the text as it appears in the input.
	Surface string

	// Reading is the katakana reading, empty when the dictionary has none.
	Reading string
}

package domain

import (
	"fmt"
	"strings"
)

// Field identifies one of the record fields sourced from a column.
type Field string

// Record fields that map to source columns.
const (
	FieldQuestion Field = "question"
	FieldAnswer   Field = "answer"
	FieldCategory Field = "category"
)

// ParseField converts a configuration value into a Field.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldQuestion, FieldAnswer, FieldCategory:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown field %q", ErrInvalidInput, s)
	}
}

// Columns names the source columns for each field.
type Columns struct {
	Question string
	Answer   string
	Category string
}

// DefaultColumns returns the standard column names.
func DefaultColumns() Columns {
	return Columns{
		Question: "Question",
		Answer:   "Answer",
		Category: "Category",
	}
}

// LoadPolicy is the explicit validation configuration for a dataset load.
// It replaces per-page hard-coded rules: which columns must exist and which
// fields must be non-empty for a row to be kept.
type LoadPolicy struct {
	// Columns maps fields to header names.
	Columns Columns

	// Required lists fields whose column must be present in the header.
	Required []Field

	// NonEmpty lists fields that must be non-empty after trimming.
	// The question is always required to be non-empty.
	NonEmpty []Field

	// Headerless treats the first two positional columns as question and answer.
	Headerless bool

	// Category narrows the dataset to records with exactly this category.
	// Empty means no narrowing.
	Category string
}

// DefaultLoadPolicy requires the question and answer columns and drops rows
// with an empty question.
func DefaultLoadPolicy() LoadPolicy {
	return LoadPolicy{
		Columns:  DefaultColumns(),
		Required: []Field{FieldQuestion, FieldAnswer},
		NonEmpty: []Field{FieldQuestion},
	}
}

// Column returns the header name for f.
func (p LoadPolicy) Column(f Field) string {
	switch f {
	case FieldQuestion:
		return p.Columns.Question
	case FieldAnswer:
		return p.Columns.Answer
	case FieldCategory:
		return p.Columns.Category
	default:
		return ""
	}
}

// RequiredColumns returns the header names that must be present.
// The question column is always required, and a category selector
// implies the category column is required.
func (p LoadPolicy) RequiredColumns() []string {
	fields := append([]Field(nil), p.Required...)
	if !containsField(fields, FieldQuestion) {
		fields = append([]Field{FieldQuestion}, fields...)
	}
	if p.Category != "" && !containsField(fields, FieldCategory) {
		fields = append(fields, FieldCategory)
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, p.Column(f))
	}
	return out
}

// MustBeNonEmpty reports whether rows with an empty f are dropped.
func (p LoadPolicy) MustBeNonEmpty(f Field) bool {
	if f == FieldQuestion {
		return true
	}
	return containsField(p.NonEmpty, f)
}

// Validate checks the policy is usable.
func (p LoadPolicy) Validate() error {
	if p.Headerless {
		if p.Category != "" {
			return fmt.Errorf("%w: category narrowing needs a header row", ErrInvalidInput)
		}
		return nil
	}
	for _, f := range append(append([]Field(nil), p.Required...), p.NonEmpty...) {
		if _, err := ParseField(string(f)); err != nil {
			return err
		}
		if strings.TrimSpace(p.Column(f)) == "" {
			return fmt.Errorf("%w: no column name for field %s", ErrInvalidInput, f)
		}
	}
	if strings.TrimSpace(p.Columns.Question) == "" || strings.TrimSpace(p.Columns.Answer) == "" {
		return fmt.Errorf("%w: question and answer columns must be named", ErrInvalidInput)
	}
	return nil
}

func containsField(fields []Field, f Field) bool {
	for _, x := range fields {
		if x == f {
			return true
		}
	}
	return false
}

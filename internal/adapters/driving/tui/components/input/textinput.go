// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/styles"
)

// DefaultPlaceholder is shown in an empty, enabled input.
const DefaultPlaceholder = "Type keywords, separated by spaces"

// SearchInput wraps a bubbles textinput. A disabled input ignores key
// presses and shows its placeholder instead.
type SearchInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
	enabled   bool
}

// NewSearchInput creates a new, enabled search input.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = DefaultPlaceholder
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &SearchInput{
		textinput: ti,
		styles:    s,
		width:     50,
		enabled:   true,
	}
}

// Init initialises the search input.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages. Key presses are dropped while disabled.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok && !s.enabled {
		return s, nil
	}
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the search input.
func (s *SearchInput) View() string {
	label := s.styles.Title.Render("Search: ")
	input := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, input)
}

// Value returns the current input value.
func (s *SearchInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value.
func (s *SearchInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// Enable makes the input accept key presses again and restores the default placeholder.
func (s *SearchInput) Enable() tea.Cmd {
	s.enabled = true
	s.textinput.Placeholder = DefaultPlaceholder
	return s.textinput.Focus()
}

// Disable blurs the input and shows placeholder until Enable is called.
func (s *SearchInput) Disable(placeholder string) {
	s.enabled = false
	s.textinput.Placeholder = placeholder
	s.textinput.Blur()
}

// Enabled reports whether the input accepts key presses.
func (s *SearchInput) Enabled() bool {
	return s.enabled
}

// Placeholder returns the current placeholder text.
func (s *SearchInput) Placeholder() string {
	return s.textinput.Placeholder
}

// Focused returns whether the input is focused.
func (s *SearchInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the width of the input.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	// Account for label and padding
	inputWidth := width - 14
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.textinput.Width = inputWidth
}

// Width returns the current width.
func (s *SearchInput) Width() int {
	return s.width
}

// Reset clears the input.
func (s *SearchInput) Reset() {
	s.textinput.Reset()
}

// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kotae/internal/core/domain"
)

// ResultList displays matching records. Each record can be expanded to
// show its answer beneath the question.
type ResultList struct {
	records  []domain.Record
	expanded map[string]bool
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		expanded: make(map[string]bool),
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "ctrl+p":
			r.MoveUp()
		case "down", "ctrl+n":
			r.MoveDown()
		case "enter":
			r.ToggleSelected()
		}
	}
	return r, nil
}

// View renders the visible window of results.
func (r *ResultList) View() string {
	if len(r.records) == 0 {
		return ""
	}

	lines := make([]string, 0, len(r.records)+2)
	header := r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.records)))
	lines = append(lines, header, "")

	budget := r.height - 2
	if budget < 1 {
		budget = 1
	}

	start := r.windowStart(budget)
	used := 0
	for i := start; i < len(r.records); i++ {
		block := r.renderRecord(i, &r.records[i])
		h := lipgloss.Height(block)
		if used > 0 && used+h > budget {
			break
		}
		lines = append(lines, block)
		used += h
	}

	return strings.Join(lines, "\n")
}

// windowStart picks the first visible record so the selected one fits.
func (r *ResultList) windowStart(budget int) int {
	start := 0
	used := 0
	for i := r.selected; i >= 0; i-- {
		h := lipgloss.Height(r.renderRecord(i, &r.records[i]))
		if used > 0 && used+h > budget {
			break
		}
		used += h
		start = i
	}
	return start
}

func (r *ResultList) renderRecord(index int, rec *domain.Record) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	question := truncate(rec.Question, r.width-20)
	var line string
	if index == r.selected {
		line = r.styles.Selected.Render(indicator + question)
	} else {
		line = r.styles.Normal.Render(indicator + question)
	}
	if rec.Category != "" {
		line += "  " + r.styles.Category.Render("["+rec.Category+"]")
	}

	if !r.expanded[rec.ID] {
		return line
	}

	answer := strings.Join(rec.AnswerLines(), "\n")
	if answer == "" {
		return line + "\n" + r.styles.Muted.Render("    (no answer)")
	}
	return line + "\n" + r.styles.Answer.Width(r.answerWidth()).Render(answer)
}

func (r *ResultList) answerWidth() int {
	w := r.width - 8
	if w < 20 {
		w = 20
	}
	return w
}

func truncate(s string, maxWidth int) string {
	if maxWidth < 10 {
		maxWidth = 10
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// SetRecords replaces the results. Expansion state is kept for records
// that are still present and the selection is reset.
func (r *ResultList) SetRecords(records []domain.Record) {
	keep := make(map[string]bool, len(r.expanded))
	for i := range records {
		if r.expanded[records[i].ID] {
			keep[records[i].ID] = true
		}
	}
	r.records = records
	r.expanded = keep
	r.selected = 0
}

// Records returns the current results.
func (r *ResultList) Records() []domain.Record {
	return r.records
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.records) {
		r.selected = index
	}
}

// SelectedRecord returns the currently selected record, or nil if none.
func (r *ResultList) SelectedRecord() *domain.Record {
	if len(r.records) == 0 || r.selected < 0 || r.selected >= len(r.records) {
		return nil
	}
	return &r.records[r.selected]
}

// ToggleSelected shows or hides the answer of the selected record.
func (r *ResultList) ToggleSelected() {
	rec := r.SelectedRecord()
	if rec == nil {
		return
	}
	r.expanded[rec.ID] = !r.expanded[rec.ID]
}

// Expanded reports whether the record with id shows its answer.
func (r *ResultList) Expanded(id string) bool {
	return r.expanded[id]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.records)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.records)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.records) == 0
}

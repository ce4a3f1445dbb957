// Package search provides the search view for the TUI: a query input that
// filters on every keystroke, the matching questions, and a status bar.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/ports/driving"
)

// Texts shown in place of results.
const (
	PromptText    = "Type keywords to find questions. Every keyword must match."
	NoResultsText = "No matching questions."
	LoadingText   = "Loading…"
	NotReadyText  = "Not ready"
)

// View is the search view. The input stays inert until the dataset (and the
// tokenizer, when enabled) is ready.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService  driving.SearchService
	datasetService driving.DatasetService
	ctx            context.Context

	width       int
	height      int
	ready       bool
	searchReady bool
	failed      bool
	state       domain.QueryState
	err         error
}

// NewView creates a new search view. datasetService may be nil, which
// disables reloading.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	datasetService driving.DatasetService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	in := input.NewSearchInput(s)
	in.Disable(LoadingText)

	return &View{
		styles:         s,
		keymap:         km,
		input:          in,
		list:           list.NewResultList(s),
		statusbar:      status.NewBar(s, km),
		searchService:  searchService,
		datasetService: datasetService,
		ctx:            context.Background(),
		width:          80,
		height:         24,
		state:          domain.StateNoQuery,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// SetStatus applies a readiness snapshot. When searching becomes possible
// it returns a command that runs the current query.
func (v *View) SetStatus(st domain.Status) tea.Cmd {
	v.statusbar.SetRecordCount(st.Records)

	if st.Ready {
		v.failed = false
		if v.searchReady {
			return nil
		}
		v.searchReady = true
		v.statusbar.Clear()
		return tea.Batch(v.input.Enable(), v.performSearch(v.input.Value()))
	}

	v.searchReady = false
	if failure := failedStage(st); failure != "" {
		v.failed = true
		v.input.Disable(NotReadyText)
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(failure)
		return nil
	}

	v.failed = false
	v.input.Disable(LoadingText)
	v.statusbar.SetState(status.StateLoading)
	v.statusbar.SetMessage(pendingMessage(st))
	return nil
}

func failedStage(st domain.Status) string {
	for _, s := range st.Stages {
		if s.State == domain.StageFailed {
			return fmt.Sprintf("%s: %s", s.Stage, s.Error)
		}
	}
	return ""
}

func pendingMessage(st domain.Status) string {
	var pending []string
	for _, s := range st.Stages {
		if s.State == domain.StagePending {
			pending = append(pending, string(s.Stage))
		}
	}
	if len(pending) == 0 {
		return ""
	}
	return fmt.Sprintf("%s (%s)", LoadingText, strings.Join(pending, ", "))
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ReloadCompleted:
		return v, v.handleReloadCompleted(msg)

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	if keymap.Matches(keyStr, v.keymap.Reload) {
		return v, v.reload()
	}

	if !v.searchReady {
		return v, nil
	}

	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		v.list.MoveUp()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Down):
		v.list.MoveDown()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Toggle):
		v.list.ToggleSelected()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Clear):
		if v.input.Value() == "" {
			return v, nil
		}
		v.input.SetValue("")
		return v, v.performSearch("")
	}

	before := v.input.Value()
	v.input, _ = v.input.Update(msg)
	if after := v.input.Value(); after != before {
		return v, v.performSearch(after)
	}
	return v, nil
}

func (v *View) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		result, err := v.searchService.Search(v.ctx, query)
		return messages.SearchCompleted{Query: query, Result: result, Err: err}
	}
}

func (v *View) reload() tea.Cmd {
	if v.datasetService == nil {
		return func() tea.Msg {
			return messages.ErrorOccurred{Err: ErrNoDatasetService}
		}
	}
	v.statusbar.SetState(status.StateReloading)
	return func() tea.Msg {
		ds, err := v.datasetService.Load(v.ctx)
		return messages.ReloadCompleted{Dataset: ds, Err: err}
	}
}

// handleSearchCompleted applies a result unless the input has moved on.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Query != v.input.Value() {
		return
	}

	v.state = msg.Result.State
	if msg.Err != nil && !errors.Is(msg.Err, domain.ErrNotReady) {
		v.err = msg.Err
		v.list.SetRecords(nil)
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}
	v.err = nil

	switch msg.Result.State {
	case domain.StateMatched:
		v.list.SetRecords(msg.Result.Records)
		v.statusbar.SetState(status.StateResults)
		v.statusbar.SetMessage("")
		v.statusbar.SetResultCount(msg.Result.Count())
	case domain.StateNotReady:
		v.list.SetRecords(nil)
		v.statusbar.SetState(status.StateLoading)
	default:
		v.list.SetRecords(nil)
		v.statusbar.Clear()
	}
}

func (v *View) handleReloadCompleted(msg messages.ReloadCompleted) tea.Cmd {
	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage("reload: " + msg.Err.Error())
		return nil
	}
	v.statusbar.SetRecordCount(msg.Dataset.Len())
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage(fmt.Sprintf("Reloaded %d questions", msg.Dataset.Len()))
	if !v.searchReady {
		return nil
	}
	return v.performSearch(v.input.Value())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("kotae"), "", v.input.View(), "")

	switch {
	case !v.searchReady && v.failed:
		sections = append(sections, v.styles.Error.Render(NotReadyText+". Press ctrl+r to retry."))
	case !v.searchReady:
		sections = append(sections, v.styles.Warning.Render(LoadingText))
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	case v.state == domain.StateMatched && v.list.IsEmpty():
		sections = append(sections, v.styles.Muted.Render(NoResultsText))
	case v.state == domain.StateMatched:
		sections = append(sections, v.list.View())
	default:
		sections = append(sections, v.styles.Prompt.Render(PromptText))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-9) // header, input box, status
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view has dimensions.
func (v *View) Ready() bool {
	return v.ready
}

// SearchReady reports whether the input accepts queries.
func (v *View) SearchReady() bool {
	return v.searchReady
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query without running it.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// State returns the state of the last applied result.
func (v *View) State() domain.QueryState {
	return v.state
}

// Results returns the records currently listed.
func (v *View) Results() []domain.Record {
	return v.list.Records()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SelectedRecord returns the currently selected record.
func (v *View) SelectedRecord() *domain.Record {
	return v.list.SelectedRecord()
}

// Expanded reports whether the record with id shows its answer.
func (v *View) Expanded(id string) bool {
	return v.list.Expanded(id)
}

// StatusState returns the status bar state.
func (v *View) StatusState() status.State {
	return v.statusbar.State()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

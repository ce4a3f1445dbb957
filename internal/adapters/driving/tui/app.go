package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/kotae/internal/core/domain"
)

// StatusPollInterval is how often readiness is polled while loading.
const StatusPollInterval = 200 * time.Millisecond

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	searchView *search.View

	status domain.Status
	err    error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		searchView: search.NewView(s, km, ports.Search, ports.Dataset),
	}, nil
}

// WithContext sets the context for the app and its view.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("kotae"),
		a.searchView.Init(),
		a.pollStatus(),
	)
}

func (a *App) pollStatus() tea.Cmd {
	return func() tea.Msg {
		return messages.StatusUpdated{Status: a.ports.Dataset.Status()}
	}
}

func scheduleStatusTick() tea.Cmd {
	return tea.Tick(StatusPollInterval, func(time.Time) tea.Msg {
		return messages.StatusTick{}
	})
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}

	case messages.StatusTick:
		return a, a.pollStatus()

	case messages.StatusUpdated:
		a.status = msg.Status
		cmd = a.searchView.SetStatus(msg.Status)
		if !msg.Status.Ready && !hasFailedStage(msg.Status) {
			return a, tea.Batch(cmd, scheduleStatusTick())
		}
		return a, cmd

	case messages.ReloadCompleted:
		a.err = msg.Err
		a.searchView, cmd = a.searchView.Update(msg)
		return a, tea.Batch(cmd, a.pollStatus())

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.Quit:
		return a, tea.Quit
	}

	a.searchView, cmd = a.searchView.Update(msg)
	return a, cmd
}

func hasFailedStage(st domain.Status) bool {
	for _, s := range st.Stages {
		if s.State == domain.StageFailed {
			return true
		}
	}
	return false
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	return a.searchView.View()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Results returns the records currently listed.
func (a *App) Results() []domain.Record {
	return a.searchView.Results()
}

// SearchReady reports whether queries are accepted.
func (a *App) SearchReady() bool {
	return a.searchView.SearchReady()
}

// Status returns the last readiness snapshot.
func (a *App) Status() domain.Status {
	return a.status
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
}

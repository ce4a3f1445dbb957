package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kotae/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kotae/internal/core/domain"
)

// MockSearchService filters testRecords by substring and records every query.
type MockSearchService struct {
	Queries []string
	Err     error
}

func (m *MockSearchService) Search(_ context.Context, query string) (domain.QueryResult, error) {
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return domain.QueryResult{State: domain.StateNotReady, Query: query}, m.Err
	}
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return domain.QueryResult{State: domain.StateNoQuery, Query: query}, nil
	}
	out := []domain.Record{}
	for _, r := range testRecords() {
		all := true
		for _, t := range terms {
			if !strings.Contains(r.Question+" "+r.Answer, t) {
				all = false
				break
			}
		}
		if all {
			out = append(out, r)
		}
	}
	return domain.QueryResult{State: domain.StateMatched, Query: query, Terms: terms, Records: out}, nil
}

// MockDatasetService returns a fixed dataset from Load.
type MockDatasetService struct {
	Dataset *domain.Dataset
	Err     error
	Loads   int
}

func (m *MockDatasetService) Load(_ context.Context) (*domain.Dataset, error) {
	m.Loads++
	return m.Dataset, m.Err
}

func (m *MockDatasetService) Current() *domain.Dataset { return m.Dataset }

func (m *MockDatasetService) Status() domain.Status { return domain.Status{Ready: true} }

func testRecords() []domain.Record {
	return []domain.Record{
		{ID: "r1", Question: "体重の目安は?", Answer: "標準体重を参考に\n無理のない範囲で", Category: "health"},
		{ID: "r2", Question: "カロリー計算方法", Answer: "TDEEを使います", Category: "diet"},
	}
}

func readyStatus() domain.Status {
	return domain.Status{
		Ready:   true,
		Records: 2,
		Stages:  []domain.StageStatus{{Stage: domain.StageDataset, State: domain.StageReady}},
	}
}

func newReadyView(t *testing.T) (*View, *MockSearchService) {
	t.Helper()
	svc := &MockSearchService{}
	v := NewView(styles.DefaultStyles(), keymap.DefaultKeyMap(), svc, &MockDatasetService{})
	v.SetDimensions(100, 30)
	v.SetStatus(readyStatus())
	require.True(t, v.SearchReady())
	return v, svc
}

// typeText sends each rune as a key press and applies the resulting search.
func typeText(v *View, text string) {
	for _, r := range text {
		_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		if cmd != nil {
			v.Update(cmd())
		}
	}
}

func press(v *View, keyType tea.KeyType) tea.Cmd {
	_, cmd := v.Update(tea.KeyMsg{Type: keyType})
	return cmd
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, &MockSearchService{}, nil)

	require.NotNil(t, v)
	assert.False(t, v.Ready())
	assert.False(t, v.SearchReady())
	assert.Equal(t, domain.StateNoQuery, v.State())
	assert.Equal(t, "Initialising...", v.View())
	assert.NotNil(t, v.Init())
}

func TestView_InertUntilReady(t *testing.T) {
	svc := &MockSearchService{}
	v := NewView(nil, nil, svc, nil)
	v.SetDimensions(100, 30)

	v.SetStatus(domain.Status{Stages: []domain.StageStatus{
		{Stage: domain.StageTokenizer, State: domain.StagePending},
		{Stage: domain.StageDataset, State: domain.StageReady},
	}})
	typeText(v, "abc")

	assert.Equal(t, "", v.Query())
	assert.Empty(t, svc.Queries)
	assert.Equal(t, status.StateLoading, v.StatusState())
	view := v.View()
	assert.Contains(t, view, LoadingText)
	assert.Contains(t, view, "tokenizer")
}

func TestView_NotReadyOnFailure(t *testing.T) {
	v := NewView(nil, nil, &MockSearchService{}, nil)
	v.SetDimensions(120, 30)

	cmd := v.SetStatus(domain.Status{Stages: []domain.StageStatus{
		{Stage: domain.StageDataset, State: domain.StageFailed, Error: "missing column"},
	}})

	assert.Nil(t, cmd)
	assert.False(t, v.SearchReady())
	assert.Equal(t, status.StateError, v.StatusState())
	view := v.View()
	assert.Contains(t, view, NotReadyText)
	assert.Contains(t, view, "missing column")
}

func TestView_SetStatus_ReadyOnce(t *testing.T) {
	v := NewView(nil, nil, &MockSearchService{}, nil)

	assert.NotNil(t, v.SetStatus(readyStatus()))
	assert.Nil(t, v.SetStatus(readyStatus()))
	assert.True(t, v.SearchReady())
}

func TestView_PromptBeforeQuery(t *testing.T) {
	v, _ := newReadyView(t)

	assert.Contains(t, v.View(), PromptText)
}

func TestView_SearchesOnEveryKeystroke(t *testing.T) {
	v, svc := newReadyView(t)

	typeText(v, "体重")

	assert.Equal(t, []string{"体", "体重"}, svc.Queries)
	assert.Equal(t, domain.StateMatched, v.State())
	require.Len(t, v.Results(), 1)
	assert.Equal(t, "r1", v.Results()[0].ID)
	assert.Contains(t, v.View(), "体重の目安は?")
}

func TestView_NarrowsWithMoreTerms(t *testing.T) {
	v, _ := newReadyView(t)

	typeText(v, "の")
	assert.Len(t, v.Results(), 1)

	typeText(v, " TDEE")
	assert.Empty(t, v.Results())
	assert.Contains(t, v.View(), NoResultsText)
}

func TestView_Backspace(t *testing.T) {
	v, svc := newReadyView(t)
	typeText(v, "zz")
	require.Empty(t, v.Results())

	cmd := press(v, tea.KeyBackspace)
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Equal(t, "z", v.Query())
	assert.Equal(t, "z", svc.Queries[len(svc.Queries)-1])
}

func TestView_StaleResultIgnored(t *testing.T) {
	v, _ := newReadyView(t)
	typeText(v, "体重")

	v.Update(messages.SearchCompleted{
		Query:  "体",
		Result: domain.QueryResult{State: domain.StateMatched},
	})

	assert.Len(t, v.Results(), 1)
}

func TestView_ClearReturnsToPrompt(t *testing.T) {
	v, _ := newReadyView(t)
	typeText(v, "体重")

	cmd := press(v, tea.KeyEsc)
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Equal(t, "", v.Query())
	assert.Equal(t, domain.StateNoQuery, v.State())
	assert.Empty(t, v.Results())
	assert.Contains(t, v.View(), PromptText)

	assert.Nil(t, press(v, tea.KeyEsc))
}

func TestView_EnterTogglesAnswer(t *testing.T) {
	v, _ := newReadyView(t)
	typeText(v, "体重")

	assert.Nil(t, press(v, tea.KeyEnter))
	assert.True(t, v.Expanded("r1"))

	view := v.View()
	assert.Contains(t, view, "標準体重を参考に")
	assert.Contains(t, view, "無理のない範囲で")

	press(v, tea.KeyEnter)
	assert.False(t, v.Expanded("r1"))
	assert.NotContains(t, v.View(), "無理のない範囲で")
}

func TestView_Navigation(t *testing.T) {
	svc := &MockSearchService{}
	v := NewView(nil, nil, svc, nil)
	v.SetDimensions(100, 30)
	v.SetStatus(readyStatus())
	v.Update(messages.SearchCompleted{
		Query:  "",
		Result: domain.QueryResult{State: domain.StateMatched, Records: testRecords()},
	})

	press(v, tea.KeyDown)
	assert.Equal(t, 1, v.SelectedIndex())
	assert.Equal(t, "r2", v.SelectedRecord().ID)

	press(v, tea.KeyUp)
	assert.Equal(t, 0, v.SelectedIndex())
}

func TestView_SearchError(t *testing.T) {
	v := NewView(nil, nil, &MockSearchService{Err: errors.New("tokenizer initialisation failed")}, nil)
	v.SetDimensions(120, 30)
	v.SetStatus(readyStatus())

	typeText(v, "a")

	require.Error(t, v.Err())
	assert.Equal(t, status.StateError, v.StatusState())
	assert.Contains(t, v.View(), "tokenizer initialisation failed")
}

func TestView_SearchNotReadyKeepsLoading(t *testing.T) {
	v := NewView(nil, nil, &MockSearchService{Err: domain.ErrNotReady}, nil)
	v.SetDimensions(120, 30)
	v.SetStatus(readyStatus())

	typeText(v, "a")

	assert.NoError(t, v.Err())
	assert.Equal(t, status.StateLoading, v.StatusState())
}

func TestView_Reload(t *testing.T) {
	ds := &MockDatasetService{Dataset: &domain.Dataset{Records: testRecords()}}
	svc := &MockSearchService{}
	v := NewView(nil, nil, svc, ds)
	v.SetDimensions(120, 30)
	v.SetStatus(readyStatus())
	typeText(v, "体重")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	assert.Equal(t, status.StateReloading, v.StatusState())

	msg := cmd()
	require.IsType(t, messages.ReloadCompleted{}, msg)
	assert.Equal(t, 1, ds.Loads)

	_, cmd = v.Update(msg)
	require.NotNil(t, cmd)
	v.Update(cmd())
	assert.Equal(t, "体重", svc.Queries[len(svc.Queries)-1])
}

func TestView_ReloadFailure(t *testing.T) {
	ds := &MockDatasetService{Err: domain.ErrLoadFailed}
	v := NewView(nil, nil, &MockSearchService{}, ds)
	v.SetDimensions(120, 30)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	_, next := v.Update(cmd())

	assert.Nil(t, next)
	assert.Equal(t, status.StateError, v.StatusState())
}

func TestView_ReloadWithoutService(t *testing.T) {
	v := NewView(nil, nil, &MockSearchService{}, nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)

	msg, ok := cmd().(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, ErrNoDatasetService)
}

func TestView_NoSearchService(t *testing.T) {
	v := NewView(nil, nil, nil, nil)
	v.SetStatus(readyStatus())

	msg := v.performSearch("x")()

	errMsg, ok := msg.(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, errMsg.Err, ErrNoSearchService)
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil, nil, &MockSearchService{}, nil)

	v.Update(tea.WindowSizeMsg{Width: 90, Height: 40})

	assert.True(t, v.Ready())
	assert.Equal(t, 90, v.Width())
	assert.Equal(t, 40, v.Height())
}

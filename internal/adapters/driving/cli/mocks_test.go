package cli

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/kotae/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/services"
)

// mapEnv implements driven.Environment over a map.
type mapEnv map[string]string

func (e mapEnv) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// mockSearchService filters records by plain substring matching.
type mockSearchService struct {
	mu      sync.Mutex
	records []domain.Record
	queries []string
	err     error
}

func (m *mockSearchService) Search(_ context.Context, query string) (domain.QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.err != nil {
		return domain.QueryResult{State: domain.StateNotReady, Query: query}, m.err
	}

	terms := strings.Fields(query)
	if len(terms) == 0 {
		return domain.QueryResult{State: domain.StateNoQuery, Query: query}, nil
	}
	matched := []domain.Record{}
	for _, r := range m.records {
		text := r.Question + " " + r.Answer
		all := true
		for _, t := range terms {
			if !strings.Contains(text, t) {
				all = false
				break
			}
		}
		if all {
			matched = append(matched, r)
		}
	}
	return domain.QueryResult{State: domain.StateMatched, Query: query, Terms: terms, Records: matched, Version: 1}, nil
}

func (m *mockSearchService) lastQuery() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queries) == 0 {
		return ""
	}
	return m.queries[len(m.queries)-1]
}

// mockDatasetService returns a fixed dataset or error.
type mockDatasetService struct {
	mu      sync.Mutex
	dataset *domain.Dataset
	err     error
	loads   int
}

func (m *mockDatasetService) Load(_ context.Context) (*domain.Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.err != nil {
		return nil, m.err
	}
	return m.dataset, nil
}

func (m *mockDatasetService) Current() *domain.Dataset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dataset
}

func (m *mockDatasetService) Status() domain.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.Status{Ready: m.dataset != nil, Records: m.dataset.Len()}
}

func (m *mockDatasetService) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

func sampleRecords() []domain.Record {
	return []domain.Record{
		{ID: "r1", Question: "体重の目安は?", Answer: "標準体重を参考にします。\n無理のない範囲で。", Category: "health"},
		{ID: "r2", Question: "体重を減らすには", Answer: "食事と運動を見直します。", Category: "diet"},
		{ID: "r3", Question: "TDEEとは", Answer: "1日の総消費カロリーです。", Category: "diet"},
	}
}

func sampleDataset() *domain.Dataset {
	return &domain.Dataset{Version: 1, Source: "faq.csv", Records: sampleRecords()}
}

// testRuntime is a runtime backed by mocks.
type testRuntime struct {
	*Runtime
	search  *mockSearchService
	dataset *mockDatasetService
}

func newTestRuntime(settings *domain.Settings) testRuntime {
	search := &mockSearchService{records: sampleRecords()}
	dataset := &mockDatasetService{dataset: sampleDataset()}
	return testRuntime{
		Runtime: &Runtime{Settings: settings, Search: search, Dataset: dataset, gate: services.NewReadinessGate()},
		search:  search,
		dataset: dataset,
	}
}

// setupTestServices installs an in-memory config store and a mock runtime.
// The returned function restores the previous state and resets flags.
func setupTestServices() (testRuntime, func()) {
	prevSettings, prevStore, prevRuntime, prevBuild := settingsService, configStore, appRuntime, buildRuntime

	store := memory.NewConfigStore()
	_ = store.Set(services.KeySourceLocator, "faq.csv")
	settingsService = services.NewSettingsService(store, mapEnv{})
	configStore = store

	settings := domain.DefaultSettings()
	settings.Source.Locator = "faq.csv"
	rt := newTestRuntime(&settings)
	appRuntime = rt.Runtime

	return rt, func() {
		settingsService, configStore, appRuntime, buildRuntime = prevSettings, prevStore, prevRuntime, prevBuild
		resetFlags()
		rootCmd.SetArgs(nil)
	}
}

// resetFlags restores flag variables, which cobra keeps between executions.
func resetFlags() {
	configPath, envFiles, verbose = "", nil, false
	sourceFlag, categoryFlag, readingFlag, headerlessFlag = "", "", false, false
	searchLimit, searchOutput, serveAddr = 0, outputText, ""

	for _, name := range []string{"config", "verbose", "source", "category", "reading", "headerless"} {
		if f := rootCmd.PersistentFlags().Lookup(name); f != nil {
			f.Changed = false
		}
	}
	for _, name := range []string{"limit", "output"} {
		if f := searchCmd.Flags().Lookup(name); f != nil {
			f.Changed = false
		}
	}
	if f := serveCmd.Flags().Lookup("addr"); f != nil {
		f.Changed = false
	}
}

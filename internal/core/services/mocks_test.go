package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/ports/driven"
)

// --- Mock implementations for service testing ---

// mockFetcher serves a fixed body for any locator.
type mockFetcher struct {
	mu       sync.Mutex
	body     string
	err      error
	calls    int
	block    chan struct{}
	supports bool
}

func newMockFetcher(body string) *mockFetcher {
	return &mockFetcher{body: body, supports: true}
}

func (m *mockFetcher) Supports(_ string) bool {
	return m.supports
}

func (m *mockFetcher) Fetch(ctx context.Context, _ string) (io.ReadCloser, error) {
	m.mu.Lock()
	m.calls++
	body, err, block := m.body, m.err, m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (m *mockFetcher) setBody(body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.body = body
}

func (m *mockFetcher) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// lineParser splits on newlines and the delimiter with no quoting.
// Lines containing "!bad" become row errors.
type lineParser struct {
	err error
}

func (p *lineParser) Parse(r io.Reader, opts domain.ParseOptions) (*domain.Table, error) {
	if p.err != nil {
		return nil, p.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	delim := string(opts.Delimiter)
	if opts.Delimiter == 0 {
		delim = ","
	}

	table := &domain.Table{}
	first := !opts.Headerless
	for i, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, "!bad") {
			table.Errors = append(table.Errors, domain.RowError{Line: i + 1, Message: "bad row"})
			continue
		}
		fields := strings.Split(line, delim)
		if first {
			for j := range fields {
				fields[j] = strings.TrimSpace(fields[j])
			}
			table.Header = fields
			first = false
			continue
		}
		table.Rows = append(table.Rows, fields)
	}
	return table, nil
}

// mockRecordStore is a minimal versioned store.
type mockRecordStore struct {
	mu      sync.RWMutex
	current *domain.Dataset
	version uint64
}

func (m *mockRecordStore) Current() *domain.Dataset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *mockRecordStore) Replace(d *domain.Dataset) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.version++
	d.Version = m.version
	m.current = d
	return m.version
}

// readingTokenizer returns one token per input whose reading replaces
// known kanji words with katakana.
type readingTokenizer struct {
	readings *strings.Replacer
}

func newReadingTokenizer() *readingTokenizer {
	return &readingTokenizer{readings: strings.NewReplacer(
		"体重", "タイジュウ",
		"目安", "メヤス",
		"標準", "ヒョウジュン",
		"参考", "サンコウ",
		"計算", "ケイサン",
		"方法", "ホウホウ",
		"使", "ツカ",
	)}
}

func (t *readingTokenizer) Tokenize(text string) []domain.Token {
	return []domain.Token{{Surface: text, Reading: t.readings.Replace(text)}}
}

// mockTokenizerBuilder returns tok or err after an optional release signal.
type mockTokenizerBuilder struct {
	tok     driven.Tokenizer
	err     error
	release chan struct{}
}

func (b *mockTokenizerBuilder) Build(ctx context.Context) (driven.Tokenizer, error) {
	if b.release != nil {
		select {
		case <-b.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if b.err != nil {
		return nil, b.err
	}
	return b.tok, nil
}

// mockObserver records every notification.
type mockObserver struct {
	mu      sync.Mutex
	loads   []error
	records []int
	queries []domain.QueryState
}

func (o *mockObserver) RecordLoad(_ time.Duration, records int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loads = append(o.loads, err)
	o.records = append(o.records, records)
}

func (o *mockObserver) RecordQuery(state domain.QueryState, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.queries = append(o.queries, state)
}

// mockEnv is a map-backed Environment.
type mockEnv map[string]string

func (e mockEnv) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// mockWatcher calls onChange for every value sent on changes.
type mockWatcher struct {
	changes chan struct{}
	err     error
}

func (w *mockWatcher) Watch(ctx context.Context, _ string, onChange func()) error {
	if w.err != nil {
		return w.err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.changes:
			onChange()
		}
	}
}

// mockDatasetService counts loads for reloader tests.
type mockDatasetService struct {
	mu    sync.Mutex
	loads int
	err   error
	ch    chan struct{}
}

func newMockDatasetService() *mockDatasetService {
	return &mockDatasetService{ch: make(chan struct{}, 16)}
}

func (m *mockDatasetService) Load(_ context.Context) (*domain.Dataset, error) {
	m.mu.Lock()
	m.loads++
	err := m.err
	m.mu.Unlock()
	m.ch <- struct{}{}
	if err != nil {
		return nil, err
	}
	return &domain.Dataset{Version: 1}, nil
}

func (m *mockDatasetService) Current() *domain.Dataset { return nil }

func (m *mockDatasetService) Status() domain.Status { return domain.Status{} }

func (m *mockDatasetService) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

var errBoom = errors.New("boom")

// Sample data used across tests.
const (
	sampleCSV = "Question,Answer,Category\n" +
		"体重の目安は?,標準体重を参考に,health\n" +
		"カロリー計算方法,TDEEを使います,diet\n"

	noAnswerCSV = "Question,Category\n" +
		"体重の目安は?,health\n"
)

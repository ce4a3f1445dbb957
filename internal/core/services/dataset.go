package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/ports/driven"
	"github.com/custodia-labs/kotae/internal/core/ports/driving"
	"github.com/custodia-labs/kotae/internal/logger"
)

// Ensure DatasetService implements the interface.
var _ driving.DatasetService = (*DatasetService)(nil)

// recordNamespace scopes record IDs so they never collide with other UUIDv5 users.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/custodia-labs/kotae/record"))

// columnIndex holds resolved positions of the record fields. -1 means absent.
type columnIndex struct {
	question int
	answer   int
	category int
}

// DatasetService loads the dataset and publishes it to the record store.
type DatasetService struct {
	source     domain.SourceSettings
	parseOpts  domain.ParseOptions
	policy     domain.LoadPolicy
	fetcher    driven.Fetcher
	parser     driven.TableParser
	store      driven.RecordStore
	normaliser driven.TextNormaliser
	gate       *ReadinessGate
	tokens     *TokenizerStage
	observer   driven.Observer
	now        func() time.Time

	// loadMu serialises loads so overlapping reloads cannot interleave.
	loadMu sync.Mutex

	statusMu sync.RWMutex
	lastErr  error
}

// NewDatasetService creates a dataset service and registers the dataset
// stage with gate.
func NewDatasetService(
	settings *domain.Settings,
	fetcher driven.Fetcher,
	parser driven.TableParser,
	store driven.RecordStore,
	normaliser driven.TextNormaliser,
	gate *ReadinessGate,
) *DatasetService {
	gate.Register(domain.StageDataset)
	return &DatasetService{
		source:     settings.Source,
		parseOpts:  settings.ParseOptions(),
		policy:     settings.Policy,
		fetcher:    fetcher,
		parser:     parser,
		store:      store,
		normaliser: normaliser,
		gate:       gate,
		now:        time.Now,
	}
}

// SetTokenizerStage enables the reading path. Loads wait for the stage
// before transforming rows.
func (s *DatasetService) SetTokenizerStage(stage *TokenizerStage) {
	s.tokens = stage
}

// SetObserver sets the observer notified after every load.
func (s *DatasetService) SetObserver(o driven.Observer) {
	s.observer = o
}

// Start runs the first load in the background.
func (s *DatasetService) Start(ctx context.Context) {
	go func() {
		if _, err := s.Load(ctx); err != nil {
			logger.Error("initial load: %v", err)
		}
	}()
}

// Load fetches, validates and publishes a new dataset.
func (s *DatasetService) Load(ctx context.Context) (*domain.Dataset, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	logger.Section("Dataset Load")
	start := s.now()
	ds, err := s.load(ctx)
	if s.observer != nil {
		s.observer.RecordLoad(s.now().Sub(start), ds.Len(), err)
	}

	s.statusMu.Lock()
	s.lastErr = err
	s.statusMu.Unlock()

	if err != nil {
		logger.Warn("load failed: %v", err)
		if s.store.Current() == nil {
			s.gate.MarkFailed(domain.StageDataset, err)
		}
		return nil, err
	}

	s.gate.MarkReady(domain.StageDataset)
	return ds, nil
}

func (s *DatasetService) load(ctx context.Context) (*domain.Dataset, error) {
	locator := strings.TrimSpace(s.source.Locator)
	if locator == "" {
		return nil, domain.ErrNoSource
	}
	if err := s.policy.Validate(); err != nil {
		return nil, err
	}
	if !s.fetcher.Supports(locator) {
		return nil, &domain.LoadFailedError{Stage: domain.LoadStageFetch, Source: locator, Err: domain.ErrUnsupportedSource}
	}

	logger.Debug("Fetching %s", locator)
	rc, err := s.fetcher.Fetch(ctx, locator)
	if err != nil {
		return nil, &domain.LoadFailedError{Stage: domain.LoadStageFetch, Source: locator, Err: err}
	}
	defer rc.Close()

	table, err := s.parser.Parse(rc, s.parseOpts)
	if err != nil {
		return nil, &domain.LoadFailedError{Stage: domain.LoadStageParse, Source: locator, Err: err}
	}
	for _, rowErr := range table.Errors {
		logger.Warn("skipping %v", rowErr)
	}
	if len(table.Rows) == 0 && len(table.Errors) > 0 {
		return nil, &domain.LoadFailedError{Stage: domain.LoadStageParse, Source: locator, Err: table.Errors[0]}
	}
	logger.Debug("Parsed %d rows, header %q", len(table.Rows), table.Header)

	cols, err := s.resolveColumns(table)
	if err != nil {
		return nil, err
	}

	var tok driven.Tokenizer
	if s.tokens != nil {
		logger.Debug("Waiting for tokenizer")
		if err := s.gate.Wait(ctx, domain.StageTokenizer); err != nil {
			return nil, err
		}
		tok = s.tokens.Tokenizer()
	}

	records, skipped := s.buildRecords(table.Rows, cols, tok)
	ds := &domain.Dataset{
		Source:   locator,
		Category: s.policy.Category,
		Records:  records,
		Skipped:  skipped,
		LoadedAt: s.now(),
	}
	version := s.store.Replace(ds)

	category := s.policy.Category
	if category == "" {
		category = "(all)"
	}
	logger.Info("loaded %d records for category %s (version %d, %d skipped)", len(records), category, version, skipped)
	return ds, nil
}

// resolveColumns validates the header against the policy.
func (s *DatasetService) resolveColumns(table *domain.Table) (columnIndex, error) {
	if s.policy.Headerless {
		return columnIndex{question: 0, answer: 1, category: -1}, nil
	}

	var missing []string
	for _, name := range s.policy.RequiredColumns() {
		if table.ColumnIndex(name) < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return columnIndex{}, &domain.MissingColumnError{
			Missing: missing,
			Found:   append([]string(nil), table.Header...),
		}
	}

	return columnIndex{
		question: table.ColumnIndex(s.policy.Column(domain.FieldQuestion)),
		answer:   table.ColumnIndex(s.policy.Column(domain.FieldAnswer)),
		category: table.ColumnIndex(s.policy.Column(domain.FieldCategory)),
	}, nil
}

// buildRecords transforms, filters and narrows rows in source order.
func (s *DatasetService) buildRecords(rows [][]string, cols columnIndex, tok driven.Tokenizer) ([]domain.Record, int) {
	records := make([]domain.Record, 0, len(rows))
	seen := make(map[string]int, len(rows))
	skipped := 0

	for _, row := range rows {
		question := strings.TrimSpace(domain.Cell(row, cols.question))
		answer := strings.TrimSpace(domain.Cell(row, cols.answer))
		category := strings.TrimSpace(domain.Cell(row, cols.category))

		if !s.keep(question, answer, category) {
			skipped++
			continue
		}

		text := question + " " + answer
		rec := domain.Record{
			ID:             s.recordID(seen, question, answer, category),
			Question:       question,
			Answer:         answer,
			Category:       category,
			NormalizedText: s.normaliser.Normalise(text),
		}
		if tok != nil {
			rec.ReadingText = s.normaliser.Reading(tok.Tokenize(text))
		}
		records = append(records, rec)
	}
	return records, skipped
}

func (s *DatasetService) keep(question, answer, category string) bool {
	if question == "" {
		return false
	}
	if answer == "" && s.policy.MustBeNonEmpty(domain.FieldAnswer) {
		return false
	}
	if category == "" && s.policy.MustBeNonEmpty(domain.FieldCategory) {
		return false
	}
	return s.policy.Category == "" || category == s.policy.Category
}

// recordID derives a stable ID from row content. Repeated rows get an
// occurrence suffix so IDs stay unique within a dataset.
func (s *DatasetService) recordID(seen map[string]int, question, answer, category string) string {
	key := question + "\x1f" + answer + "\x1f" + category
	n := seen[key]
	seen[key] = n + 1
	if n > 0 {
		key = fmt.Sprintf("%s\x1f%d", key, n)
	}
	return uuid.NewSHA1(recordNamespace, []byte(key)).String()
}

// Current returns the published dataset.
func (s *DatasetService) Current() *domain.Dataset {
	return s.store.Current()
}

// Status reports readiness and dataset details.
func (s *DatasetService) Status() domain.Status {
	ready, _ := s.gate.Ready()
	st := domain.Status{
		Ready:  ready,
		Stages: s.gate.Snapshot(),
	}
	if ds := s.store.Current(); ds != nil {
		st.Version = ds.Version
		st.Records = ds.Len()
		st.Source = ds.Source
		st.Category = ds.Category
		st.LoadedAt = ds.LoadedAt
	}

	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	if s.lastErr != nil && !errors.Is(s.lastErr, context.Canceled) {
		st.LastError = s.lastErr.Error()
	}
	return st
}

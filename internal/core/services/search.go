package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/ports/driven"
	"github.com/custodia-labs/kotae/internal/core/ports/driving"
	"github.com/custodia-labs/kotae/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService filters the current dataset by AND keyword matching.
type SearchService struct {
	store      driven.RecordStore
	normaliser driven.TextNormaliser
	gate       *ReadinessGate
	observer   driven.Observer
}

// NewSearchService creates a new search service.
func NewSearchService(store driven.RecordStore, normaliser driven.TextNormaliser, gate *ReadinessGate) *SearchService {
	return &SearchService{
		store:      store,
		normaliser: normaliser,
		gate:       gate,
	}
}

// SetObserver sets the observer notified after every query.
func (s *SearchService) SetObserver(o driven.Observer) {
	s.observer = o
}

// Search matches query against the current dataset.
func (s *SearchService) Search(ctx context.Context, query string) (domain.QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.QueryResult{Query: query, State: domain.StateNotReady}, err
	}

	result, err := s.search(query)
	if s.observer != nil {
		s.observer.RecordQuery(result.State, result.Count())
	}
	return result, err
}

func (s *SearchService) search(query string) (domain.QueryResult, error) {
	terms := Terms(query, s.normaliser)
	if len(terms) == 0 {
		return domain.QueryResult{Query: query, State: domain.StateNoQuery}, nil
	}

	ready, err := s.gate.Ready()
	ds := s.store.Current()
	if !ready || ds == nil {
		logger.Debug("Query %q before readiness", query)
		if err == nil {
			err = domain.ErrNotReady
		}
		return domain.QueryResult{Query: query, Terms: terms, State: domain.StateNotReady}, err
	}

	records := Match(ds.Records, terms)
	logger.Debug("Query %q terms=%q matched %d of %d (version %d)", query, terms, len(records), ds.Len(), ds.Version)
	return domain.QueryResult{
		State:   domain.StateMatched,
		Query:   query,
		Terms:   terms,
		Records: records,
		Version: ds.Version,
	}, nil
}

// Terms splits query on runs of whitespace and normalises each piece.
// A blank query yields no terms.
func Terms(query string, n driven.TextNormaliser) []string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return nil
	}
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := n.Normalise(f); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// Match returns the records containing every term, in their original order.
// A term matches the normalised text or, when present, the reading text.
func Match(records []domain.Record, terms []string) []domain.Record {
	out := make([]domain.Record, 0)
	for i := range records {
		if matchesAll(&records[i], terms) {
			out = append(out, records[i])
		}
	}
	return out
}

func matchesAll(r *domain.Record, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(r.NormalizedText, t) {
			continue
		}
		if r.ReadingText != "" && strings.Contains(r.ReadingText, t) {
			continue
		}
		return false
	}
	return true
}

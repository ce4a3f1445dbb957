package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/custodia-labs/kotae/internal/adapters/driven/metrics/prom"
	"github.com/custodia-labs/kotae/internal/adapters/driven/source"
	"github.com/custodia-labs/kotae/internal/adapters/driven/source/filesource"
	"github.com/custodia-labs/kotae/internal/adapters/driven/source/httpsource"
	"github.com/custodia-labs/kotae/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kotae/internal/adapters/driven/table/csvtable"
	"github.com/custodia-labs/kotae/internal/adapters/driven/tokenizer/kagome"
	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/ports/driven"
	"github.com/custodia-labs/kotae/internal/core/ports/driving"
	"github.com/custodia-labs/kotae/internal/core/services"
	"github.com/custodia-labs/kotae/internal/normalisers/kana"
)

// starter is a background initialisation step.
type starter interface {
	Start(ctx context.Context)
}

// Runtime holds the wired services shared by every command.
type Runtime struct {
	Settings *domain.Settings
	Search   driving.SearchService
	Dataset  driving.DatasetService

	// Watcher reports changes to local sources. Nil when unsupported.
	Watcher driven.Watcher

	// Registry backs /metrics.
	Registry *prometheus.Registry

	// starters run in order on Start.
	starters []starter

	gate *services.ReadinessGate
}

// NewRuntime wires adapters and services for settings.
func NewRuntime(settings *domain.Settings) (*Runtime, error) {
	files := filesource.New()
	fetcher := source.NewRouter(
		httpsource.New(httpsource.Config{
			CacheBust:     settings.Source.CacheBust,
			RatePerSecond: settings.Source.RatePerSecond,
			Timeout:       settings.Source.Timeout,
		}),
		files,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	observer, err := prom.NewObserver(prom.DefaultNamespace, registry)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	store := memory.NewRecordStore()
	normaliser := kana.New(kana.WithWidthFold(settings.FoldWidth))
	gate := services.NewReadinessGate()

	rt := &Runtime{
		Settings: settings,
		Watcher:  files,
		Registry: registry,
		gate:     gate,
	}

	var tokens *services.TokenizerStage
	if settings.Reading.Enabled {
		tokens = services.NewTokenizerStage(kagome.NewBuilder(settings.Reading.CacheSize), gate)
		rt.starters = append(rt.starters, tokens)
	}

	dataset := services.NewDatasetService(settings, fetcher, csvtable.New(), store, normaliser, gate)
	dataset.SetObserver(observer)
	if tokens != nil {
		dataset.SetTokenizerStage(tokens)
	}
	rt.starters = append(rt.starters, dataset)

	search := services.NewSearchService(store, normaliser, gate)
	search.SetObserver(observer)

	rt.Dataset = dataset
	rt.Search = search
	return rt, nil
}

// Start runs initialisation in the background. The dataset stage becomes
// ready once the first load succeeds.
func (r *Runtime) Start(ctx context.Context) {
	for _, s := range r.starters {
		s.Start(ctx)
	}
}

// LoadNow starts the tokenizer, if any, loads the dataset synchronously and
// returns once every stage is ready.
func (r *Runtime) LoadNow(ctx context.Context) (*domain.Dataset, error) {
	for _, s := range r.starters {
		if _, ok := s.(*services.TokenizerStage); ok {
			s.Start(ctx)
		}
	}
	ds, err := r.Dataset.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.WaitReady(ctx); err != nil {
		return nil, err
	}
	return ds, nil
}

// WaitReady blocks until every stage is ready, a stage fails, or ctx is done.
func (r *Runtime) WaitReady(ctx context.Context) error {
	return r.gate.WaitReady(ctx)
}

// Package prom exports load and query metrics to Prometheus.
package prom

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/ports/driven"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "kotae"

// Load results used as label values.
const (
	resultSuccess = "success"
	resultFailure = "failure"
)

var _ driven.Observer = (*Observer)(nil)

// Observer records dataset loads and queries.
type Observer struct {
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	records      prometheus.Gauge
	queries      *prometheus.CounterVec
	matches      prometheus.Histogram
}

// NewObserver creates the collectors and registers them with reg.
// Collectors already registered under the same name are reused.
func NewObserver(namespace string, reg prometheus.Registerer) (*Observer, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	o := &Observer{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by result.",
		}, []string{"result"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time taken to fetch, parse and publish a dataset.",
			Buckets:   prometheus.DefBuckets,
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Records in the most recently published dataset.",
		}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Queries by outcome state.",
		}, []string{"state"}),
		matches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_matches",
			Help:      "Matching records per executed query.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),
	}

	var err error
	if o.loads, err = register(reg, o.loads); err != nil {
		return nil, err
	}
	if o.loadDuration, err = register(reg, o.loadDuration); err != nil {
		return nil, err
	}
	if o.records, err = register(reg, o.records); err != nil {
		return nil, err
	}
	if o.queries, err = register(reg, o.queries); err != nil {
		return nil, err
	}
	if o.matches, err = register(reg, o.matches); err != nil {
		return nil, err
	}
	return o, nil
}

// register registers c, returning the existing collector when one with the
// same descriptor is already present.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, fmt.Errorf("register collector: %w", err)
}

// RecordLoad records one load attempt. The record gauge only moves on success.
func (o *Observer) RecordLoad(elapsed time.Duration, records int, err error) {
	if o == nil {
		return
	}
	o.loadDuration.Observe(elapsed.Seconds())
	if err != nil {
		o.loads.WithLabelValues(resultFailure).Inc()
		return
	}
	o.loads.WithLabelValues(resultSuccess).Inc()
	o.records.Set(float64(records))
}

// RecordQuery records one query outcome.
func (o *Observer) RecordQuery(state domain.QueryState, matches int) {
	if o == nil {
		return
	}
	o.queries.WithLabelValues(string(state)).Inc()
	if state == domain.StateMatched {
		o.matches.Observe(float64(matches))
	}
}

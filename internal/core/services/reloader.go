package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/kotae/internal/core/ports/driven"
	"github.com/custodia-labs/kotae/internal/core/ports/driving"
	"github.com/custodia-labs/kotae/internal/logger"
)

// Ensure Reloader implements the interface.
var _ driving.Reloader = (*Reloader)(nil)

// Reloader re-runs dataset loads on an interval and when the source changes.
// Triggers that arrive while a reload is running coalesce into one.
type Reloader struct {
	datasets driving.DatasetService
	interval time.Duration
	watcher  driven.Watcher
	locator  string

	trigger chan struct{}

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewReloader creates a reloader. A zero interval disables periodic reloads.
func NewReloader(datasets driving.DatasetService, interval time.Duration) *Reloader {
	return &Reloader{
		datasets: datasets,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// SetWatcher reloads whenever watcher reports a change to locator.
func (r *Reloader) SetWatcher(w driven.Watcher, locator string) {
	r.watcher = w
	r.locator = locator
}

// Trigger requests a reload. It never blocks.
func (r *Reloader) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Start begins the reload loop. This method blocks until Stop is called
// or ctx is cancelled.
func (r *Reloader) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil // Already running
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.done = make(chan struct{})
	stopCh, done := r.stopCh, r.done
	r.mu.Unlock()

	watchCtx, cancel := context.WithCancel(ctx)
	if r.watcher != nil {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			err := r.watcher.Watch(watchCtx, r.locator, r.Trigger)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("reloader: watch %s: %v", r.locator, err)
			}
		}()
	}

	err := r.run(ctx, stopCh)
	cancel()
	r.wg.Wait()

	r.mu.Lock()
	if r.done == done {
		r.running = false
	}
	r.mu.Unlock()
	close(done)
	return err
}

// Stop gracefully shuts down the loop and waits for an in-flight reload.
func (r *Reloader) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	close(r.stopCh)
	done := r.done
	r.mu.Unlock()

	<-done
	return nil
}

// run is the main reload loop.
func (r *Reloader) run(ctx context.Context, stopCh <-chan struct{}) error {
	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-tick:
			r.reload(ctx, "interval")
		case <-r.trigger:
			r.reload(ctx, "source changed")
		}
	}
}

func (r *Reloader) reload(ctx context.Context, reason string) {
	logger.Debug("reloader: reloading (%s)", reason)
	ds, err := r.datasets.Load(ctx)
	if err != nil {
		// The previous dataset stays published.
		logger.Error("reloader: %v", err)
		return
	}
	logger.Info("reloader: version %d with %d records", ds.Version, ds.Len())
}

package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/kotae/internal/core/domain"
)

type stageEntry struct {
	state domain.StageState
	err   error
}

// ReadinessGate tracks the asynchronous initialisation stages that must
// complete before searching is enabled.
type ReadinessGate struct {
	mu      sync.Mutex
	order   []domain.Stage
	stages  map[domain.Stage]*stageEntry
	changed chan struct{}
}

// NewReadinessGate creates a gate with the given stages registered.
func NewReadinessGate(stages ...domain.Stage) *ReadinessGate {
	g := &ReadinessGate{
		stages:  make(map[domain.Stage]*stageEntry),
		changed: make(chan struct{}),
	}
	for _, s := range stages {
		g.Register(s)
	}
	return g
}

// Register adds a pending stage. Registering a known stage is a no-op.
func (g *ReadinessGate) Register(stage domain.Stage) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.registerLocked(stage)
}

func (g *ReadinessGate) registerLocked(stage domain.Stage) *stageEntry {
	if e, ok := g.stages[stage]; ok {
		return e
	}
	e := &stageEntry{state: domain.StagePending}
	g.stages[stage] = e
	g.order = append(g.order, stage)
	return e
}

// MarkReady records that stage completed.
func (g *ReadinessGate) MarkReady(stage domain.Stage) {
	g.set(stage, domain.StageReady, nil)
}

// MarkFailed records that stage failed with err.
func (g *ReadinessGate) MarkFailed(stage domain.Stage, err error) {
	if err == nil {
		err = fmt.Errorf("stage %s failed", stage)
	}
	g.set(stage, domain.StageFailed, err)
}

func (g *ReadinessGate) set(stage domain.Stage, state domain.StageState, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e := g.registerLocked(stage)
	e.state = state
	e.err = err
	close(g.changed)
	g.changed = make(chan struct{})
}

// Ready reports whether every registered stage is ready. If a stage failed,
// its error is returned.
func (g *ReadinessGate) Ready() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ready := true
	for _, s := range g.order {
		e := g.stages[s]
		switch e.state {
		case domain.StageFailed:
			return false, e.err
		case domain.StagePending:
			ready = false
		}
	}
	return ready, nil
}

// Wait blocks until stage is ready or failed, or ctx is done.
// A failed stage returns its error.
func (g *ReadinessGate) Wait(ctx context.Context, stage domain.Stage) error {
	for {
		g.mu.Lock()
		e, ok := g.stages[stage]
		if !ok {
			g.mu.Unlock()
			return fmt.Errorf("%w: stage %s is not registered", domain.ErrInvalidInput, stage)
		}
		state, err, changed := e.state, e.err, g.changed
		g.mu.Unlock()

		switch state {
		case domain.StageReady:
			return nil
		case domain.StageFailed:
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

// WaitReady blocks until every stage is ready, any stage fails, or ctx is done.
func (g *ReadinessGate) WaitReady(ctx context.Context) error {
	for {
		g.mu.Lock()
		changed := g.changed
		g.mu.Unlock()

		ready, err := g.Ready()
		if err != nil {
			return err
		}
		if ready {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

// Snapshot returns the state of every stage in registration order.
func (g *ReadinessGate) Snapshot() []domain.StageStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.StageStatus, 0, len(g.order))
	for _, s := range g.order {
		e := g.stages[s]
		st := domain.StageStatus{Stage: s, State: e.state}
		if e.err != nil {
			st.Error = e.err.Error()
		}
		out = append(out, st)
	}
	return out
}

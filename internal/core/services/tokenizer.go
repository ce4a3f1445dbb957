package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/ports/driven"
	"github.com/custodia-labs/kotae/internal/logger"
)

// TokenizerStage builds the reading dictionary in the background and
// reports the outcome to the readiness gate.
type TokenizerStage struct {
	builder driven.TokenizerBuilder
	gate    *ReadinessGate

	once sync.Once
	mu   sync.RWMutex
	tok  driven.Tokenizer
}

// NewTokenizerStage creates the stage and registers it with gate.
func NewTokenizerStage(builder driven.TokenizerBuilder, gate *ReadinessGate) *TokenizerStage {
	gate.Register(domain.StageTokenizer)
	return &TokenizerStage{
		builder: builder,
		gate:    gate,
	}
}

// Start begins building. Further calls are no-ops.
func (s *TokenizerStage) Start(ctx context.Context) {
	s.once.Do(func() {
		go s.build(ctx)
	})
}

func (s *TokenizerStage) build(ctx context.Context) {
	start := time.Now()
	tok, err := s.builder.Build(ctx)
	if err == nil && tok == nil {
		err = fmt.Errorf("builder returned no tokenizer")
	}
	if err != nil {
		logger.Warn("tokenizer: %v", err)
		s.gate.MarkFailed(domain.StageTokenizer, fmt.Errorf("%w: %w", domain.ErrTokenizerInitFailed, err))
		return
	}

	s.mu.Lock()
	s.tok = tok
	s.mu.Unlock()

	logger.Debug("tokenizer ready in %s", time.Since(start).Round(time.Millisecond))
	s.gate.MarkReady(domain.StageTokenizer)
}

// Tokenizer returns the built tokenizer, or nil until the stage is ready.
func (s *TokenizerStage) Tokenizer() driven.Tokenizer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tok
}

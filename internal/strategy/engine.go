package strategy

import (
	"context"
	"sort"
	"sync"

	"github.com/newthinker/crossbt/internal/core"
	"go.uber.org/zap"
)

// Engine manages and runs strategies
type Engine struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	logger     *zap.Logger
}

// NewEngine creates a new strategy engine
func NewEngine(logger ...*zap.Logger) *Engine {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Engine{
		strategies: make(map[string]Strategy),
		logger:     l,
	}
}

// Register adds a strategy to the engine, replacing one with the same name
func (e *Engine) Register(s Strategy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.strategies[s.Name()] = s
}

// Get retrieves a strategy by name
func (e *Engine) Get(name string) (Strategy, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.strategies[name]
	return s, ok
}

// Names returns the registered strategy names in sorted order
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.strategies))
	for name := range e.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate runs the named strategies over prices in the order given.
// Unlike analysis over live data, a failing strategy aborts the whole run.
func (e *Engine) Generate(ctx context.Context, prices []float64, names ...string) ([]*Output, error) {
	outputs := make([]*Output, 0, len(names))

	for _, name := range names {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		s, ok := e.Get(name)
		if !ok {
			return nil, core.Errorf(core.ErrStrategyNotFound, "%s", name)
		}

		out, err := s.Generate(prices)
		if err != nil {
			e.logger.Warn("strategy generation failed",
				zap.String("strategy", name),
				zap.Error(err),
			)
			return nil, err
		}
		out.Strategy = name

		e.logger.Debug("strategy generated signals",
			zap.String("strategy", name),
			zap.Int("fast_len", len(out.Fast)),
			zap.Int("slow_len", len(out.Slow)),
			zap.Int("signals", len(out.Signals)),
		)
		outputs = append(outputs, out)
	}

	return outputs, nil
}

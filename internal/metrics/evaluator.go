package metrics

import (
	"context"
	"fmt"

	"munibond/internal/dataset"
	"munibond/internal/query"
)

// Evaluator computes a named metric against a snapshot. The in-memory
// evaluator below is the reference implementation; a relational or
// document-store evaluator satisfies the same interface and must pass
// the same property suite. The evaluator name participates in cache
// keys, so two backends never share memoized results.
type Evaluator interface {
	Name() string
	Evaluate(ctx context.Context, metric string, s *dataset.Snapshot) (*query.Table, error)
}

// MemoryEvaluator evaluates metrics directly over the snapshot's
// entity slices using the query package.
type MemoryEvaluator struct {
	registry *Registry
}

// NewMemoryEvaluator creates the in-memory evaluator over a registry.
func NewMemoryEvaluator(registry *Registry) *MemoryEvaluator {
	return &MemoryEvaluator{registry: registry}
}

// Name identifies this backend in cache keys.
func (e *MemoryEvaluator) Name() string {
	return "memory"
}

// Evaluate runs the named metric's pipeline. The pipeline itself is
// sequential and uninterruptible per the core contract; the context is
// only consulted before work starts.
func (e *MemoryEvaluator) Evaluate(ctx context.Context, metric string, s *dataset.Snapshot) (*query.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", metric, err)
	}
	def, err := e.registry.Get(metric)
	if err != nil {
		return nil, err
	}
	return def.Compute(s)
}

package chat

import (
	"context"
	"fmt"
	"sort"
)

// Result is the outcome of one pipeline run. It is constructed once per call
// and owned by the caller; nothing is persisted.
type Result struct {
	// Answer is the synthesized answer, citation suffix included when
	// retrieval produced sources.
	Answer string `json:"answer"`

	// DataPoints lists the retrieved passages as "source:content" lines, in
	// retrieval order.
	DataPoints []string `json:"data_points"`

	// Thoughts is the human-readable trace of the query and prompt used.
	Thoughts string `json:"thoughts"`
}

// Strategy is the contract for a retrieval pipeline. Implementations must be
// stateless across calls: every Run owns its intermediate state and safe
// concurrent use falls out of that.
type Strategy interface {
	Run(ctx context.Context, history History, overrides Overrides) (*Result, error)
}

// Registry dispatches strategy keys to registered implementations. It is
// populated at startup and read-only afterwards, so it needs no locking.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register adds a strategy under the given key, replacing any previous
// registration.
func (r *Registry) Register(key string, s Strategy) {
	r.strategies[key] = s
}

// Get returns the strategy registered under key, or ErrUnknownStrategy.
func (r *Registry) Get(key string) (Strategy, error) {
	s, ok := r.strategies[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, key)
	}
	return s, nil
}

// Keys returns the registered strategy keys, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.strategies))
	for k := range r.strategies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

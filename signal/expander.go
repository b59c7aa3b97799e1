// Copyright 2025 Venetia Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package signal

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/elonge/venetia-engine/ai"
	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/storage"
)

// Expander memoizes concept expansions. Concurrent requests for the same
// normalized term collapse into one generation call; completed expansions
// are cached in memory and, when a concept store is attached, persisted.
// Incomplete expansions are never cached anywhere.
type Expander struct {
	expander ai.ConceptExpander
	store    storage.ConceptStore
	logger   *slog.Logger

	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]*core.ConceptExpansion
}

// ExpanderOption configures an Expander.
type ExpanderOption func(*Expander) error

// WithConceptStore attaches a persistent expansion cache.
// Without one the cache is process-local.
func WithConceptStore(store storage.ConceptStore) ExpanderOption {
	return func(e *Expander) error {
		e.store = store
		return nil
	}
}

// WithExpanderLogger sets a custom logger.
// Default is slog.Default().
func WithExpanderLogger(logger *slog.Logger) ExpanderOption {
	return func(e *Expander) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewExpander creates a memoizing expander around the generation service.
func NewExpander(expander ai.ConceptExpander, opts ...ExpanderOption) (*Expander, error) {
	if expander == nil {
		return nil, ErrExpanderRequired
	}

	e := &Expander{
		expander: expander,
		logger:   slog.Default(),
		cache:    make(map[string]*core.ConceptExpansion),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Expand returns the expansion for a term, generating it at most once per
// normalized term regardless of concurrency.
func (e *Expander) Expand(ctx context.Context, term string) (*core.ConceptExpansion, error) {
	if err := core.ValidateTerm(term); err != nil {
		return nil, err
	}
	key := core.NormalizeTerm(term)

	e.mu.RLock()
	cached, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	result, err, _ := e.group.Do(key, func() (any, error) {
		return e.load(ctx, key, term)
	})
	if err != nil {
		return nil, err
	}
	return result.(*core.ConceptExpansion), nil
}

// load resolves an expansion from the persistent store or the generator.
// Only called under singleflight.
func (e *Expander) load(ctx context.Context, key, term string) (*core.ConceptExpansion, error) {
	// A racing caller may have completed between the caller's cache check and
	// this flight starting.
	e.mu.RLock()
	cached, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	if e.store != nil {
		expansion, err := e.store.GetExpansion(ctx, key)
		if err == nil {
			e.remember(key, expansion)
			return expansion, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	expansion, err := e.expander.ExpandConcept(ctx, term)
	if err != nil {
		return nil, err
	}
	if err := core.ValidateExpansion(expansion); err != nil {
		return nil, err
	}

	// The model may restate the term ("jealousy" -> "Jealousy (envy)").
	// Cache entries are keyed by the requested term, so pin it before
	// persisting or the entry becomes unreachable on the next lookup.
	expansion.Term = key

	if e.store != nil {
		if err := e.store.PutExpansion(ctx, expansion); err != nil {
			// Persisting is best-effort; the in-memory cache still holds it.
			e.logger.Warn("failed to persist expansion", "term", key, "err", err)
		}
	}
	e.remember(key, expansion)
	return expansion, nil
}

func (e *Expander) remember(key string, expansion *core.ConceptExpansion) {
	e.mu.Lock()
	e.cache[key] = expansion
	e.mu.Unlock()
}

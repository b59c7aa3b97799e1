package mock

import (
	"context"
	"sync"

	"github.com/elonge/venetia-engine/core"
)

// MockConceptExpander is a test double for ai.ConceptExpander.
type MockConceptExpander struct {
	// ExpandConceptFunc is called by ExpandConcept if set.
	// If nil, returns a canned expansion for the requested term.
	ExpandConceptFunc func(ctx context.Context, term string) (*core.ConceptExpansion, error)

	mu        sync.Mutex
	callCount int
}

// NewMockConceptExpander creates a mock expander with default canned behavior.
func NewMockConceptExpander() *MockConceptExpander {
	return &MockConceptExpander{}
}

// ExpandConcept returns a canned expansion unless a custom function is set.
func (m *MockConceptExpander) ExpandConcept(ctx context.Context, term string) (*core.ConceptExpansion, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.ExpandConceptFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, term)
	}
	return &core.ConceptExpansion{
		Term:       term,
		Definition: "Canned definition of " + term + " for testing.",
		Synonyms:   []string{term + "-synonym"},
		Indicators: []string{"mentions of " + term},
	}, nil
}

// CallCount returns the number of times ExpandConcept was called.
func (m *MockConceptExpander) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockConceptExpander) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ExpandConceptFunc = nil
}

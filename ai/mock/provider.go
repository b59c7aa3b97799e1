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

package mock

import (
	"github.com/elonge/venetia-engine/ai"
)

var _ ai.Provider = (*MockProvider)(nil)

// MockProvider is a test double for ai.Provider that wires together the
// individual mock services.
type MockProvider struct {
	embedder *MockEmbedder
	expander *MockConceptExpander
	streamer *MockChatStreamer
}

// NewMockProvider creates a provider with fresh default mocks.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		embedder: NewMockEmbedder(),
		expander: NewMockConceptExpander(),
		streamer: NewMockChatStreamer(),
	}
}

// NewMockProviderWithServices creates a provider from pre-configured mocks.
// Nil arguments are replaced with fresh defaults.
func NewMockProviderWithServices(embedder *MockEmbedder, expander *MockConceptExpander, streamer *MockChatStreamer) *MockProvider {
	if embedder == nil {
		embedder = NewMockEmbedder()
	}
	if expander == nil {
		expander = NewMockConceptExpander()
	}
	if streamer == nil {
		streamer = NewMockChatStreamer()
	}
	return &MockProvider{embedder: embedder, expander: expander, streamer: streamer}
}

// Embedder returns the embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// ConceptExpander returns the concept expansion service.
func (p *MockProvider) ConceptExpander() ai.ConceptExpander {
	return p.expander
}

// ChatStreamer returns the chat streaming service.
func (p *MockProvider) ChatStreamer() ai.ChatStreamer {
	return p.streamer
}

// Close is a no-op for mocks.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockConceptExpander returns the underlying mock for test assertions.
func (p *MockProvider) GetMockConceptExpander() *MockConceptExpander {
	return p.expander
}

// GetMockChatStreamer returns the underlying mock for test assertions.
func (p *MockProvider) GetMockChatStreamer() *MockChatStreamer {
	return p.streamer
}

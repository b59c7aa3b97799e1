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

// Package ai provides abstractions for the AI services used by the engine.
//
// This package defines interfaces for text embedding, structured concept
// expansion, and streaming chat generation. It follows the dependency
// inversion principle: the retrieval, signal, and chat packages depend on
// these abstractions rather than on a concrete model provider.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - ConceptExpander: elaborates an abstract term into a structured expansion
//   - ChatStreamer: streams a chat generation, fragment by fragment
//   - Provider: aggregates the services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return interface types to enforce
// abstraction; the mock constructors return concrete types so tests can
// inject behavior and assert call counts.
//
// # Usage Example
//
//	cfg := ai.DefaultConfig()
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "the Dardanelles campaign")
//	expansion, err := provider.ConceptExpander().ExpandConcept(ctx, "guilt")
package ai

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

// Package storage provides the storage abstraction layer for venetia-engine.
//
// This package defines store interfaces that decouple storage implementation
// from business logic, so different backends can be used interchangeably:
//
//   - ChunkStore: vector search over ingested corpus chunks (Qdrant)
//   - BucketStore: precomputed per-bucket aggregate embeddings (BadgerDB)
//   - ConceptStore: persistent concept-expansion cache (BadgerDB)
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the interface, not the
// concrete type:
//
//	store, err := badger.NewBucketStore(backend)  // returns storage.BucketStore
//
// This keeps consumers decoupled from backend specifics and lets tests
// substitute in-memory implementations without modification.
//
// # Serialization
//
// Badger-backed stores persist records in the MUS binary format via the
// hand-written serializers in this package. Field order is part of the
// on-disk format.
//
// # Thread Safety
//
// All store implementations must be thread-safe and support concurrent
// access from multiple goroutines. All methods accept context.Context for
// cancellation and timeout support.
package storage

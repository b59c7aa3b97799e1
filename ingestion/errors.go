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

package ingestion

import "errors"

var (
	// ErrChunkStoreRequired is returned when a nil chunk store is provided.
	ErrChunkStoreRequired = errors.New("chunk store is required")

	// ErrBucketStoreRequired is returned when a nil bucket store is provided.
	ErrBucketStoreRequired = errors.New("bucket store is required")

	// ErrEmbedderRequired is returned when a nil embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrEmptyDocument is returned when a document contains no text to chunk.
	ErrEmptyDocument = errors.New("document is empty")
)

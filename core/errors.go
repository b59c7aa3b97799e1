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

package core

import "errors"

// Engine-wide error kinds. Callers classify failures with errors.Is; every
// external-facing package wraps provider errors with one of these sentinels.
var (
	// ErrInvalidInput indicates a missing or malformed message or term.
	// Rejected immediately, before any external calls are made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding provider is unreachable,
	// erroring, or timing out. Aborts the whole operation.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrStoreUnavailable indicates the chunk or bucket store is unreachable.
	// Aborts the whole operation.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrExpansionIncomplete indicates structured generation returned a usable
	// shape but missing required content. Aborts series derivation for the
	// term only; a partial expansion must never reach the cache.
	ErrExpansionIncomplete = errors.New("concept expansion incomplete")

	// ErrGenerationFailed indicates the chat completion call errored, either
	// mid-stream or before the first fragment.
	ErrGenerationFailed = errors.New("generation failed")
)

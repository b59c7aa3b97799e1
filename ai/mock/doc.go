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

// Package mock provides test doubles for the AI service interfaces.
//
// The mocks default to deterministic behavior (hash-based embeddings, canned
// expansions, scripted stream deltas) so tests run without network access,
// and expose injectable function fields plus thread-safe call counters for
// behavior verification.
package mock

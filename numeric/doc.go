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

// Package numeric provides the pure numeric primitives shared across the
// engine: vector cosine similarity, centered rolling means, and min-max
// normalization.
//
// These exist once and are shared so that every call site agrees on
// tie-breaking and edge-case behavior (zero vectors, length mismatches,
// constant sequences). All functions are side-effect free and safe for
// concurrent use.
package numeric

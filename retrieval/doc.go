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

// Package retrieval turns free-text questions into ranked chunk evidence.
//
// The retriever embeds the (optionally history-aware) query and runs a top-k
// vector search against the chunk store. Retrieval never generates text and
// treats an empty hit list as a valid no-evidence outcome.
package retrieval

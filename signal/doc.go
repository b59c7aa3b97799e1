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

// Package signal derives concept intensity time series from the corpus.
//
// The flow per request: expand the abstract term into a structured
// elaboration, render it into deterministic embedding text, embed it once,
// score every precomputed bucket embedding by cosine similarity, backfill
// missing buckets with zero, smooth with a centered rolling mean, and
// min-max normalize the smoothed values to [0,100]. Expansions are memoized
// per normalized term with single-flight semantics.
package signal

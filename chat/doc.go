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

// Package chat turns retrieved evidence into streamed, cited answers.
//
// The streamer assembles the generation messages (historian system prompt,
// evidence context block, filtered history, current question), forwards
// incremental text fragments through a bounded channel, and terminates the
// stream with either a sources event or a distinguishable error event. With
// empty evidence the generator is never called; a fixed no-evidence message
// is streamed instead.
package chat

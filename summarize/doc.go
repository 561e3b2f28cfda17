// Copyright 2025 Poiesic Systems
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


// Package summarize produces length-bounded summaries of transcripts.
//
// Target lengths scale with the input: short transcripts get a fixed
// 150-250 character window, longer ones a window proportional to their
// size. The Summarizer wraps an ai.Generator and retries generation when
// the result falls outside the tolerated window. It never returns an
// error to the caller; a transcript always yields some summary, possibly
// flagged as degraded. All lengths are measured in runes, not bytes, so
// non-ASCII transcripts are bounded correctly.
package summarize

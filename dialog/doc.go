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


// Package dialog implements the per-user edit conversation state machine.
//
// Replying to a summary message with new text opens a session that waits
// for the user to choose what the text is for: replacing the summary,
// attaching it as a note, or nothing. Sessions are keyed by chat and
// user, expire after a fixed timeout, and opening a new session replaces
// any session already in progress for that key.
//
// The transition function Apply is pure. It consumes a session and an
// input and yields the next session plus an Effect describing what the
// caller should do (update a summary, set a note, or nothing). The bot
// layer owns effect execution, which keeps every transition testable
// without storage or transport.
package dialog

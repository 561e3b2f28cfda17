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


// Package bot implements the transport-neutral command layer of Voxnote.
//
// A transport adapter (bot/telegram) translates raw updates into Message
// and Callback events and hands them to Bot. Bot routes them: voice notes
// go through the ingestion pipeline, commands are parsed and executed
// against the record repository, replies to summary messages open the
// edit dialog, and button presses drive its transitions.
//
// The package holds no transport details. Outgoing traffic goes through
// the Responder interface, and all user-facing strings live in
// messages.go, so the command surface can be tested with an in-memory
// responder.
package bot

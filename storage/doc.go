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


// Package storage provides the storage abstraction layer for voxnote.
//
// This package defines the repository interface that decouples storage
// implementation from business logic. Two interchangeable backends implement
// it: an embedded BadgerDB store (the default) and a SQLite store matching
// the schema the record archive originally used.
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the storage.RecordRepository interface
// (not the concrete type) to enforce abstraction and keep backends
// swappable:
//
//	repo, err := badger.NewRecordRepository(backend)  // returns storage.RecordRepository
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Upsert Semantics
//
// Upsert is keyed on the record's ExternalRef, the transport's stable
// attachment identifier. On conflict the transcript, summary, timestamp and
// author fields are replaced; the assigned Id and the ExternalRef itself are
// never changed, and an existing Note is preserved. This makes reprocessing
// the same attachment idempotent.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and serialize
// conflicting writes to the same ExternalRef.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support.
package storage

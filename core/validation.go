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


package core

import (
	"fmt"
	"time"
)

// ValidateVoiceRecord validates a VoiceRecord according to domain rules.
//
// Validation rules:
//   - ExternalRef must not be empty (it is the upsert idempotency key)
//   - Transcript must not be empty
//   - Timestamp must not be in the future
//
// NOT validated:
//   - ID (0 is valid before the storage sequence assigns one)
//   - Summary (populated by the summarizer, may be empty on write paths
//     that only touch the note)
//   - Note and AuthorName (optional)
func ValidateVoiceRecord(record *VoiceRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidVoiceRecord)
	}

	if record.ExternalRef == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVoiceRecord, ErrEmptyExternalRef)
	}

	if record.Transcript == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVoiceRecord, ErrEmptyTranscript)
	}

	if !IsValidTimestamp(record.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidVoiceRecord, ErrInvalidTimestamp)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}

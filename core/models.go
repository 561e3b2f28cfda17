package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for persisted records.
// It is assigned by the storage backend's sequence and is immutable once set.
type ID uint64

// RefHash produces a fixed-width 64-bit hash of an external attachment
// reference using BLAKE2b hashing. Index keys use the hash so key sizes
// stay constant regardless of how long the transport's identifiers are.
func RefHash(ref string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(ref))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// VoiceRecord is the persisted unit: one transcribed and summarized voice
// attachment plus an optional annotation added later in conversation.
type VoiceRecord struct {
	Id          ID
	ExternalRef string    // Transport's stable attachment identifier; unique, used as idempotency key
	Transcript  string    // Full transcription text
	Summary     string    // Current compressed text
	Note        string    // Optional annotation; empty means none
	Timestamp   time.Time // When the voice message was sent (UTC)
	AuthorID    int64
	AuthorName  string // Optional display name
}

// HasNote reports whether the record carries an annotation.
func (r *VoiceRecord) HasNote() bool {
	return r.Note != ""
}

package storage

import (
	"context"
	"time"

	"github.com/poiesic/voxnote/core"
)

// RecordRepository provides operations for managing voice records.
// Implementations must be thread-safe and support concurrent access.
type RecordRepository interface {
	// Upsert inserts a record or, if one with the same ExternalRef already
	// exists, replaces its transcript, summary, timestamp and author fields.
	// The existing Id and ExternalRef are never changed and an existing note
	// is preserved. For new records an Id is assigned from the backend's
	// sequence. The write is atomic per call.
	// Returns the record with its Id populated.
	Upsert(ctx context.Context, record *core.VoiceRecord) (*core.VoiceRecord, error)

	// GetRecord retrieves a single record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, id core.ID) (*core.VoiceRecord, error)

	// GetRecordByExternalRef retrieves a single record by its external ref.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecordByExternalRef(ctx context.Context, ref string) (*core.VoiceRecord, error)

	// DeleteRecord removes a record by ID, together with its indices.
	// Returns ErrNotFound if the record doesn't exist.
	DeleteRecord(ctx context.Context, id core.ID) error

	// DeleteRecordByExternalRef removes a record by its external ref.
	// Returns ErrNotFound if the record doesn't exist.
	DeleteRecordByExternalRef(ctx context.Context, ref string) error

	// UpdateSummary overwrites the summary text of an existing record.
	// Returns ErrNotFound if the record doesn't exist.
	UpdateSummary(ctx context.Context, id core.ID, summary string) error

	// SetNote sets or replaces the note of an existing record.
	// Returns ErrNotFound if the record doesn't exist.
	SetNote(ctx context.Context, id core.ID, note string) error

	// RecordsByDateRange retrieves records where start <= Timestamp < end,
	// ordered by timestamp ascending.
	RecordsByDateRange(ctx context.Context, start, end time.Time) ([]*core.VoiceRecord, error)

	// Close closes the repository and releases resources.
	Close() error
}

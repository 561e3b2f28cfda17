package badger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/voxnote/core"
	"github.com/poiesic/voxnote/storage"
)

// RecordRepository implements storage.RecordRepository for BadgerDB.
type RecordRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.RecordRepository = (*RecordRepository)(nil)

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(backend *Backend) (*RecordRepository, error) {
	idSeq, err := backend.GetSequence(voiceRecordIDSeq)
	if err != nil {
		return nil, err
	}

	return &RecordRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *RecordRepository) Close() error {
	return r.idSeq.Release()
}

// Upsert inserts a record or updates the one already stored under the same
// ExternalRef. Conflicts replace transcript, summary, timestamp and author
// fields; the assigned Id, the ExternalRef and any existing note survive.
func (r *RecordRepository) Upsert(ctx context.Context, record *core.VoiceRecord) (*core.VoiceRecord, error) {
	if err := core.ValidateVoiceRecord(record); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		refKey := makeRefKey(record.ExternalRef)

		existing, err := r.readRecordByRefKey(tx, refKey, record.ExternalRef)
		if err != nil {
			return err
		}

		if existing != nil {
			// Conflict path: keep identity and note, replace the rest.
			record.Id = existing.Id
			if record.Note == "" {
				record.Note = existing.Note
			}

			if !existing.Timestamp.Equal(record.Timestamp) {
				if err := tx.Delete(makeDateKey(existing.Timestamp, existing.Id)); err != nil {
					return err
				}
			}
		} else {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			record.Id = core.ID(nextID)

			if err := tx.Set(refKey, storage.MarshalID(record.Id)); err != nil {
				return err
			}
		}

		if err := tx.Set(makeRecordKey(record.Id), storage.MarshalVoiceRecord(record)); err != nil {
			return err
		}
		if err := tx.Set(makeDateKey(record.Timestamp, record.Id), storage.MarshalID(record.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return record, err
}

// GetRecord retrieves a single record by ID.
func (r *RecordRepository) GetRecord(ctx context.Context, id core.ID) (*core.VoiceRecord, error) {
	var result *core.VoiceRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readRecord(tx, makeRecordKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetRecordByExternalRef retrieves a single record by its external ref.
func (r *RecordRepository) GetRecordByExternalRef(ctx context.Context, ref string) (*core.VoiceRecord, error) {
	var result *core.VoiceRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readRecordByRefKey(tx, makeRefKey(ref), ref)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// DeleteRecord removes a record by ID, together with its indices.
func (r *RecordRepository) DeleteRecord(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		record, err := r.readRecord(tx, makeRecordKey(id))
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}
		return r.deleteRecordInTx(tx, record)
	}, true)
}

// DeleteRecordByExternalRef removes a record by its external ref.
func (r *RecordRepository) DeleteRecordByExternalRef(ctx context.Context, ref string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		record, err := r.readRecordByRefKey(tx, makeRefKey(ref), ref)
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}
		return r.deleteRecordInTx(tx, record)
	}, true)
}

// UpdateSummary overwrites the summary text of an existing record.
func (r *RecordRepository) UpdateSummary(ctx context.Context, id core.ID, summary string) error {
	return r.updateRecord(id, func(record *core.VoiceRecord) {
		record.Summary = summary
	})
}

// SetNote sets or replaces the note of an existing record.
func (r *RecordRepository) SetNote(ctx context.Context, id core.ID, note string) error {
	return r.updateRecord(id, func(record *core.VoiceRecord) {
		record.Note = note
	})
}

// RecordsByDateRange retrieves records where start <= Timestamp < end,
// ordered by timestamp ascending.
func (r *RecordRepository) RecordsByDateRange(ctx context.Context, start, end time.Time) ([]*core.VoiceRecord, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.VoiceRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialDateKey(start)
		endKey := makePartialDateKey(end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) >= 0 {
				break
			}

			// Read the ID from the index
			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full record
			record, err := r.readRecord(tx, makeRecordKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// Helper methods

// readRecord reads a voice record from the transaction.
// Returns (nil, nil) when the key is absent.
func (r *RecordRepository) readRecord(tx *badger.Txn, key []byte) (*core.VoiceRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.VoiceRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalVoiceRecord(val)
		if unmarshalErr != nil {
			return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, unmarshalErr)
		}
		return nil
	})
	return record, err
}

// readRecordByRefKey resolves the external-ref index and loads the record.
// The loaded record's ExternalRef is compared against ref to guard against
// hash collisions in the fixed-width index key.
func (r *RecordRepository) readRecordByRefKey(tx *badger.Txn, refKey []byte, ref string) (*core.VoiceRecord, error) {
	item, err := tx.Get(refKey)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var id core.ID
	if err := item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	}); err != nil {
		return nil, err
	}

	record, err := r.readRecord(tx, makeRecordKey(id))
	if err != nil {
		return nil, err
	}
	if record != nil && record.ExternalRef != ref {
		r.backend.logger.Error("external-ref index collision",
			"ref", ref, "stored_ref", record.ExternalRef, "id", id)
		return nil, nil
	}
	return record, nil
}

func (r *RecordRepository) deleteRecordInTx(tx *badger.Txn, record *core.VoiceRecord) error {
	if err := tx.Delete(makeDateKey(record.Timestamp, record.Id)); err != nil {
		return err
	}
	if err := tx.Delete(makeRefKey(record.ExternalRef)); err != nil {
		return err
	}
	if err := tx.Delete(makeRecordKey(record.Id)); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *RecordRepository) updateRecord(id core.ID, mutate func(*core.VoiceRecord)) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		record, err := r.readRecord(tx, makeRecordKey(id))
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}

		mutate(record)

		if err := tx.Set(makeRecordKey(record.Id), storage.MarshalVoiceRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

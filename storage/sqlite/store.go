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


// Package sqlite provides a SQLite-backed implementation of
// storage.RecordRepository using the modernc.org/sqlite driver.
// Timestamps are stored as ISO-8601 text in UTC.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/voxnote/core"
	"github.com/poiesic/voxnote/storage"

	_ "modernc.org/sqlite"
)

// timestampLayout is ISO-8601 with microsecond precision.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS voice_records (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	external_ref TEXT UNIQUE NOT NULL,
	transcript  TEXT NOT NULL,
	summary     TEXT NOT NULL,
	note        TEXT NOT NULL DEFAULT '',
	timestamp   TEXT NOT NULL,
	author_id   INTEGER NOT NULL,
	author_name TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_voice_records_timestamp ON voice_records(timestamp);
`

// Store implements storage.RecordRepository on a SQLite database.
type Store struct {
	db *sql.DB
}

var _ storage.RecordRepository = (*Store)(nil)

// Open opens (or creates) the database at path and applies the schema.
// Pass ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// The driver opens connections lazily, and an in-memory database
	// exists per connection. Pin a single connection so every query
	// sees the same database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert inserts a record or updates the one already stored under the same
// external ref. Conflicts replace transcript, summary, timestamp and author
// fields; the row id, the external ref and any existing note survive.
func (s *Store) Upsert(ctx context.Context, record *core.VoiceRecord) (*core.VoiceRecord, error) {
	if err := core.ValidateVoiceRecord(record); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO voice_records (external_ref, transcript, summary, note, timestamp, author_id, author_name)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_ref) DO UPDATE SET
			transcript = excluded.transcript,
			summary = excluded.summary,
			note = CASE WHEN excluded.note <> '' THEN excluded.note ELSE voice_records.note END,
			timestamp = excluded.timestamp,
			author_id = excluded.author_id,
			author_name = excluded.author_name
		RETURNING id
	`, record.ExternalRef, record.Transcript, record.Summary, record.Note,
		record.Timestamp.UTC().Format(timestampLayout), record.AuthorID, record.AuthorName)

	var id int64
	if err := row.Scan(&id); err != nil {
		return nil, fmt.Errorf("upsert record: %w", err)
	}

	record.Id = core.ID(id)
	return record, nil
}

// GetRecord retrieves a single record by ID.
func (s *Store) GetRecord(ctx context.Context, id core.ID) (*core.VoiceRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, external_ref, transcript, summary, note, timestamp, author_id, author_name
		FROM voice_records
		WHERE id = ?
	`, int64(id))
	return scanRecord(row)
}

// GetRecordByExternalRef retrieves a single record by its external ref.
func (s *Store) GetRecordByExternalRef(ctx context.Context, ref string) (*core.VoiceRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, external_ref, transcript, summary, note, timestamp, author_id, author_name
		FROM voice_records
		WHERE external_ref = ?
	`, ref)
	return scanRecord(row)
}

// DeleteRecord removes a record by ID.
func (s *Store) DeleteRecord(ctx context.Context, id core.ID) error {
	return s.deleteWhere(ctx, "id = ?", int64(id))
}

// DeleteRecordByExternalRef removes a record by its external ref.
func (s *Store) DeleteRecordByExternalRef(ctx context.Context, ref string) error {
	return s.deleteWhere(ctx, "external_ref = ?", ref)
}

// UpdateSummary overwrites the summary text of an existing record.
func (s *Store) UpdateSummary(ctx context.Context, id core.ID, summary string) error {
	return s.updateWhere(ctx, "summary", summary, id)
}

// SetNote sets or replaces the note of an existing record.
func (s *Store) SetNote(ctx context.Context, id core.ID, note string) error {
	return s.updateWhere(ctx, "note", note, id)
}

// RecordsByDateRange retrieves records where start <= timestamp < end,
// ordered by timestamp ascending.
func (s *Store) RecordsByDateRange(ctx context.Context, start, end time.Time) ([]*core.VoiceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, external_ref, transcript, summary, note, timestamp, author_id, author_name
		FROM voice_records
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC
	`, start.UTC().Format(timestampLayout), end.UTC().Format(timestampLayout))
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []*core.VoiceRecord
	for rows.Next() {
		record, err := scanRecordRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *Store) deleteWhere(ctx context.Context, where string, arg any) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM voice_records WHERE "+where, arg)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) updateWhere(ctx context.Context, column, value string, id core.ID) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE voice_records SET "+column+" = ? WHERE id = ?", value, int64(id))
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecordRow(row rowScanner) (*core.VoiceRecord, error) {
	var record core.VoiceRecord
	var id int64
	var timestamp string

	if err := row.Scan(&id, &record.ExternalRef, &record.Transcript, &record.Summary,
		&record.Note, &timestamp, &record.AuthorID, &record.AuthorName); err != nil {
		return nil, fmt.Errorf("scan record: %w", err)
	}

	record.Id = core.ID(id)
	parsed, err := time.Parse(timestampLayout, timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: parse timestamp %q: %w", storage.ErrSerializationFailed, timestamp, err)
	}
	record.Timestamp = parsed.UTC()

	return &record, nil
}

func scanRecord(row *sql.Row) (*core.VoiceRecord, error) {
	record, err := scanRecordRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

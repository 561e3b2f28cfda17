package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/voxnote/core"
	"github.com/poiesic/voxnote/storage"
)

func newTestRepository(t *testing.T) *RecordRepository {
	t.Helper()

	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create in-memory repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func testRecord(ref string, at time.Time) *core.VoiceRecord {
	return &core.VoiceRecord{
		ExternalRef: ref,
		Transcript:  "we should move the planning call to thursday",
		Summary:     "Move planning call to Thursday.",
		Timestamp:   at,
		AuthorID:    100,
		AuthorName:  "alice",
	}
}

func TestUpsertAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	at := time.Now().Add(-1 * time.Hour).UTC().Truncate(time.Microsecond)
	record, err := repo.Upsert(ctx, testRecord("file-abc", at))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if record.Id == 0 {
		t.Fatal("Expected non-zero ID after upsert")
	}

	got, err := repo.GetRecord(ctx, record.Id)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if got.ExternalRef != "file-abc" {
		t.Errorf("Expected external ref 'file-abc', got %q", got.ExternalRef)
	}
	if got.Transcript != record.Transcript {
		t.Errorf("Transcript mismatch: got %q", got.Transcript)
	}
	if !got.Timestamp.Equal(at) {
		t.Errorf("Timestamp mismatch: expected %v, got %v", at, got.Timestamp)
	}
}

func TestUpsertConflictKeepsIdentityAndNote(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	at := time.Now().Add(-2 * time.Hour).UTC()
	first, err := repo.Upsert(ctx, testRecord("file-same", at))
	if err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}

	if err := repo.SetNote(ctx, first.Id, "keep me"); err != nil {
		t.Fatalf("SetNote failed: %v", err)
	}

	updated := testRecord("file-same", at.Add(30*time.Minute))
	updated.Transcript = "corrected transcript"
	updated.Summary = "Corrected."
	updated.AuthorName = "alice (edited)"

	second, err := repo.Upsert(ctx, updated)
	if err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}
	if second.Id != first.Id {
		t.Errorf("Expected same ID %d after conflict, got %d", first.Id, second.Id)
	}

	got, err := repo.GetRecord(ctx, first.Id)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if got.Transcript != "corrected transcript" {
		t.Errorf("Expected replaced transcript, got %q", got.Transcript)
	}
	if got.Note != "keep me" {
		t.Errorf("Expected note to survive upsert, got %q", got.Note)
	}

	// Only one record should exist in the date range covering both timestamps.
	records, err := repo.RecordsByDateRange(ctx, at.Add(-time.Hour), at.Add(time.Hour))
	if err != nil {
		t.Fatalf("RecordsByDateRange failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected 1 record after re-upsert, got %d", len(records))
	}
}

func TestGetRecordNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetRecord(context.Background(), 9999)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetRecordByExternalRef(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	at := time.Now().Add(-1 * time.Hour).UTC()
	record, err := repo.Upsert(ctx, testRecord("file-xyz", at))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := repo.GetRecordByExternalRef(ctx, "file-xyz")
	if err != nil {
		t.Fatalf("GetRecordByExternalRef failed: %v", err)
	}
	if got.Id != record.Id {
		t.Errorf("Expected ID %d, got %d", record.Id, got.Id)
	}

	_, err = repo.GetRecordByExternalRef(ctx, "no-such-ref")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown ref, got %v", err)
	}
}

func TestDeleteRecord(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	at := time.Now().Add(-1 * time.Hour).UTC()
	record, err := repo.Upsert(ctx, testRecord("file-del", at))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := repo.DeleteRecord(ctx, record.Id); err != nil {
		t.Fatalf("DeleteRecord failed: %v", err)
	}

	if _, err := repo.GetRecord(ctx, record.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if _, err := repo.GetRecordByExternalRef(ctx, "file-del"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ref index removed after delete, got %v", err)
	}

	records, err := repo.RecordsByDateRange(ctx, at.Add(-time.Hour), at.Add(time.Hour))
	if err != nil {
		t.Fatalf("RecordsByDateRange failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected date index removed after delete, got %d records", len(records))
	}

	if err := repo.DeleteRecord(ctx, record.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestDeleteRecordByExternalRef(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	at := time.Now().Add(-1 * time.Hour).UTC()
	record, err := repo.Upsert(ctx, testRecord("file-del-ref", at))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := repo.DeleteRecordByExternalRef(ctx, "file-del-ref"); err != nil {
		t.Fatalf("DeleteRecordByExternalRef failed: %v", err)
	}
	if _, err := repo.GetRecord(ctx, record.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.DeleteRecordByExternalRef(ctx, "file-del-ref"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestUpdateSummary(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	record, err := repo.Upsert(ctx, testRecord("file-sum", time.Now().Add(-1*time.Hour).UTC()))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := repo.UpdateSummary(ctx, record.Id, "A better summary."); err != nil {
		t.Fatalf("UpdateSummary failed: %v", err)
	}

	got, err := repo.GetRecord(ctx, record.Id)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if got.Summary != "A better summary." {
		t.Errorf("Expected updated summary, got %q", got.Summary)
	}

	if err := repo.UpdateSummary(ctx, 9999, "x"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown ID, got %v", err)
	}
}

func TestSetNote(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	record, err := repo.Upsert(ctx, testRecord("file-note", time.Now().Add(-1*time.Hour).UTC()))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := repo.SetNote(ctx, record.Id, "call back tomorrow"); err != nil {
		t.Fatalf("SetNote failed: %v", err)
	}

	got, err := repo.GetRecord(ctx, record.Id)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if got.Note != "call back tomorrow" {
		t.Errorf("Expected note, got %q", got.Note)
	}
	if !got.HasNote() {
		t.Error("Expected HasNote to be true")
	}

	if err := repo.SetNote(ctx, 9999, "x"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown ID, got %v", err)
	}
}

func TestRecordsByDateRange(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	for i, ref := range []string{"day-a", "day-b", "day-c"} {
		rec := testRecord(ref, base.Add(time.Duration(i)*24*time.Hour))
		if _, err := repo.Upsert(ctx, rec); err != nil {
			t.Fatalf("Upsert %s failed: %v", ref, err)
		}
	}

	// Only the middle day.
	dayStart := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	records, err := repo.RecordsByDateRange(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("RecordsByDateRange failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].ExternalRef != "day-b" {
		t.Errorf("Expected 'day-b', got %q", records[0].ExternalRef)
	}

	// Full range, ascending order.
	records, err = repo.RecordsByDateRange(ctx, base.Add(-time.Hour), base.Add(72*time.Hour))
	if err != nil {
		t.Fatalf("RecordsByDateRange failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp.Before(records[i-1].Timestamp) {
			t.Errorf("Records not in ascending timestamp order at index %d", i)
		}
	}

	// Empty range.
	records, err = repo.RecordsByDateRange(ctx, base.Add(-48*time.Hour), base.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("RecordsByDateRange failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestUpsertRejectsInvalidRecord(t *testing.T) {
	repo := newTestRepository(t)

	invalid := testRecord("", time.Now().Add(-1*time.Hour).UTC())
	if _, err := repo.Upsert(context.Background(), invalid); !errors.Is(err, core.ErrEmptyExternalRef) {
		t.Errorf("Expected ErrEmptyExternalRef, got %v", err)
	}
}

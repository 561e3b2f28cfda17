package voxnote

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/voxnote/core"
)

func TestNewArchiveBadger(t *testing.T) {
	archive, err := NewArchive(BackendBadger, filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("NewArchive failed: %v", err)
	}
	defer archive.Close()

	saved, err := archive.Records().Upsert(context.Background(), &core.VoiceRecord{
		ExternalRef: "file-1",
		Transcript:  "transcript",
		Summary:     "summary",
		Timestamp:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if saved.Id == 0 {
		t.Fatal("expected assigned id")
	}
}

func TestNewArchiveSQLite(t *testing.T) {
	archive, err := NewArchive(BackendSQLite, filepath.Join(t.TempDir(), "db.sqlite"))
	if err != nil {
		t.Fatalf("NewArchive failed: %v", err)
	}
	defer archive.Close()

	saved, err := archive.Records().Upsert(context.Background(), &core.VoiceRecord{
		ExternalRef: "file-1",
		Transcript:  "transcript",
		Summary:     "summary",
		Timestamp:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := archive.Records().GetRecord(context.Background(), saved.Id)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if got.ExternalRef != "file-1" {
		t.Fatalf("unexpected external ref %q", got.ExternalRef)
	}
}

func TestNewArchiveUnknownBackend(t *testing.T) {
	if _, err := NewArchive("postgres", "ignored"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

package core

import "testing"

func TestRefHashDeterministic(t *testing.T) {
	a := RefHash("AwACAgIAAxkBAAIBQ2Z1")
	b := RefHash("AwACAgIAAxkBAAIBQ2Z1")
	if a != b {
		t.Fatalf("Expected identical hashes for identical refs, got %d and %d", a, b)
	}
}

func TestRefHashDistinct(t *testing.T) {
	a := RefHash("file-a")
	b := RefHash("file-b")
	if a == b {
		t.Fatalf("Expected different hashes for different refs, both were %d", a)
	}
}

func TestRefHashEmptyString(t *testing.T) {
	// Empty refs are rejected by validation, but the hash itself must not panic.
	_ = RefHash("")
}

func TestHasNote(t *testing.T) {
	record := &VoiceRecord{}
	if record.HasNote() {
		t.Fatal("Expected HasNote to be false for empty note")
	}
	record.Note = "call the dentist"
	if !record.HasNote() {
		t.Fatal("Expected HasNote to be true for non-empty note")
	}
}

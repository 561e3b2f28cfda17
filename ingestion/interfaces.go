package ingestion

import (
	"context"
	"time"

	"github.com/poiesic/voxnote/core"
)

// VoiceEvent describes one incoming voice note.
type VoiceEvent struct {
	// ExternalRef is the transport's stable identifier for the audio
	// attachment. It becomes the record's external ref.
	ExternalRef string

	// ChatID and MessageID locate the originating message so replies
	// can be threaded to it.
	ChatID    int64
	MessageID int64

	// Timestamp is when the voice note was sent.
	Timestamp time.Time

	AuthorID   int64
	AuthorName string
}

// AttachmentFetcher downloads audio attachments from the transport.
type AttachmentFetcher interface {
	// Fetch downloads the audio bytes for the given external ref.
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Notifier reports pipeline outcomes back to the author.
// Message formatting belongs to the implementation; the pipeline only
// signals what happened.
type Notifier interface {
	// ProcessingStarted reports that a voice note is being worked on,
	// so the author sees progress before transcription finishes.
	ProcessingStarted(ctx context.Context, event VoiceEvent) error

	// RecordSaved reports a stored record, threading the reply to the
	// original message.
	RecordSaved(ctx context.Context, event VoiceEvent, record *core.VoiceRecord, degraded bool) error

	// RecognitionFailed reports that no usable speech was recognized.
	RecognitionFailed(ctx context.Context, event VoiceEvent) error

	// ProcessingFailed reports a generic processing failure.
	ProcessingFailed(ctx context.Context, event VoiceEvent) error
}

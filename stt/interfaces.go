package stt

import "context"

// Transcriber converts recorded audio into text.
// Implementations must be thread-safe for concurrent use.
type Transcriber interface {
	// Transcribe converts the audio bytes into a transcript.
	// Returns an empty string when the audio contains no recognizable
	// speech. Returns an error if the engine is unreachable or fails.
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

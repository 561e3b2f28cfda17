// Package stt defines the speech-to-text boundary of Voxnote.
//
// The transcription engine itself is external. This package holds the
// Transcriber interface the ingestion pipeline depends on, and an HTTP
// client implementation for speech services that accept multipart audio
// uploads and respond with JSON.
package stt

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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/poiesic/voxnote/core"
	"github.com/poiesic/voxnote/storage"
	"github.com/poiesic/voxnote/stt"
	"github.com/poiesic/voxnote/summarize"
)

// DefaultMinTranscript is the minimum transcript length, in runes, for a
// voice note to be persisted.
const DefaultMinTranscript = 5

// Pipeline orchestrates the processing of incoming voice notes.
type Pipeline struct {
	records       storage.RecordRepository
	fetcher       AttachmentFetcher
	transcriber   stt.Transcriber
	summarizer    *summarize.Summarizer
	notifier      Notifier
	minTranscript int
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithMinTranscript sets the minimum transcript length for persistence.
func WithMinTranscript(n int) Option {
	return func(p *Pipeline) error {
		if n < 0 {
			n = 0
		}
		p.minTranscript = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new voice note pipeline.
func NewPipeline(
	records storage.RecordRepository,
	fetcher AttachmentFetcher,
	transcriber stt.Transcriber,
	summarizer *summarize.Summarizer,
	notifier Notifier,
	opts ...Option,
) (*Pipeline, error) {
	if records == nil {
		return nil, ErrRepositoryRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if transcriber == nil {
		return nil, ErrTranscriberRequired
	}
	if summarizer == nil {
		return nil, ErrSummarizerRequired
	}
	if notifier == nil {
		return nil, ErrNotifierRequired
	}

	p := &Pipeline{
		records:       records,
		fetcher:       fetcher,
		transcriber:   transcriber,
		summarizer:    summarizer,
		notifier:      notifier,
		minTranscript: DefaultMinTranscript,
		logger:        slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Process runs one voice event through the pipeline. Failures are
// reported to the author and returned for logging; a failed event never
// leaves a partial record behind.
func (p *Pipeline) Process(ctx context.Context, event VoiceEvent) (err error) {
	logger := p.logger.With("external_ref", event.ExternalRef, "chat_id", event.ChatID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while processing voice event", "panic", r)
			p.notifyFailure(ctx, event)
			err = fmt.Errorf("panic while processing voice event: %v", r)
		}
	}()

	// Transcription and generation take a while; tell the author the
	// note was picked up. Not being able to is not worth aborting over.
	if nerr := p.notifier.ProcessingStarted(ctx, event); nerr != nil {
		logger.Warn("failed to send processing notice", "error", nerr)
	}

	audio, err := p.fetcher.Fetch(ctx, event.ExternalRef)
	if err != nil {
		logger.Error("failed to fetch attachment", "error", err)
		p.notifyFailure(ctx, event)
		return fmt.Errorf("fetch attachment: %w", err)
	}

	transcript, err := p.transcriber.Transcribe(ctx, audio)
	if err != nil {
		logger.Error("transcription failed", "error", err)
		p.notifyFailure(ctx, event)
		return fmt.Errorf("transcribe: %w", err)
	}

	if utf8.RuneCountInString(transcript) < p.minTranscript {
		logger.Info("transcript too short, skipping persistence",
			"transcript_len", utf8.RuneCountInString(transcript))
		if nerr := p.notifier.RecognitionFailed(ctx, event); nerr != nil {
			logger.Error("failed to send recognition notice", "error", nerr)
		}
		return nil
	}

	result := p.summarizer.Summarize(ctx, transcript)
	if result.Degraded {
		logger.Warn("summary degraded", "attempts", result.Attempts)
	}

	record, err := p.records.Upsert(ctx, &core.VoiceRecord{
		ExternalRef: event.ExternalRef,
		Transcript:  transcript,
		Summary:     result.Summary,
		Timestamp:   event.Timestamp,
		AuthorID:    event.AuthorID,
		AuthorName:  event.AuthorName,
	})
	if err != nil {
		logger.Error("failed to store record", "error", err)
		p.notifyFailure(ctx, event)
		return fmt.Errorf("store record: %w", err)
	}

	logger.Info("voice note stored", "record_id", record.Id,
		"transcript_len", utf8.RuneCountInString(transcript),
		"degraded", result.Degraded)

	if err := p.notifier.RecordSaved(ctx, event, record, result.Degraded); err != nil {
		logger.Error("failed to send summary reply", "error", err)
		return fmt.Errorf("notify: %w", err)
	}

	return nil
}

func (p *Pipeline) notifyFailure(ctx context.Context, event VoiceEvent) {
	if err := p.notifier.ProcessingFailed(ctx, event); err != nil {
		p.logger.Error("failed to send failure notice", "error", err)
	}
}

package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/voxnote/ai/mock"
	"github.com/poiesic/voxnote/core"
	"github.com/poiesic/voxnote/storage"
	"github.com/poiesic/voxnote/storage/badger"
	"github.com/poiesic/voxnote/summarize"
)

type fakeFetcher struct {
	fetchFunc func(ctx context.Context, ref string) ([]byte, error)
}

func (f *fakeFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if f.fetchFunc != nil {
		return f.fetchFunc(ctx, ref)
	}
	return []byte("audio"), nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return f.text, f.err
}

type fakeNotifier struct {
	started     []VoiceEvent
	saved       []*core.VoiceRecord
	savedEvents []VoiceEvent
	degraded    []bool
	recognition []VoiceEvent
	failures    []VoiceEvent
	replyErr    error
}

func (f *fakeNotifier) ProcessingStarted(ctx context.Context, event VoiceEvent) error {
	f.started = append(f.started, event)
	return nil
}

func (f *fakeNotifier) RecordSaved(ctx context.Context, event VoiceEvent, record *core.VoiceRecord, degraded bool) error {
	f.saved = append(f.saved, record)
	f.savedEvents = append(f.savedEvents, event)
	f.degraded = append(f.degraded, degraded)
	return f.replyErr
}

func (f *fakeNotifier) RecognitionFailed(ctx context.Context, event VoiceEvent) error {
	f.recognition = append(f.recognition, event)
	return nil
}

func (f *fakeNotifier) ProcessingFailed(ctx context.Context, event VoiceEvent) error {
	f.failures = append(f.failures, event)
	return nil
}

func testEvent() VoiceEvent {
	return VoiceEvent{
		ExternalRef: "voice-file-1",
		ChatID:      10,
		MessageID:   20,
		Timestamp:   time.Now().Add(-time.Minute).UTC(),
		AuthorID:    1,
		AuthorName:  "alice",
	}
}

func newTestPipeline(t *testing.T, transcriber *fakeTranscriber, fetcher *fakeFetcher, notifier *fakeNotifier) (*Pipeline, storage.RecordRepository) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	gen := mock.NewMockGenerator()
	gen.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return strings.Repeat("s", 200), nil
	}

	pipeline, err := NewPipeline(repo, fetcher, transcriber, summarize.NewSummarizer(gen), notifier)
	require.NoError(t, err)

	return pipeline, repo
}

func TestProcessStoresAndReplies(t *testing.T) {
	notifier := &fakeNotifier{}
	transcriber := &fakeTranscriber{text: "we agreed to ship the release on friday afternoon"}
	pipeline, repo := newTestPipeline(t, transcriber, &fakeFetcher{}, notifier)

	err := pipeline.Process(context.Background(), testEvent())
	require.NoError(t, err)

	require.Len(t, notifier.started, 1)
	require.Len(t, notifier.saved, 1)
	assert.False(t, notifier.degraded[0])
	assert.Equal(t, int64(10), notifier.savedEvents[0].ChatID)
	assert.Equal(t, int64(20), notifier.savedEvents[0].MessageID)

	record, err := repo.GetRecordByExternalRef(context.Background(), "voice-file-1")
	require.NoError(t, err)
	assert.Equal(t, transcriber.text, record.Transcript)
	assert.Equal(t, 200, len(record.Summary))
	assert.Equal(t, notifier.saved[0].Id, record.Id)
}

func TestProcessShortTranscriptSkipsPersistence(t *testing.T) {
	notifier := &fakeNotifier{}
	pipeline, repo := newTestPipeline(t, &fakeTranscriber{text: "uh"}, &fakeFetcher{}, notifier)

	err := pipeline.Process(context.Background(), testEvent())
	require.NoError(t, err)

	assert.Len(t, notifier.recognition, 1)
	assert.Empty(t, notifier.saved)

	_, err = repo.GetRecordByExternalRef(context.Background(), "voice-file-1")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestProcessFetchFailureAborts(t *testing.T) {
	notifier := &fakeNotifier{}
	fetcher := &fakeFetcher{
		fetchFunc: func(ctx context.Context, ref string) ([]byte, error) {
			return nil, errors.New("file expired")
		},
	}
	pipeline, repo := newTestPipeline(t, &fakeTranscriber{text: "irrelevant"}, fetcher, notifier)

	err := pipeline.Process(context.Background(), testEvent())
	assert.Error(t, err)
	assert.Len(t, notifier.failures, 1)
	assert.Empty(t, notifier.saved)

	_, err = repo.GetRecordByExternalRef(context.Background(), "voice-file-1")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestProcessTranscriberFailure(t *testing.T) {
	notifier := &fakeNotifier{}
	transcriber := &fakeTranscriber{err: errors.New("engine offline")}
	pipeline, _ := newTestPipeline(t, transcriber, &fakeFetcher{}, notifier)

	err := pipeline.Process(context.Background(), testEvent())
	assert.Error(t, err)
	assert.Len(t, notifier.failures, 1)
	assert.Empty(t, notifier.saved)
}

func TestProcessRecoversFromPanic(t *testing.T) {
	notifier := &fakeNotifier{}
	fetcher := &fakeFetcher{
		fetchFunc: func(ctx context.Context, ref string) ([]byte, error) {
			panic("unexpected transport state")
		},
	}
	pipeline, _ := newTestPipeline(t, &fakeTranscriber{text: "irrelevant"}, fetcher, notifier)

	err := pipeline.Process(context.Background(), testEvent())
	assert.Error(t, err)
	assert.Len(t, notifier.failures, 1)
}

func TestProcessGeneratorFailureStillStores(t *testing.T) {
	notifier := &fakeNotifier{}
	transcriber := &fakeTranscriber{text: "the quarterly numbers look better than expected"}

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	gen := mock.NewMockGenerator()
	gen.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("model unavailable")
	}

	pipeline, err := NewPipeline(repo, &fakeFetcher{}, transcriber,
		summarize.NewSummarizer(gen), notifier)
	require.NoError(t, err)

	err = pipeline.Process(context.Background(), testEvent())
	require.NoError(t, err)

	// Summarization degrades but never fails, so the record is stored
	// with the substitute text.
	require.Len(t, notifier.saved, 1)
	assert.True(t, notifier.degraded[0])
	assert.NotEmpty(t, notifier.saved[0].Summary)
}

func TestNewPipelineValidation(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	gen := mock.NewMockGenerator()
	summarizer := summarize.NewSummarizer(gen)

	_, err = NewPipeline(nil, &fakeFetcher{}, &fakeTranscriber{}, summarizer, &fakeNotifier{})
	assert.Equal(t, ErrRepositoryRequired, err)

	_, err = NewPipeline(repo, nil, &fakeTranscriber{}, summarizer, &fakeNotifier{})
	assert.Equal(t, ErrFetcherRequired, err)

	_, err = NewPipeline(repo, &fakeFetcher{}, nil, summarizer, &fakeNotifier{})
	assert.Equal(t, ErrTranscriberRequired, err)

	_, err = NewPipeline(repo, &fakeFetcher{}, &fakeTranscriber{}, nil, &fakeNotifier{})
	assert.Equal(t, ErrSummarizerRequired, err)

	_, err = NewPipeline(repo, &fakeFetcher{}, &fakeTranscriber{}, summarizer, nil)
	assert.Equal(t, ErrNotifierRequired, err)
}

package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a record repository is not provided.
	ErrRepositoryRequired = errors.New("record repository required")

	// ErrFetcherRequired is returned when an attachment fetcher is not provided.
	ErrFetcherRequired = errors.New("attachment fetcher required")

	// ErrTranscriberRequired is returned when a transcriber is not provided.
	ErrTranscriberRequired = errors.New("transcriber required")

	// ErrSummarizerRequired is returned when a summarizer is not provided.
	ErrSummarizerRequired = errors.New("summarizer required")

	// ErrNotifierRequired is returned when a notifier is not provided.
	ErrNotifierRequired = errors.New("notifier required")
)

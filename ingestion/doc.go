// Package ingestion provides pipeline orchestration for processing voice notes.
//
// The Pipeline type manages the workflow for an incoming voice event:
//   - Fetching the audio attachment
//   - Transcribing it to text
//   - Summarizing the transcript
//   - Upserting the resulting record
//   - Notifying the author of the outcome
//
// Each event is processed in isolation. A failure, including a panic, is
// caught at the pipeline boundary, logged, and reported to the author as a
// generic failure notice; it never affects other events. The upsert is the
// only step that mutates state, so a failed event leaves no partial record
// behind.
package ingestion

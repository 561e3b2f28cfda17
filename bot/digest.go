package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/voxnote/core"
)

// FormatDigest renders a day's records as a plain-text digest, one block
// per record in the given order, with note lines attached where present.
// Timestamps are rendered in loc.
func FormatDigest(records []*core.VoiceRecord, loc *time.Location) string {
	var blocks []string
	for _, record := range records {
		lines := []string{fmt.Sprintf(digestLineTemplate,
			record.Timestamp.In(loc).Format("15:04"), record.Id, record.Summary)}
		if record.HasNote() {
			lines = append(lines, fmt.Sprintf(digestNoteTemplate, record.Note))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// FormatSummaryReply renders the reply sent after a voice note is stored.
// The leading "#<id>" line is what later ties edits and deletions back to
// the record.
func FormatSummaryReply(record *core.VoiceRecord) string {
	return fmt.Sprintf(summaryReplyTemplate, record.Id, record.Summary)
}

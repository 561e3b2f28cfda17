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


package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/voxnote/core"
	"github.com/poiesic/voxnote/dialog"
	"github.com/poiesic/voxnote/ingestion"
	"github.com/poiesic/voxnote/resolve"
	"github.com/poiesic/voxnote/storage"
	"github.com/poiesic/voxnote/stt"
	"github.com/poiesic/voxnote/summarize"
)

var (
	datePattern         = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	summaryShapePattern = regexp.MustCompile(`^#(\d+)`)
)

// DefaultReportLocation is the fixed offset used for daily digests and
// the default /sum date.
var DefaultReportLocation = time.FixedZone("UTC+2", 2*60*60)

// Bot routes incoming events to the pipeline, the resolver and the edit
// dialog, and formats every outgoing message.
type Bot struct {
	records   storage.RecordRepository
	pipeline  *ingestion.Pipeline
	resolver  *resolve.Resolver
	sessions  *dialog.Store
	responder Responder
	reportLoc *time.Location
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Bot.
type Option func(*Bot)

// WithReportLocation sets the time zone for digests and default dates.
func WithReportLocation(loc *time.Location) Option {
	return func(b *Bot) {
		if loc != nil {
			b.reportLoc = loc
		}
	}
}

// WithSessionTimeout sets the edit dialog timeout.
func WithSessionTimeout(d time.Duration) Option {
	return func(b *Bot) {
		b.sessions = dialog.NewStore(dialog.WithSessionTimeout(d))
	}
}

// WithClock replaces the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Bot) {
		b.now = now
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a Bot and its ingestion pipeline.
func New(
	records storage.RecordRepository,
	fetcher ingestion.AttachmentFetcher,
	transcriber stt.Transcriber,
	summarizer *summarize.Summarizer,
	responder Responder,
	opts ...Option,
) (*Bot, error) {
	if responder == nil {
		return nil, errors.New("bot: responder required")
	}

	b := &Bot{
		records:   records,
		resolver:  resolve.NewResolver(records),
		sessions:  dialog.NewStore(),
		responder: responder,
		reportLoc: DefaultReportLocation,
		logger:    slog.Default().With("component", "bot"),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(b)
	}

	// The bot is the pipeline's notifier so outcome messages are
	// formatted alongside every other user-facing string.
	pipeline, err := ingestion.NewPipeline(records, fetcher, transcriber, summarizer, b)
	if err != nil {
		return nil, err
	}
	b.pipeline = pipeline

	return b, nil
}

// HandleMessage routes one incoming message. Errors are logged and
// reported to the user; they are not returned because one bad update
// must not affect others.
func (b *Bot) HandleMessage(ctx context.Context, msg Message) {
	logger := b.logger.With("event_id", msg.EventID, "chat_id", msg.ChatID, "user_id", msg.UserID)

	text := strings.TrimSpace(msg.Text)

	// While a choice is pending, anything that is not itself a dialog
	// entry force-closes the dialog and leaves the record untouched.
	key := dialog.Key{ChatID: msg.ChatID, UserID: msg.UserID}
	isDialogEntry := msg.VoiceRef == "" && msg.Reply != nil && text != "" &&
		summaryShapePattern.MatchString(msg.Reply.Text)
	if !isDialogEntry && b.sessions.Get(key, b.now()).State == dialog.StateAwaitingChoice {
		b.sessions.Delete(key)
		logger.Info("edit session force-closed by unrelated input")
		b.send(ctx, logger, msg.ChatID, MsgCancelled)
		return
	}

	if msg.VoiceRef != "" {
		if err := b.pipeline.Process(ctx, ingestion.VoiceEvent{
			ExternalRef: msg.VoiceRef,
			ChatID:      msg.ChatID,
			MessageID:   msg.MessageID,
			Timestamp:   msg.Timestamp,
			AuthorID:    msg.UserID,
			AuthorName:  msg.Username,
		}); err != nil {
			logger.Error("voice event failed", "error", err)
		}
		return
	}

	command, _, _ := strings.Cut(text, " ")
	command, _, _ = strings.Cut(command, "@")

	switch {
	case command == "/start":
		b.send(ctx, logger, msg.ChatID, MsgStart)
	case command == "/help":
		b.send(ctx, logger, msg.ChatID, MsgHelp)
	case command == "/sum":
		b.handleSum(ctx, logger, msg, text)
	case command == "/delete":
		b.handleDelete(ctx, logger, msg, text)
	case strings.HasPrefix(command, "/"):
		b.send(ctx, logger, msg.ChatID, MsgUnknownCommand)
	case msg.Reply != nil && text != "":
		b.handleEditEntry(ctx, logger, msg, text)
	}
}

// HandleCallback routes one button press through the edit dialog.
func (b *Bot) HandleCallback(ctx context.Context, cb Callback) {
	logger := b.logger.With("event_id", cb.EventID, "chat_id", cb.ChatID, "user_id", cb.UserID)

	key := dialog.Key{ChatID: cb.ChatID, UserID: cb.UserID}
	now := b.now()

	var choice dialog.Choice
	switch cb.Data {
	case CallbackEdit:
		choice = dialog.ChoiceEdit
	case CallbackNote:
		choice = dialog.ChoiceNote
	case CallbackCancel:
		choice = dialog.ChoiceCancel
	default:
		logger.Warn("unknown callback payload", "data", cb.Data)
		if b.sessions.Get(key, now).State == dialog.StateAwaitingChoice {
			b.sessions.Delete(key)
			b.send(ctx, logger, cb.ChatID, MsgCancelled)
		}
		return
	}

	// Read, apply and store in one step so a duplicate press cannot
	// execute the effect a second time.
	session, effect := b.sessions.Update(key, now, func(s dialog.Session) (dialog.Session, dialog.Effect) {
		return dialog.Apply(s, dialog.Input{
			Kind:   dialog.InputChoice,
			Choice: choice,
			Now:    now,
		})
	})

	switch effect.Kind {
	case dialog.EffectUpdateSummary:
		if err := b.records.UpdateSummary(ctx, effect.RecordID, effect.Text); err != nil {
			logger.Error("failed to update summary", "record_id", effect.RecordID, "error", err)
			b.send(ctx, logger, cb.ChatID, MsgDeleteNotFound)
			return
		}
		b.send(ctx, logger, cb.ChatID, MsgSummaryUpdated)

	case dialog.EffectSetNote:
		if err := b.records.SetNote(ctx, effect.RecordID, effect.Text); err != nil {
			logger.Error("failed to set note", "record_id", effect.RecordID, "error", err)
			b.send(ctx, logger, cb.ChatID, MsgDeleteNotFound)
			return
		}
		b.send(ctx, logger, cb.ChatID, MsgNoteAdded)

	case dialog.EffectExpired:
		logger.Info("edit session expired, choice discarded", "record_id", effect.RecordID)

	case dialog.EffectNone:
		if session.State == dialog.StateAwaitingChoice {
			b.send(ctx, logger, cb.ChatID, MsgCancelled)
		}
	}
}

func (b *Bot) handleSum(ctx context.Context, logger *slog.Logger, msg Message, text string) {
	_, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)

	var dateStr string
	if arg != "" {
		if !datePattern.MatchString(arg) {
			b.send(ctx, logger, msg.ChatID, MsgDateFormatError)
			return
		}
		dateStr = arg
	} else {
		dateStr = b.now().In(b.reportLoc).Format("2006-01-02")
	}

	dayStart, err := time.ParseInLocation("2006-01-02", dateStr, b.reportLoc)
	if err != nil {
		b.send(ctx, logger, msg.ChatID, MsgDateFormatError)
		return
	}

	records, err := b.records.RecordsByDateRange(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		logger.Error("failed to load digest records", "date", dateStr, "error", err)
		b.send(ctx, logger, msg.ChatID, MsgProcessingFailed)
		return
	}
	if len(records) == 0 {
		b.send(ctx, logger, msg.ChatID, fmt.Sprintf(MsgNoRecordsForDate, dateStr))
		return
	}

	b.send(ctx, logger, msg.ChatID, FormatDigest(records, b.reportLoc))
}

func (b *Bot) handleDelete(ctx context.Context, logger *slog.Logger, msg Message, text string) {
	target := resolve.Message{Text: text}
	if msg.Reply != nil {
		target.ReplyVoiceRef = msg.Reply.VoiceRef
		target.ReplyText = msg.Reply.Text
	}

	id, err := b.resolver.Resolve(ctx, target)
	switch {
	case errors.Is(err, resolve.ErrUnresolvable):
		b.send(ctx, logger, msg.ChatID, MsgDeleteGuidance)
		return
	case errors.Is(err, storage.ErrNotFound):
		b.send(ctx, logger, msg.ChatID, MsgDeleteNotFound)
		return
	case err != nil:
		logger.Error("failed to resolve delete target", "error", err)
		b.send(ctx, logger, msg.ChatID, MsgProcessingFailed)
		return
	}

	if err := b.records.DeleteRecord(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			b.send(ctx, logger, msg.ChatID, MsgDeleteNotFound)
			return
		}
		logger.Error("failed to delete record", "record_id", id, "error", err)
		b.send(ctx, logger, msg.ChatID, MsgProcessingFailed)
		return
	}

	logger.Info("record deleted", "record_id", id)
	b.send(ctx, logger, msg.ChatID, fmt.Sprintf(MsgDeleteSuccess, id))
}

func (b *Bot) handleEditEntry(ctx context.Context, logger *slog.Logger, msg Message, text string) {
	m := summaryShapePattern.FindStringSubmatch(msg.Reply.Text)
	if m == nil {
		b.send(ctx, logger, msg.ChatID, MsgEditGuidance)
		return
	}

	n, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		b.send(ctx, logger, msg.ChatID, MsgDeleteNotFound)
		return
	}
	recordID := core.ID(n)

	if _, err := b.records.GetRecord(ctx, recordID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			b.send(ctx, logger, msg.ChatID, MsgDeleteNotFound)
			return
		}
		logger.Error("failed to load record for edit", "record_id", recordID, "error", err)
		b.send(ctx, logger, msg.ChatID, MsgProcessingFailed)
		return
	}

	key := dialog.Key{ChatID: msg.ChatID, UserID: msg.UserID}
	now := b.now()
	b.sessions.Update(key, now, func(s dialog.Session) (dialog.Session, dialog.Effect) {
		return dialog.Apply(s, dialog.Input{
			Kind:     dialog.InputOpen,
			RecordID: recordID,
			Text:     text,
			Now:      now,
			Timeout:  b.sessions.Timeout(),
		})
	})

	choices := []ChoiceButton{
		{Label: ButtonEditSummary, Data: CallbackEdit},
		{Label: ButtonAddNote, Data: CallbackNote},
		{Label: ButtonCancel, Data: CallbackCancel},
	}
	if err := b.responder.PromptChoice(ctx, msg.ChatID, MsgEditPrompt, choices); err != nil {
		logger.Error("failed to send choice prompt", "error", err)
	}
}

// ProcessingStarted implements ingestion.Notifier.
func (b *Bot) ProcessingStarted(ctx context.Context, event ingestion.VoiceEvent) error {
	return b.responder.Reply(ctx, event.ChatID, event.MessageID, MsgProcessing)
}

// RecordSaved implements ingestion.Notifier.
func (b *Bot) RecordSaved(ctx context.Context, event ingestion.VoiceEvent, record *core.VoiceRecord, degraded bool) error {
	return b.responder.Reply(ctx, event.ChatID, event.MessageID, FormatSummaryReply(record))
}

// RecognitionFailed implements ingestion.Notifier.
func (b *Bot) RecognitionFailed(ctx context.Context, event ingestion.VoiceEvent) error {
	return b.responder.Reply(ctx, event.ChatID, event.MessageID, MsgRecognitionFailed)
}

// ProcessingFailed implements ingestion.Notifier.
func (b *Bot) ProcessingFailed(ctx context.Context, event ingestion.VoiceEvent) error {
	return b.responder.Reply(ctx, event.ChatID, event.MessageID, MsgProcessingFailed)
}

func (b *Bot) send(ctx context.Context, logger *slog.Logger, chatID int64, text string) {
	if err := b.responder.Send(ctx, chatID, text); err != nil {
		logger.Error("failed to send message", "error", err)
	}
}

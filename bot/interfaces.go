package bot

import (
	"context"
	"time"
)

// ReplyContext carries what the user's message was a reply to.
type ReplyContext struct {
	// VoiceRef is the external ref of the replied-to voice attachment,
	// if any.
	VoiceRef string

	// Text is the text of the replied-to message, if any.
	Text string
}

// Message is one incoming chat message, already translated from the
// transport's update format.
type Message struct {
	// EventID correlates log lines across the handling of one update.
	EventID string

	ChatID    int64
	MessageID int64
	UserID    int64
	Username  string

	// Text is the message text. Empty for pure voice messages.
	Text string

	// VoiceRef is the external ref of an attached voice note, if any.
	VoiceRef string

	Timestamp time.Time

	// Reply is set when the message replies to another message.
	Reply *ReplyContext
}

// Callback is one inline keyboard button press.
type Callback struct {
	EventID   string
	ChatID    int64
	MessageID int64
	UserID    int64

	// Data is the button's callback payload.
	Data string
}

// ChoiceButton is one option of a choice prompt.
type ChoiceButton struct {
	Label string
	Data  string
}

// Responder sends outgoing messages through the transport.
// Implementations must be thread-safe for concurrent use.
type Responder interface {
	// Send delivers a message to a chat.
	Send(ctx context.Context, chatID int64, text string) error

	// Reply delivers a message threaded to an earlier message.
	Reply(ctx context.Context, chatID int64, replyTo int64, text string) error

	// PromptChoice delivers a message with inline choice buttons.
	PromptChoice(ctx context.Context, chatID int64, text string, choices []ChoiceButton) error
}

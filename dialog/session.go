package dialog

import (
	"time"

	"github.com/poiesic/voxnote/core"
)

// DefaultTimeout is how long a session waits for a choice before it
// expires.
const DefaultTimeout = 5 * time.Minute

// State identifies a session's position in the conversation.
type State int

const (
	// StateIdle means no conversation is in progress.
	StateIdle State = iota

	// StateAwaitingChoice means the user has supplied replacement text
	// and the session is waiting for them to choose what it is for.
	StateAwaitingChoice
)

// Session is the conversation state for one (chat, user) key.
// The zero value is an idle session.
type Session struct {
	State       State
	RecordID    core.ID
	PendingText string
	Deadline    time.Time
}

// Expired reports whether the session's deadline has passed at now.
// Idle sessions never expire.
func (s Session) Expired(now time.Time) bool {
	return s.State != StateIdle && now.After(s.Deadline)
}

// Choice is the user's answer to the pending-text prompt.
type Choice int

const (
	// ChoiceEdit replaces the record's summary with the pending text.
	ChoiceEdit Choice = iota

	// ChoiceNote attaches the pending text to the record as a note.
	ChoiceNote

	// ChoiceCancel discards the pending text.
	ChoiceCancel
)

// InputKind discriminates Input values.
type InputKind int

const (
	// InputOpen starts a session with pending text for a record.
	InputOpen InputKind = iota

	// InputChoice answers the prompt of an open session.
	InputChoice
)

// Input is one event fed to the state machine.
type Input struct {
	Kind     InputKind
	RecordID core.ID
	Text     string
	Choice   Choice
	Now      time.Time
	Timeout  time.Duration
}

// EffectKind discriminates Effect values.
type EffectKind int

const (
	// EffectNone means the caller has nothing to do.
	EffectNone EffectKind = iota

	// EffectPromptChoice means the caller should present the
	// edit/note/cancel prompt.
	EffectPromptChoice

	// EffectUpdateSummary means the caller should replace the record's
	// summary with Effect.Text.
	EffectUpdateSummary

	// EffectSetNote means the caller should attach Effect.Text to the
	// record as a note.
	EffectSetNote

	// EffectExpired means the session timed out and the input was
	// discarded.
	EffectExpired
)

// Effect tells the caller what a transition requires of it.
type Effect struct {
	Kind     EffectKind
	RecordID core.ID
	Text     string
}

// Apply advances the state machine. It is a pure function: the same
// session and input always produce the same next session and effect.
//
// Opening a session always succeeds and replaces whatever session was in
// progress. A choice against an expired session closes it without acting
// on the record. A choice with no session in progress is ignored.
func Apply(s Session, in Input) (Session, Effect) {
	switch in.Kind {
	case InputOpen:
		timeout := in.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		next := Session{
			State:       StateAwaitingChoice,
			RecordID:    in.RecordID,
			PendingText: in.Text,
			Deadline:    in.Now.Add(timeout),
		}
		return next, Effect{Kind: EffectPromptChoice, RecordID: in.RecordID}

	case InputChoice:
		if s.State != StateAwaitingChoice {
			return Session{}, Effect{Kind: EffectNone}
		}
		if s.Expired(in.Now) {
			return Session{}, Effect{Kind: EffectExpired, RecordID: s.RecordID}
		}

		switch in.Choice {
		case ChoiceEdit:
			return Session{}, Effect{
				Kind:     EffectUpdateSummary,
				RecordID: s.RecordID,
				Text:     s.PendingText,
			}
		case ChoiceNote:
			return Session{}, Effect{
				Kind:     EffectSetNote,
				RecordID: s.RecordID,
				Text:     s.PendingText,
			}
		default:
			return Session{}, Effect{Kind: EffectNone, RecordID: s.RecordID}
		}
	}

	return s, Effect{Kind: EffectNone}
}

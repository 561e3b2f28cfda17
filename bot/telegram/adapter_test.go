package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateMessageVoice(t *testing.T) {
	msg := &MessageData{
		MessageID: 100,
		Date:      1750000000,
		Chat:      &Chat{ID: 42},
		From:      &User{ID: 7, FirstName: "Ada"},
		Voice:     &Voice{FileID: "voice-file-1"},
	}

	out := translateMessage("evt-1", msg)

	assert.Equal(t, "evt-1", out.EventID)
	assert.Equal(t, int64(42), out.ChatID)
	assert.Equal(t, int64(100), out.MessageID)
	assert.Equal(t, int64(7), out.UserID)
	assert.Equal(t, "Ada", out.Username)
	assert.Equal(t, "voice-file-1", out.VoiceRef)
	assert.Equal(t, time.Unix(1750000000, 0).UTC(), out.Timestamp)
	assert.Nil(t, out.Reply)
}

func TestTranslateMessageReply(t *testing.T) {
	msg := &MessageData{
		MessageID: 101,
		Chat:      &Chat{ID: 42},
		Text:      "/delete",
		ReplyTo: &MessageData{
			MessageID: 90,
			Text:      "#3\nsummary text",
			Voice:     &Voice{FileID: "voice-file-2"},
		},
	}

	out := translateMessage("evt-2", msg)

	require.NotNil(t, out.Reply)
	assert.Equal(t, "voice-file-2", out.Reply.VoiceRef)
	assert.Equal(t, "#3\nsummary text", out.Reply.Text)
}

func TestTranslateCallback(t *testing.T) {
	cb := &CallbackQuery{
		ID:      "cb-1",
		From:    &User{ID: 7},
		Message: &MessageData{MessageID: 55, Chat: &Chat{ID: 42}},
		Data:    "edit",
	}

	out := translateCallback("evt-3", cb)

	assert.Equal(t, "evt-3", out.EventID)
	assert.Equal(t, int64(42), out.ChatID)
	assert.Equal(t, int64(55), out.MessageID)
	assert.Equal(t, int64(7), out.UserID)
	assert.Equal(t, "edit", out.Data)
}

func TestNewAdapterValidation(t *testing.T) {
	_, err := NewAdapter(nil, nil)
	assert.Error(t, err)
}

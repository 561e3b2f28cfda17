package storage

import (
	"testing"
	"time"

	"github.com/poiesic/voxnote/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalVoiceRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name   string
		record *core.VoiceRecord
	}{
		{
			name: "minimal record",
			record: &core.VoiceRecord{
				Id:          core.ID(1),
				ExternalRef: "AwACAgIAAxkBAAIBQ2Z1",
				Transcript:  "pick up the package after lunch",
				Summary:     "Pick up the package after lunch.",
				Timestamp:   now,
				AuthorID:    1001,
			},
		},
		{
			name: "record with note and display name",
			record: &core.VoiceRecord{
				Id:          core.ID(77),
				ExternalRef: "BQADAgADmQAD",
				Transcript:  "the quarterly numbers look better than expected",
				Summary:     "Quarterly numbers better than expected.",
				Note:        "share with finance",
				Timestamp:   now.Add(-48 * time.Hour),
				AuthorID:    -5,
				AuthorName:  "grace",
			},
		},
		{
			name: "record with unicode text",
			record: &core.VoiceRecord{
				Id:          core.ID(3),
				ExternalRef: "ref-unicode",
				Transcript:  "café rendezvous at 17:00 — не забудь",
				Summary:     "Café rendezvous at 17:00.",
				Timestamp:   now,
				AuthorID:    9,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalVoiceRecord(tt.record)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalVoiceRecord(data)
			require.NoError(t, err)
			assert.Equal(t, tt.record.Id, decoded.Id)
			assert.Equal(t, tt.record.ExternalRef, decoded.ExternalRef)
			assert.Equal(t, tt.record.Transcript, decoded.Transcript)
			assert.Equal(t, tt.record.Summary, decoded.Summary)
			assert.Equal(t, tt.record.Note, decoded.Note)
			assert.True(t, tt.record.Timestamp.Equal(decoded.Timestamp),
				"timestamp mismatch: %v vs %v", tt.record.Timestamp, decoded.Timestamp)
			assert.Equal(t, tt.record.AuthorID, decoded.AuthorID)
			assert.Equal(t, tt.record.AuthorName, decoded.AuthorName)
		})
	}
}

func TestUnmarshalVoiceRecord_Truncated(t *testing.T) {
	record := &core.VoiceRecord{
		Id:          core.ID(5),
		ExternalRef: "ref",
		Transcript:  "some transcript text",
		Summary:     "Some summary.",
		Timestamp:   time.Now().UTC(),
		AuthorID:    1,
	}
	data := MarshalVoiceRecord(record)

	_, err := UnmarshalVoiceRecord(data[:len(data)/2])
	assert.Error(t, err)
}

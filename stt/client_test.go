package stt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "voice.ogg", header.Filename)
		assert.Equal(t, "whisper-small", r.FormValue("model"))

		json.NewEncoder(w).Encode(map[string]string{"text": "  hello from the voice note  "})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, WithModel("whisper-small"))
	require.NoError(t, err)

	text, err := client.Transcribe(context.Background(), []byte("ogg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "hello from the voice note", text)
}

func TestTranscribeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.Transcribe(context.Background(), []byte("ogg-bytes"))
	assert.True(t, errors.Is(err, ErrTranscriptionFailed))
}

func TestTranscribeMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.Transcribe(context.Background(), []byte("ogg-bytes"))
	assert.True(t, errors.Is(err, ErrTranscriptionFailed))
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}

package ai_bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartConversation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/conversation", r.URL.Path)
		assert.Equal(t, "wake_word", r.URL.Query().Get("trigger"))
		assert.Equal(t, "kitchen", r.URL.Query().Get("device"))

		_, _ = w.Write([]byte("talked about dinosaurs"))
	}))
	defer server.Close()

	client, err := NewClient(&Config{ApiHost: server.URL + "/", DeviceID: "kitchen"})
	require.NoError(t, err)

	resp, err := client.StartConversation(context.Background(), "wake_word")
	require.NoError(t, err)
	require.Equal(t, "talked about dinosaurs", resp)
}

func TestStartConversation_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(&Config{ApiHost: server.URL})
	require.NoError(t, err)

	_, err = client.StartConversation(context.Background(), "motion")
	require.ErrorContains(t, err, "503")
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(nil)
	require.Error(t, err)

	_, err = NewClient(&Config{})
	require.Error(t, err)
}

package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendGridSenderPostsPayload(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendGridSender("key-123", srv.URL, "noreply@example.com", zap.NewNop())
	require.NoError(t, s.SendEmail("vendor@example.com", "Hello", "<p>Hi</p>"))

	assert.Equal(t, "Bearer key-123", gotAuth)
	assert.Equal(t, "Hello", gotBody["subject"])
	from := gotBody["from"].(map[string]any)
	assert.Equal(t, "noreply@example.com", from["email"])
}

func TestSendGridSenderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewSendGridSender("key-123", srv.URL, "noreply@example.com", zap.NewNop())
	err := s.SendEmail("vendor@example.com", "Hello", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendGridSenderDevMode(t *testing.T) {
	// No API key: log and report success without any network call.
	s := NewSendGridSender("", "http://127.0.0.1:1", "noreply@example.com", zap.NewNop())
	assert.NoError(t, s.SendEmail("vendor@example.com", "Hello", "body"))
}

func TestGraphAPISenderPostsMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	s := NewGraphAPISender("token-abc", "12345", "v17.0", zap.NewNop())
	s.BaseURL = srv.URL
	require.NoError(t, s.SendMessage("+919876543210", "Hello Acme"))

	assert.Equal(t, "/v17.0/12345/messages", gotPath)
	assert.Equal(t, "whatsapp", gotBody["messaging_product"])
	// The Graph API wants the number without the plus.
	assert.Equal(t, "919876543210", gotBody["to"])
	text := gotBody["text"].(map[string]any)
	assert.Equal(t, "Hello Acme", text["body"])
}

func TestGraphAPISenderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid token"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewGraphAPISender("token-abc", "12345", "v17.0", zap.NewNop())
	s.BaseURL = srv.URL
	err := s.SendMessage("+919876543210", "Hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestGraphAPISenderDevMode(t *testing.T) {
	s := NewGraphAPISender("", "", "v17.0", zap.NewNop())
	assert.NoError(t, s.SendMessage("+919876543210", "Hello"))
}

package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/mysterymessage/internal/logging"
	"github.com/dmitrijs2005/mysterymessage/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PicksImplementation(t *testing.T) {
	cfg := &config.Config{}
	assert.IsType(t, &LogMailer{}, New(cfg, logging.Nop{}))

	cfg.SendGridAPIKey = "sg-key"
	assert.IsType(t, &SendGridMailer{}, New(cfg, logging.Nop{}))
}

func TestLogMailer(t *testing.T) {
	m := NewLogMailer(logging.Nop{})
	assert.NoError(t, m.SendVerificationCode(context.Background(), "a@b.c", "alice", "123456"))
}

func TestSendGridMailer_Success(t *testing.T) {
	var got sgMailPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewSendGridMailer("sg-key", "no-reply@mm.test", "Mystery Message")
	m.endpoint = srv.URL

	require.NoError(t, m.SendVerificationCode(context.Background(), "alice@example.com", "alice", "042917"))

	require.Len(t, got.Personalizations, 1)
	assert.Equal(t, "alice@example.com", got.Personalizations[0].To[0].Email)
	assert.Equal(t, "no-reply@mm.test", got.From.Email)
	require.Len(t, got.Content, 1)
	assert.Contains(t, got.Content[0].Value, "042917")
}

func TestSendGridMailer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := NewSendGridMailer("sg-key", "no-reply@mm.test", "")
	m.endpoint = srv.URL

	err := m.SendVerificationCode(context.Background(), "alice@example.com", "alice", "1")
	assert.ErrorContains(t, err, "status 401")
}

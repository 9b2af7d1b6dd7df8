package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiliankoe/impostrico/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteWithSystem(t *testing.T) {
	var auth string
	var body struct {
		Model    string              `json:"model"`
		Messages []map[string]string `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  تفاح "}}]}`))
	}))
	defer srv.Close()

	got, err := New("sk-test", srv.URL+"/", 0).CompleteWithSystem(context.Background(), "", "sys", "fruit")
	require.NoError(t, err)

	assert.Equal(t, "تفاح", got)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, DefaultModel, body.Model)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "system", body.Messages[0]["role"])
}

func TestCompleteWithoutSystemPrompt(t *testing.T) {
	var body struct {
		Messages []map[string]string `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"x"}}]}`))
	}))
	defer srv.Close()

	_, err := New("sk", srv.URL, 0).Complete(context.Background(), "m", "p")
	require.NoError(t, err)
	require.Len(t, body.Messages, 1)
	assert.Equal(t, "user", body.Messages[0]["role"])
}

func TestCompleteErrors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		_, err := New("", "", 0).Complete(context.Background(), "", "x")
		assert.True(t, errors.Is(err, ai.ErrMissingKey))
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		_, err := New("sk", srv.URL, 0).Complete(context.Background(), "", "x")
		assert.True(t, errors.Is(err, ai.ErrNoAnswer))
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := New("sk", srv.URL, 0).Complete(context.Background(), "", "x")
		assert.EqualError(t, err, "openai status 502")
	})
}

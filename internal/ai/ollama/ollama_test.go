package ollama

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

func TestComplete(t *testing.T) {
	var body struct {
		Model  string `json:"model"`
		Stream bool   `json:"stream"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"message":{"content":"موز\n"}}`))
	}))
	defer srv.Close()

	got, err := New(srv.URL, 0).Complete(context.Background(), "", "fruit")
	require.NoError(t, err)
	assert.Equal(t, "موز", got)
	assert.Equal(t, DefaultModel, body.Model)
	assert.False(t, body.Stream)
}

func TestCompleteEmptyAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"content":""}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).Complete(context.Background(), "", "fruit")
	assert.True(t, errors.Is(err, ai.ErrNoAnswer))
}

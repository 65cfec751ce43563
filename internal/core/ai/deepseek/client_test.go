package deepseek

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary struct {
	Summary string   `json:"summary"`
	Tips    []string `json:"tips"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc, store cache.Store) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.DeepSeekConfig{
		APIKey:    "sk-test",
		BaseURL:   server.URL,
		TextModel: "deepseek-chat",
		Timeout:   5 * time.Second,
	}, store)
}

func TestCompleteJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deepseek-chat", req.Model)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		assert.Len(t, req.Messages, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"` +
			"```json\\n{\\\"summary\\\":\\\"Make pancakes\\\",\\\"tips\\\":[\\\"Rest the batter\\\"]}\\n```" +
			`"}}],"usage":{"total_tokens":42}}`))
	}, nil)

	var out summary
	err := client.CompleteJSON(context.Background(), []common.ChatMessage{
		common.SystemMessage("Return strict JSON"),
		common.UserMessage("pantry: egg, milk"),
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, "Make pancakes", out.Summary)
	assert.Equal(t, []string{"Rest the batter"}, out.Tips)
}

func TestCompleteJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr *common.CustomError
	}{
		{name: "non 2xx", status: http.StatusTooManyRequests, body: `{"error":"rate limited"}`, wantErr: common.ErrProviderResponse},
		{name: "malformed body", status: http.StatusOK, body: `not json`, wantErr: common.ErrProviderResponse},
		{name: "empty choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: common.ErrProviderResponse},
		{name: "content without json", status: http.StatusOK, body: `{"choices":[{"message":{"content":"sorry"}}]}`, wantErr: common.ErrProviderResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, nil)

			var out summary
			err := client.CompleteJSON(context.Background(), []common.ChatMessage{common.UserMessage("x")}, &out)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompleteJSONNotConfigured(t *testing.T) {
	client := NewClient(config.DeepSeekConfig{BaseURL: "http://127.0.0.1:1"}, nil)

	assert.False(t, client.Configured())
	err := client.CompleteJSON(context.Background(), nil, &summary{})
	assert.ErrorIs(t, err, common.ErrProviderNotConfigured)
}

func TestCompleteJSONUsesCache(t *testing.T) {
	var calls int32
	store := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute, CleanupInterval: time.Hour})
	defer store.Close()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"summary\":\"cached\"}"}}]}`))
	}, store)

	messages := []common.ChatMessage{common.UserMessage("same prompt")}
	for i := 0; i < 2; i++ {
		var out summary
		require.NoError(t, client.CompleteJSON(context.Background(), messages, &out))
		assert.Equal(t, "cached", out.Summary)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

type checkedSummary struct {
	Summary string `json:"summary"`
}

func (s *checkedSummary) Validate() error {
	if s.Summary == "" {
		return errors.New("summary is empty")
	}
	return nil
}

func TestCompleteJSONDoesNotCacheInvalidReply(t *testing.T) {
	var calls int32
	store := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute, CleanupInterval: time.Hour})
	defer store.Close()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"summary\":\"\"}"}}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"summary\":\"fresh\"}"}}]}`))
	}, store)

	messages := []common.ChatMessage{common.UserMessage("same prompt")}

	var first checkedSummary
	err := client.CompleteJSON(context.Background(), messages, &first)
	assert.ErrorIs(t, err, common.ErrProviderResponse)

	var second checkedSummary
	require.NoError(t, client.CompleteJSON(context.Background(), messages, &second))
	assert.Equal(t, "fresh", second.Summary)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// 有效回覆寫入快取後不再打上游
	var third checkedSummary
	require.NoError(t, client.CompleteJSON(context.Background(), messages, &third))
	assert.Equal(t, "fresh", third.Summary)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

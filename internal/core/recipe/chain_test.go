package recipe

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowText 延遲後才回覆，context 結束時返回其錯誤
type slowText struct {
	name  provider.Name
	delay time.Duration
	reply string
}

func (s *slowText) Name() provider.Name { return s.name }
func (s *slowText) Configured() bool    { return true }

func (s *slowText) CompleteJSON(ctx context.Context, _ []common.ChatMessage, out interface{}) error {
	select {
	case <-time.After(s.delay):
		return json.Unmarshal([]byte(s.reply), out)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestTextChainTimeoutFor(t *testing.T) {
	base := NewTextChain(time.Second, &fakeText{name: provider.DeepSeek}, nil)
	chain := base.WithProviderTimeout(provider.OpenAI, 3*time.Second)

	assert.Len(t, chain.Providers, 1)
	assert.Equal(t, time.Second, chain.TimeoutFor(provider.DeepSeek))
	assert.Equal(t, 3*time.Second, chain.TimeoutFor(provider.OpenAI))
	assert.Equal(t, time.Second, base.TimeoutFor(provider.OpenAI))
}

func TestTextChainAppliesTimeoutPerProvider(t *testing.T) {
	deepseek := &slowText{name: provider.DeepSeek, delay: time.Second, reply: `{"summary":"too late"}`}
	openai := &slowText{name: provider.OpenAI, delay: 100 * time.Millisecond, reply: `{"summary":"Roast the carrots."}`}

	chain := NewTextChain(30*time.Millisecond, deepseek, openai).
		WithProviderTimeout(provider.OpenAI, 2*time.Second)
	svc := NewNarrativeService(chain)

	got := svc.Generate(context.Background(), NarrativeInput{Pantry: []string{"carrot"}})

	require.NotNil(t, got)
	assert.Equal(t, "openai", got.Provider)
	assert.Equal(t, "Roast the carrots.", got.Summary)
}

func TestTextChainSharedTimeoutExhaustsSlowProviders(t *testing.T) {
	deepseek := &slowText{name: provider.DeepSeek, delay: time.Second, reply: `{"summary":"too late"}`}
	openai := &slowText{name: provider.OpenAI, delay: 100 * time.Millisecond, reply: `{"summary":"Roast the carrots."}`}
	svc := NewNarrativeService(NewTextChain(30*time.Millisecond, deepseek, openai))

	assert.Nil(t, svc.Generate(context.Background(), NarrativeInput{Pantry: []string{"carrot"}}))
}

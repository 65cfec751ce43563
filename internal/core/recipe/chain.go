package recipe

import (
	"time"

	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/pkg/common"
)

// TextChain 依序調用的文字模型供應商，通常為 DeepSeek 再 OpenAI。
// Timeout 為預設逾時，Timeouts 可為個別供應商覆寫。
type TextChain struct {
	Providers []provider.TextProvider
	Timeout   time.Duration
	Timeouts  map[provider.Name]time.Duration
}

// NewTextChain 創建供應商鏈，nil 供應商會被略過
func NewTextChain(timeout time.Duration, providers ...provider.TextProvider) TextChain {
	chain := TextChain{Timeout: timeout}
	for _, p := range providers {
		if p != nil {
			chain.Providers = append(chain.Providers, p)
		}
	}
	return chain
}

// WithProviderTimeout 返回為指定供應商設定逾時的副本
func (c TextChain) WithProviderTimeout(name provider.Name, timeout time.Duration) TextChain {
	timeouts := make(map[provider.Name]time.Duration, len(c.Timeouts)+1)
	for k, v := range c.Timeouts {
		timeouts[k] = v
	}
	timeouts[name] = timeout
	c.Timeouts = timeouts
	return c
}

// TimeoutFor 返回供應商實際使用的逾時
func (c TextChain) TimeoutFor(name provider.Name) time.Duration {
	if timeout, ok := c.Timeouts[name]; ok {
		return timeout
	}
	return c.Timeout
}

func candidates[T any](chain TextChain, operation string, messages []common.ChatMessage) []provider.Candidate[T] {
	out := make([]provider.Candidate[T], 0, len(chain.Providers))
	for _, p := range chain.Providers {
		out = append(out, provider.JSONCandidate[T](p, operation, messages, chain.TimeoutFor(p.Name())))
	}
	return out
}

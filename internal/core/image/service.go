package image

import (
	"context"
	"errors"
	"strings"
	"time"

	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/infrastructure/metrics"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

const imageQuerySystemPrompt = `Return strict JSON {"query":"..."}. Build an exact web image search query for the named cooked dish.`

// Service 菜餚圖片服務
type Service struct {
	generator provider.ImageGenerator
	querier   provider.TextProvider
	lookup    *Lookup
	timeouts  Timeouts
}

// Timeouts 各階段逾時
type Timeouts struct {
	Generate time.Duration
	Query    time.Duration
	Lookup   time.Duration
}

// searchQuery 圖片搜尋查詢回覆
type searchQuery struct {
	Query string `json:"query"`
}

// NewService 創建菜餚圖片服務，generator、querier、lookup 皆可為 nil
func NewService(generator provider.ImageGenerator, querier provider.TextProvider, lookup *Lookup, timeouts Timeouts) *Service {
	return &Service{
		generator: generator,
		querier:   querier,
		lookup:    lookup,
		timeouts:  timeouts,
	}
}

// GenerateDishImage 依 OpenAI 生成、DeepSeek 查詢加外部索引、SVG 佔位圖的順序取得圖片
func (s *Service) GenerateDishImage(ctx context.Context, payload DishPayload) provider.DishImageResult {
	prompt := BuildDishImagePrompt(payload)
	defaultQuery := BuildSearchTopic(payload)
	if defaultQuery == "" {
		defaultQuery = payload.Name
	}

	ops := provider.ImageOps{
		Placeholder: func(query string) string {
			name := payload.Name
			if name == "" {
				name = query
			}
			return Placeholder(name, payload.StylePrompt)
		},
		DefaultQuery: defaultQuery,
		Prompt:       prompt,
	}

	if s.generator != nil {
		ops.Generate = func(ctx context.Context, prompt string) provider.Outcome[string] {
			call := provider.WithTimeout(s.timeouts.Generate, func(ctx context.Context) provider.Outcome[string] {
				start := time.Now()
				url, err := s.generator.GenerateImage(ctx, prompt)
				if !errors.Is(err, common.ErrProviderNotConfigured) {
					common.LogProviderCall(string(provider.OpenAI), "image", time.Since(start), err)
					metrics.ObserveProvider(string(provider.OpenAI), "image", err == nil, time.Since(start))
				}
				return provider.FromError(url, err)
			})
			return call(ctx)
		}
	}

	if s.querier != nil {
		messages := []common.ChatMessage{
			common.SystemMessage(imageQuerySystemPrompt),
			common.UserMessage(defaultQuery),
		}
		candidate := provider.JSONCandidate[searchQuery](s.querier, "image_query", messages, s.timeouts.Query)
		ops.DeriveQuery = func(ctx context.Context) provider.Outcome[string] {
			outcome := candidate.Call(ctx)
			if !outcome.OK {
				return provider.Unavailable[string](outcome.Reason)
			}
			query := strings.TrimSpace(outcome.Value.Query)
			if query == "" {
				return provider.Unavailable[string]("empty query")
			}
			return provider.Some(query)
		}
	}

	if s.lookup != nil {
		ops.Lookup = func(ctx context.Context, query string) provider.Outcome[string] {
			call := provider.WithTimeout(s.timeouts.Lookup, func(ctx context.Context) provider.Outcome[string] {
				url, ok := s.lookup.Find(ctx, query)
				if !ok {
					return provider.Unavailable[string]("no external image")
				}
				return provider.Some(url)
			})
			return call(ctx)
		}
	}

	result := provider.ResolveImage(ctx, ops)
	metrics.ObserveImageSource(string(result.Source))
	common.LogInfo("菜餚圖片已產生",
		zap.String("name", payload.Name),
		zap.String("source", string(result.Source)),
		zap.String("query", result.Query),
	)
	return result
}

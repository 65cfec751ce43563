package provider

import (
	"context"
	"strings"
)

// ImageSource 圖片結果來源
type ImageSource string

const (
	ImageSourceOpenAI           ImageSource = "openai"
	ImageSourceDeepSeekExternal ImageSource = "deepseek_external"
	ImageSourceExternalFallback ImageSource = "external_fallback"
	ImageSourceFallbackSVG      ImageSource = "fallback_svg"
)

// DishImageResult 菜餚圖片結果
type DishImageResult struct {
	URL    string      `json:"url"`
	Source ImageSource `json:"source"`
	Prompt string      `json:"prompt"`
	Query  string      `json:"query,omitempty"`
}

// ImageOps 圖片解析鏈需要的各項操作，Placeholder 必須提供
type ImageOps struct {
	Generate     func(ctx context.Context, prompt string) Outcome[string]
	DeriveQuery  func(ctx context.Context) Outcome[string]
	Lookup       func(ctx context.Context, query string) Outcome[string]
	Placeholder  func(query string) string
	DefaultQuery string
	Prompt       string
}

// ResolveImage 依序嘗試直接生成、搜尋查詢加外部索引、佔位圖，一定返回結果
func ResolveImage(ctx context.Context, ops ImageOps) DishImageResult {
	if ops.Generate != nil {
		if outcome := ops.Generate(ctx, ops.Prompt); outcome.OK && outcome.Value != "" {
			return DishImageResult{URL: outcome.Value, Source: ImageSourceOpenAI, Prompt: ops.Prompt}
		}
	}

	query := strings.TrimSpace(ops.DefaultQuery)
	derived := false
	if ops.DeriveQuery != nil {
		if outcome := ops.DeriveQuery(ctx); outcome.OK && strings.TrimSpace(outcome.Value) != "" {
			query = strings.TrimSpace(outcome.Value)
			derived = true
		}
	}

	if ops.Lookup != nil && query != "" {
		if outcome := ops.Lookup(ctx, query); outcome.OK && outcome.Value != "" {
			source := ImageSourceExternalFallback
			if derived {
				source = ImageSourceDeepSeekExternal
			}
			return DishImageResult{URL: outcome.Value, Source: source, Prompt: ops.Prompt, Query: query}
		}
	}

	return DishImageResult{
		URL:    ops.Placeholder(query),
		Source: ImageSourceFallbackSVG,
		Prompt: ops.Prompt,
		Query:  query,
	}
}

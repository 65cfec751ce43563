package provider

import (
	"context"

	"recipe-assistant/internal/pkg/common"
)

// Name AI 供應商識別名稱
type Name string

const (
	DeepSeek Name = "deepseek"
	OpenAI   Name = "openai"
	Fallback Name = "fallback"
)

// TextProvider 以 JSON 物件回覆的文字模型
type TextProvider interface {
	// Name 供應商名稱
	Name() Name

	// Configured 是否已設定 API Key
	Configured() bool

	// CompleteJSON 送出對話並把回覆的 JSON 物件解析到 out
	CompleteJSON(ctx context.Context, messages []common.ChatMessage, out interface{}) error
}

// ImageGenerator 直接生成圖片的供應商
type ImageGenerator interface {
	// GenerateImage 返回圖片 URL 或 data URI
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	cacheNamespace = "openai"
	imageSize      = "1024x1024"
)

// Client OpenAI Responses 與 Images 客戶端
type Client struct {
	client *resty.Client
	config config.OpenAIConfig
	cache  cache.Store
}

// ResponsesRequest /v1/responses 請求
type ResponsesRequest struct {
	Model string               `json:"model"`
	Input []common.ChatMessage `json:"input"`
	Text  TextOptions          `json:"text"`
}

// TextOptions 回覆格式設定
type TextOptions struct {
	Format struct {
		Type string `json:"type"`
	} `json:"format"`
}

// ResponsesResponse /v1/responses 響應
type ResponsesResponse struct {
	OutputText string       `json:"output_text"`
	Output     []OutputItem `json:"output"`
}

// OutputItem 輸出項目
type OutputItem struct {
	Content []OutputContent `json:"content"`
}

// OutputContent 輸出內容
type OutputContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ImageRequest /v1/images/generations 請求
type ImageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
}

// ImageResponse /v1/images/generations 響應
type ImageResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// NewClient 創建新的 OpenAI 客戶端，store 可為 nil
func NewClient(cfg config.OpenAIConfig, store cache.Store) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &Client{
		client: client,
		config: cfg,
		cache:  store,
	}
}

// Name 供應商名稱
func (c *Client) Name() provider.Name {
	return provider.OpenAI
}

// Configured 是否已設定 API Key
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.config.APIKey) != ""
}

// CompleteJSON 以 json_object 格式呼叫 Responses API 並解析輸出文字
func (c *Client) CompleteJSON(ctx context.Context, messages []common.ChatMessage, out interface{}) error {
	if !c.Configured() {
		return common.ErrProviderNotConfigured
	}

	req := &ResponsesRequest{
		Model: c.config.TextModel,
		Input: messages,
	}
	req.Text.Format.Type = "json_object"

	cacheKey := ""
	if c.cache != nil {
		if key, err := common.ToJSON(req); err == nil {
			cacheKey = key
			if content, ok := c.cache.Get(ctx, cacheNamespace, cacheKey); ok {
				return common.DecodeModelReply(content, out)
			}
		}
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/v1/responses")
	if err != nil {
		return fmt.Errorf("openai: send request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return common.Wrap(common.ErrProviderResponse,
			fmt.Errorf("openai: status %d: %s", resp.StatusCode(), truncate(resp.String())))
	}

	var response ResponsesResponse
	if err := common.ParseJSONBytes(resp.Body(), &response); err != nil {
		return common.Wrap(common.ErrProviderResponse, fmt.Errorf("openai: parse response: %w", err))
	}

	content := response.Text()
	if content == "" {
		return common.Wrap(common.ErrProviderResponse, fmt.Errorf("openai: empty output"))
	}
	if err := common.DecodeModelReply(content, out); err != nil {
		return common.Wrap(common.ErrProviderResponse, fmt.Errorf("openai: decode content: %w", err))
	}

	if cacheKey != "" {
		if err := c.cache.Set(ctx, cacheNamespace, cacheKey, content); err != nil {
			common.LogDebug("OpenAI 回覆未寫入快取", zap.Error(err))
		}
	}
	return nil
}

// Text 返回 output_text，沒有時取第一個 output_text 內容
func (r *ResponsesResponse) Text() string {
	if text := strings.TrimSpace(r.OutputText); text != "" {
		return text
	}
	for _, item := range r.Output {
		for _, content := range item.Content {
			if content.Type == "output_text" && strings.TrimSpace(content.Text) != "" {
				return strings.TrimSpace(content.Text)
			}
		}
	}
	return ""
}

// GenerateImage 生成 1024x1024 圖片，返回可直接顯示的 URL 或 data URI
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", common.ErrProviderNotConfigured
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&ImageRequest{
			Model:  c.config.ImageModel,
			Prompt: prompt,
			Size:   imageSize,
		}).
		Post("/v1/images/generations")
	if err != nil {
		return "", fmt.Errorf("openai: send image request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", common.Wrap(common.ErrProviderResponse,
			fmt.Errorf("openai: image status %d: %s", resp.StatusCode(), truncate(resp.String())))
	}

	var response ImageResponse
	if err := common.ParseJSONBytes(resp.Body(), &response); err != nil {
		return "", common.Wrap(common.ErrProviderResponse, fmt.Errorf("openai: parse image response: %w", err))
	}
	if len(response.Data) == 0 {
		return "", common.Wrap(common.ErrProviderResponse, fmt.Errorf("openai: empty image data"))
	}

	first := response.Data[0]
	if common.IsRenderableImageURL(first.URL) {
		return first.URL, nil
	}
	if first.B64JSON != "" {
		return "data:image/png;base64," + first.B64JSON, nil
	}
	return "", common.Wrap(common.ErrProviderResponse, fmt.Errorf("openai: image has neither url nor b64_json"))
}

func truncate(text string) string {
	if strings.Contains(text, "b64_json") || strings.Contains(text, "data:image/") {
		return "[IMAGE_DATA_REMOVED]"
	}
	if len(text) > 300 {
		return text[:300] + "..."
	}
	return text
}

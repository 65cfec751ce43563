package deepseek

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

const cacheNamespace = "deepseek"

// Client DeepSeek chat completions 客戶端
type Client struct {
	client *resty.Client
	config config.DeepSeekConfig
	cache  cache.Store
}

// Request 表示 API 請求
type Request struct {
	Model          string               `json:"model"`
	Messages       []common.ChatMessage `json:"messages"`
	ResponseFormat *ResponseFormat      `json:"response_format,omitempty"`
	Temperature    float64              `json:"temperature,omitempty"`
	Stream         bool                 `json:"stream"`
}

// ResponseFormat 回覆格式
type ResponseFormat struct {
	Type string `json:"type"`
}

// Response chat completions 響應結構
type Response struct {
	ID      string    `json:"id"`
	Choices []Choice  `json:"choices"`
	Usage   UsageInfo `json:"usage"`
}

// Choice 選擇結構
type Choice struct {
	Message common.ChatMessage `json:"message"`
}

// UsageInfo 使用量信息
type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewClient 創建新的 DeepSeek 客戶端，store 可為 nil
func NewClient(cfg config.DeepSeekConfig, store cache.Store) *Client {
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
	return provider.DeepSeek
}

// Configured 是否已設定 API Key
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.config.APIKey) != ""
}

// CompleteJSON 以 json_object 模式送出對話並解析回覆內容
func (c *Client) CompleteJSON(ctx context.Context, messages []common.ChatMessage, out interface{}) error {
	if !c.Configured() {
		return common.ErrProviderNotConfigured
	}

	req := &Request{
		Model:          c.config.TextModel,
		Messages:       messages,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
		Temperature:    0.2,
	}

	cacheKey := ""
	if c.cache != nil {
		if key, err := common.ToJSON(req); err == nil {
			cacheKey = key
			if content, ok := c.cache.Get(ctx, cacheNamespace, cacheKey); ok {
				return common.DecodeModelReply(content, out)
			}
		}
	}

	content, err := c.complete(ctx, req)
	if err != nil {
		return err
	}

	// 只快取通過檢查的回覆
	if err := common.DecodeModelReply(content, out); err != nil {
		return common.Wrap(common.ErrProviderResponse, fmt.Errorf("deepseek: decode content: %w", err))
	}

	if cacheKey != "" {
		if err := c.cache.Set(ctx, cacheNamespace, cacheKey, content); err != nil {
			common.LogDebug("DeepSeek 回覆未寫入快取", zap.Error(err))
		}
	}
	return nil
}

// complete 發送請求並返回第一個選擇的內容
func (c *Client) complete(ctx context.Context, req *Request) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("deepseek: send request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", common.Wrap(common.ErrProviderResponse,
			fmt.Errorf("deepseek: status %d: %s", resp.StatusCode(), sanitizeResponse(resp.Body())))
	}

	var response Response
	if err := common.ParseJSONBytes(resp.Body(), &response); err != nil {
		return "", common.Wrap(common.ErrProviderResponse, fmt.Errorf("deepseek: parse response: %w", err))
	}

	if len(response.Choices) == 0 || strings.TrimSpace(response.Choices[0].Message.Content) == "" {
		return "", common.Wrap(common.ErrProviderResponse, fmt.Errorf("deepseek: empty choices in response"))
	}

	common.LogDebug("DeepSeek 回覆成功",
		zap.String("model", req.Model),
		zap.Int("total_tokens", response.Usage.TotalTokens),
	)

	return response.Choices[0].Message.Content, nil
}

// sanitizeResponse 截短錯誤回覆並移除圖片數據
func sanitizeResponse(body []byte) string {
	text := string(body)
	if strings.Contains(text, "data:image/") || strings.Contains(text, "base64") {
		return "[IMAGE_DATA_REMOVED]"
	}
	if len(text) > 300 {
		return text[:300] + "..."
	}
	return text
}

package common

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WriteError 以 gin 寫入錯誤響應並中止後續處理
func WriteError(c *gin.Context, err error) {
	status, body := errorBody(err)
	if status >= http.StatusInternalServerError {
		LogError("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, body)
}

// errorBody 只回傳預定義訊息或驗證訊息，其餘錯誤細節僅寫入日誌
func errorBody(err error) (int, ErrorResponse) {
	status, code := StatusOf(err)
	var ce *CustomError
	if errors.As(err, &ce) {
		return status, ErrorResponse{Code: code, Message: ce.Message}
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return status, ErrorResponse{Code: code, Message: ve.Error()}
	}
	return status, ErrorResponse{Code: code, Message: ErrInternalError.Message}
}

// Clamp 將數值限制在 [lo, hi]
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsRenderableImageURL 是否為瀏覽器可直接顯示的圖片位址
func IsRenderableImageURL(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	if strings.HasPrefix(raw, "data:image/") {
		return true
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "https" || parsed.Scheme == "http") && parsed.Host != ""
}

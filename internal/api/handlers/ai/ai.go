package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"recipe-assistant/internal/core/cooknow"
	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CookNowEvaluator 依食材庫評估可煮的食譜
type CookNowEvaluator interface {
	Evaluate(ctx context.Context, req recipe.CookNowRequest) (*recipe.CookNowResponse, error)
}

// MetadataSuggester 產生食譜中繼資料建議
type MetadataSuggester interface {
	Suggest(ctx context.Context, draft recipe.Draft) common.MetadataSuggestion
}

// RecipeImager 為食譜產生圖片
type RecipeImager interface {
	GenerateImage(ctx context.Context, id, stylePrompt string) (*recipe.ImageResult, error)
}

// CookNowRequest cook-now 請求，pantry 省略時使用已儲存的食材庫
type CookNowRequest struct {
	Pantry             []string `json:"pantry"`
	CuisineType        string   `json:"cuisineType" binding:"max=60"`
	MaxPrepTimeMinutes int      `json:"maxPrepTimeMinutes" binding:"min=0,max=1440"`
	Difficulty         string   `json:"difficulty"`
}

// MetadataRequest 中繼資料建議請求
type MetadataRequest struct {
	Name         string                   `json:"name" binding:"required,min=2"`
	Ingredients  []recipe.DraftIngredient `json:"ingredients" binding:"required,min=1,dive"`
	Instructions string                   `json:"instructions" binding:"required,min=10"`
}

// GenerateImageRequest 食譜圖片請求
type GenerateImageRequest struct {
	StylePrompt string `json:"stylePrompt" binding:"max=200"`
}

// GenerateImageResponse 食譜圖片結果
type GenerateImageResponse struct {
	*recipe.ImageResult
	AIConfigured bool `json:"aiConfigured"`
}

// Handler AI 相關處理程序
type Handler struct {
	cookNow      CookNowEvaluator
	metadata     MetadataSuggester
	images       RecipeImager
	aiConfigured bool
}

// NewHandler 創建 AI 處理程序
func NewHandler(cookNow CookNowEvaluator, metadata MetadataSuggester, images RecipeImager, aiConfigured bool) *Handler {
	return &Handler{
		cookNow:      cookNow,
		metadata:     metadata,
		images:       images,
		aiConfigured: aiConfigured,
	}
}

// HandleCookNow 推薦現在可以煮的食譜
func (h *Handler) HandleCookNow(c *gin.Context) {
	requestID := requestid.Get(c)

	var req CookNowRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		common.LogError("cook-now 請求格式錯誤", zap.String("request_id", requestID), zap.Error(err))
		common.WriteError(c, common.Wrap(common.ErrInvalidRequest, err))
		return
	}

	filters := cooknow.Filters{
		CuisineType:        strings.TrimSpace(req.CuisineType),
		MaxPrepTimeMinutes: req.MaxPrepTimeMinutes,
	}
	if strings.TrimSpace(req.Difficulty) != "" {
		difficulty, ok := common.ParseDifficulty(req.Difficulty)
		if !ok {
			common.WriteError(c, common.NewValidationError("difficulty must be EASY, MEDIUM or HARD"))
			return
		}
		filters.Difficulty = difficulty
	}

	result, err := h.cookNow.Evaluate(c.Request.Context(), recipe.CookNowRequest{
		Pantry:  req.Pantry,
		Filters: filters,
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}

	common.LogInfo("cook-now 評估完成",
		zap.String("request_id", requestID),
		zap.Int("can_cook_now", len(result.CanCookNow)),
		zap.Int("can_almost_cook", len(result.CanAlmostCook)),
		zap.Bool("used_relaxed_filters", result.UsedRelaxedFilters),
	)
	c.JSON(http.StatusOK, result)
}

// HandleMetadata 建議食譜中繼資料
func (h *Handler) HandleMetadata(c *gin.Context) {
	requestID := requestid.Get(c)

	var req MetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("中繼資料請求格式錯誤", zap.String("request_id", requestID), zap.Error(err))
		common.WriteError(c, common.Wrap(common.ErrInvalidRequest, err))
		return
	}

	suggestion := h.metadata.Suggest(c.Request.Context(), recipe.Draft{
		Name:         req.Name,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
	})
	c.JSON(http.StatusOK, suggestion)
}

// HandleGenerateImage 為食譜產生圖片
func (h *Handler) HandleGenerateImage(c *gin.Context) {
	requestID := requestid.Get(c)

	var req GenerateImageRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		common.LogError("圖片請求格式錯誤", zap.String("request_id", requestID), zap.Error(err))
		common.WriteError(c, common.Wrap(common.ErrInvalidRequest, err))
		return
	}

	result, err := h.images.GenerateImage(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.StylePrompt))
	if err != nil {
		common.WriteError(c, err)
		return
	}

	common.LogInfo("食譜圖片已更新",
		zap.String("request_id", requestID),
		zap.String("recipe_id", result.Recipe.ID),
		zap.String("source", string(result.Source)),
	)
	c.JSON(http.StatusOK, GenerateImageResponse{ImageResult: result, AIConfigured: h.aiConfigured})
}

// bindOptionalJSON 解析 JSON 請求體，空請求體視為全部欄位未設定
func bindOptionalJSON(c *gin.Context, out interface{}) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

package recipe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	recipeService "recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/infrastructure/persistence"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecipeService 食譜服務
type RecipeService interface {
	Create(ctx context.Context, input recipeService.CreateInput) (*persistence.Recipe, error)
	List(ctx context.Context, filter persistence.RecipeFilter) ([]persistence.Recipe, error)
	Get(ctx context.Context, id string) (*persistence.Recipe, error)
}

// Importer 外部食譜匯入
type Importer interface {
	ImportMealDB(ctx context.Context, count int) (*recipeService.ImportResult, error)
}

// ImportRequest 匯入請求，count 省略時使用預設值
type ImportRequest struct {
	Count int `json:"count" binding:"omitempty,min=1,max=200"`
}

// Handler 食譜處理程序
type Handler struct {
	recipes  RecipeService
	importer Importer
}

// NewHandler 創建新的食譜處理程序
func NewHandler(recipes RecipeService, importer Importer) *Handler {
	return &Handler{
		recipes:  recipes,
		importer: importer,
	}
}

// HandleList 列出食譜
func (h *Handler) HandleList(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		common.WriteError(c, err)
		return
	}

	recipes, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	if recipes == nil {
		recipes = []persistence.Recipe{}
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// HandleGet 取得單一食譜
func (h *Handler) HandleGet(c *gin.Context) {
	recipe, err := h.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// HandleCreate 新增食譜，缺少的中繼資料自動補全
func (h *Handler) HandleCreate(c *gin.Context) {
	requestID := requestid.Get(c)

	var input recipeService.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.LogError("食譜請求格式錯誤", zap.String("request_id", requestID), zap.Error(err))
		common.WriteError(c, common.Wrap(common.ErrInvalidRequest, err))
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), input)
	if err != nil {
		common.WriteError(c, err)
		return
	}

	common.LogInfo("食譜已新增",
		zap.String("request_id", requestID),
		zap.String("recipe_id", recipe.ID),
		zap.String("difficulty", recipe.Difficulty),
	)
	c.JSON(http.StatusCreated, recipe)
}

// HandleImport 從 TheMealDB 匯入系統食譜
func (h *Handler) HandleImport(c *gin.Context) {
	requestID := requestid.Get(c)

	var req ImportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			common.WriteError(c, common.Wrap(common.ErrInvalidRequest, err))
			return
		}
	}
	if req.Count == 0 {
		req.Count = recipeService.DefaultImportCount
	}

	result, err := h.importer.ImportMealDB(c.Request.Context(), req.Count)
	if err != nil {
		common.WriteError(c, err)
		return
	}

	common.LogInfo("食譜匯入完成",
		zap.String("request_id", requestID),
		zap.Int("requested", result.Requested),
		zap.Int("created", result.Created),
		zap.Int("total", result.Total),
	)
	c.JSON(http.StatusOK, result)
}

// parseFilter 解析列表查詢參數
func parseFilter(c *gin.Context) (persistence.RecipeFilter, error) {
	filter := persistence.RecipeFilter{
		CuisineType: strings.TrimSpace(c.Query("cuisineType")),
		SystemOnly:  c.Query("system") == "true",
	}

	if raw := c.Query("maxPrepTimeMinutes"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return filter, common.NewValidationError("maxPrepTimeMinutes must be a non-negative integer")
		}
		filter.MaxPrepTimeMinutes = v
	}

	if raw := c.Query("difficulty"); raw != "" {
		difficulty, ok := common.ParseDifficulty(raw)
		if !ok {
			return filter, common.NewValidationError("difficulty must be EASY, MEDIUM or HARD")
		}
		filter.Difficulty = string(difficulty)
	}

	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return filter, common.NewValidationError("limit must be a positive integer")
		}
		filter.Limit = v
	}
	return filter, nil
}

package admin

import (
	"context"
	"net/http"

	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Backfiller 批次補全既有食譜
type Backfiller interface {
	BackfillMetadata(ctx context.Context, limit int) (*recipe.BackfillReport, error)
	BackfillImages(ctx context.Context, limit int) (*recipe.BackfillReport, error)
}

// Handler 管理端處理程序
type Handler struct {
	backfiller Backfiller
}

// NewHandler 創建管理端處理程序
func NewHandler(backfiller Backfiller) *Handler {
	return &Handler{backfiller: backfiller}
}

// HandleBackfillMetadata 補全缺少中繼資料的食譜
func (h *Handler) HandleBackfillMetadata(c *gin.Context) {
	h.run(c, "metadata", h.backfiller.BackfillMetadata)
}

// HandleBackfillImages 補上缺少或無法顯示的食譜圖片
func (h *Handler) HandleBackfillImages(c *gin.Context) {
	h.run(c, "images", h.backfiller.BackfillImages)
}

func (h *Handler) run(c *gin.Context, kind string, backfill func(context.Context, int) (*recipe.BackfillReport, error)) {
	limit := recipe.ParseBackfillLimit(c.Query("limit"))

	common.LogInfo("開始批次補全",
		zap.String("request_id", requestid.Get(c)),
		zap.String("kind", kind),
		zap.Int("limit", limit),
	)

	report, err := backfill(c.Request.Context(), limit)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

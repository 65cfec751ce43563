package pantry

import (
	"context"
	"net/http"
	"strings"
	"time"

	"recipe-assistant/internal/infrastructure/persistence"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Store 食材庫存取
type Store interface {
	ListPantry(ctx context.Context) ([]persistence.PantryItem, error)
	CreatePantryItem(ctx context.Context, item *persistence.PantryItem) error
	UpdatePantryItem(ctx context.Context, item *persistence.PantryItem) error
	DeletePantryItem(ctx context.Context, id string) error
}

// ItemRequest 新增或更新食材庫項目
type ItemRequest struct {
	Name       string     `json:"name" binding:"required,min=1,max=100"`
	Quantity   string     `json:"quantity" binding:"max=50"`
	Unit       string     `json:"unit" binding:"max=30"`
	ExpiryDate *time.Time `json:"expiryDate"`
}

func (r ItemRequest) toItem() *persistence.PantryItem {
	return &persistence.PantryItem{
		Name:       strings.TrimSpace(r.Name),
		Quantity:   strings.TrimSpace(r.Quantity),
		Unit:       strings.TrimSpace(r.Unit),
		ExpiryDate: r.ExpiryDate,
	}
}

// Handler 食材庫處理程序
type Handler struct {
	store Store
}

// NewHandler 創建食材庫處理程序
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// HandleList 列出食材庫
func (h *Handler) HandleList(c *gin.Context) {
	items, err := h.store.ListPantry(c.Request.Context())
	if err != nil {
		common.WriteError(c, err)
		return
	}
	if items == nil {
		items = []persistence.PantryItem{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// HandleCreate 新增食材
func (h *Handler) HandleCreate(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.Wrap(common.ErrInvalidRequest, err))
		return
	}

	item := req.toItem()
	if item.Name == "" {
		common.WriteError(c, common.NewValidationError("name is required"))
		return
	}
	if err := h.store.CreatePantryItem(c.Request.Context(), item); err != nil {
		common.WriteError(c, err)
		return
	}

	common.LogInfo("食材已加入食材庫",
		zap.String("request_id", requestid.Get(c)),
		zap.String("item_id", item.ID),
	)
	c.JSON(http.StatusCreated, item)
}

// HandleUpdate 更新食材
func (h *Handler) HandleUpdate(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.Wrap(common.ErrInvalidRequest, err))
		return
	}

	item := req.toItem()
	item.ID = c.Param("id")
	if err := h.store.UpdatePantryItem(c.Request.Context(), item); err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// HandleDelete 刪除食材
func (h *Handler) HandleDelete(c *gin.Context) {
	if err := h.store.DeletePantryItem(c.Request.Context(), c.Param("id")); err != nil {
		common.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

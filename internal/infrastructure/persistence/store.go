package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-assistant/internal/pkg/common"

	"gorm.io/gorm"
)

// RecipeFilter 食譜查詢條件，零值欄位不參與篩選
type RecipeFilter struct {
	CuisineType        string
	MaxPrepTimeMinutes int
	Difficulty         string
	SystemOnly         bool
	Limit              int
}

// MetadataUpdate 可由補全流程寫回的欄位
type MetadataUpdate struct {
	CuisineType           string
	PrepTimeMinutes       int
	CookTimeMinutes       int
	Servings              int
	Difficulty            string
	Tags                  []string
	AISuggestedMetadata   map[string]interface{}
	IsAIMetadataConfirmed bool
}

// ImageUpdate 圖片欄位
type ImageUpdate struct {
	URL    string
	Source string
	Query  string
	Prompt string
}

// Store 食譜與食材庫存取
type Store struct {
	db *gorm.DB
}

// NewStore 創建存取層
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Ping 檢查資料庫連線
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ListPantry 列出食材庫，最新的在前
func (s *Store) ListPantry(ctx context.Context) ([]PantryItem, error) {
	var items []PantryItem
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list pantry: %w", err)
	}
	return items, nil
}

// CreatePantryItem 新增食材庫項目
func (s *Store) CreatePantryItem(ctx context.Context, item *PantryItem) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create pantry item: %w", err)
	}
	return nil
}

// UpdatePantryItem 更新食材庫項目
func (s *Store) UpdatePantryItem(ctx context.Context, item *PantryItem) error {
	result := s.db.WithContext(ctx).Model(&PantryItem{}).
		Where("id = ?", item.ID).
		Select("name", "quantity", "unit", "expiry_date").
		Updates(item)
	if result.Error != nil {
		return fmt.Errorf("update pantry item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrPantryItemNotFound
	}
	return s.db.WithContext(ctx).First(item, "id = ?", item.ID).Error
}

// DeletePantryItem 刪除食材庫項目
func (s *Store) DeletePantryItem(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&PantryItem{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete pantry item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrPantryItemNotFound
	}
	return nil
}

// CreateRecipe 新增食譜與其食材
func (s *Store) CreateRecipe(ctx context.Context, recipe *Recipe) error {
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	return nil
}

// GetRecipe 依 ID 取得食譜
func (s *Store) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	var recipe Recipe
	err := s.withIngredients(ctx).First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return &recipe, nil
}

// ListRecipes 依條件列出食譜
func (s *Store) ListRecipes(ctx context.Context, filter RecipeFilter) ([]Recipe, error) {
	query := s.withIngredients(ctx)

	if cuisine := strings.TrimSpace(filter.CuisineType); cuisine != "" {
		query = query.Where("LOWER(cuisine_type) LIKE ?", "%"+strings.ToLower(cuisine)+"%")
	}
	if filter.MaxPrepTimeMinutes > 0 {
		query = query.Where("prep_time_minutes <= ?", filter.MaxPrepTimeMinutes)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.SystemOnly {
		query = query.Where("is_system = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var recipes []Recipe
	if err := query.Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// RecipeNames 返回食譜名稱，用於匯入去重
func (s *Store) RecipeNames(ctx context.Context, systemOnly bool) ([]string, error) {
	query := s.db.WithContext(ctx).Model(&Recipe{})
	if systemOnly {
		query = query.Where("is_system = ?", true)
	}
	var names []string
	if err := query.Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("list recipe names: %w", err)
	}
	return names, nil
}

// RecipesMissingMetadata 缺少難度、時間或份量的食譜
func (s *Store) RecipesMissingMetadata(ctx context.Context, limit int) ([]Recipe, error) {
	var recipes []Recipe
	err := s.withIngredients(ctx).
		Where("difficulty IS NULL OR difficulty = '' OR prep_time_minutes IS NULL OR prep_time_minutes <= 0 OR cook_time_minutes IS NULL OR cook_time_minutes <= 0 OR servings IS NULL OR servings <= 0").
		Order("updated_at DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("list recipes missing metadata: %w", err)
	}
	return recipes, nil
}

// RecipesMissingImage 沒有可用圖片的食譜
func (s *Store) RecipesMissingImage(ctx context.Context, limit int) ([]Recipe, error) {
	var recipes []Recipe
	err := s.withIngredients(ctx).
		Where("image_url IS NULL OR image_url = '' OR image_url LIKE ? OR image_url LIKE ?", "data:text%", "%undefined%").
		Order("updated_at DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("list recipes missing image: %w", err)
	}
	return recipes, nil
}

// UpdateRecipeMetadata 寫回補全後的中繼資料
func (s *Store) UpdateRecipeMetadata(ctx context.Context, id string, update MetadataUpdate) error {
	result := s.db.WithContext(ctx).Model(&Recipe{}).Where("id = ?", id).Updates(map[string]interface{}{
		"cuisine_type":             update.CuisineType,
		"prep_time_minutes":        update.PrepTimeMinutes,
		"cook_time_minutes":        update.CookTimeMinutes,
		"servings":                 update.Servings,
		"difficulty":               update.Difficulty,
		"tags":                     StringSlice(update.Tags),
		"ai_suggested_metadata":    JSONField(update.AISuggestedMetadata),
		"is_ai_metadata_confirmed": update.IsAIMetadataConfirmed,
	})
	if result.Error != nil {
		return fmt.Errorf("update recipe metadata: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrRecipeNotFound
	}
	return nil
}

// UpdateRecipeImage 寫回圖片並返回更新後的食譜
func (s *Store) UpdateRecipeImage(ctx context.Context, id string, update ImageUpdate) (*Recipe, error) {
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&Recipe{}).Where("id = ?", id).Updates(map[string]interface{}{
		"image_url":          update.URL,
		"image_source":       update.Source,
		"image_query":        update.Query,
		"image_prompt":       update.Prompt,
		"image_generated_at": &now,
	})
	if result.Error != nil {
		return nil, fmt.Errorf("update recipe image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, common.ErrRecipeNotFound
	}
	return s.GetRecipe(ctx, id)
}

func (s *Store) withIngredients(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

package recipe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-assistant/internal/infrastructure/persistence"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	DefaultImportCount = 100
	MaxImportCount     = 200

	imageSourceMealDB = "themealdb"
	importLetters     = "abcdefghijklmnopqrstuvwxyz"
)

// ImportStore 匯入所需的資料存取
type ImportStore interface {
	RecipeNames(ctx context.Context, systemOnly bool) ([]string, error)
	CreateRecipe(ctx context.Context, recipe *persistence.Recipe) error
}

// ImportResult 匯入統計
type ImportResult struct {
	Requested int `json:"requested"`
	Existing  int `json:"existing"`
	Created   int `json:"created"`
	Total     int `json:"total"`
}

// Importer 將外部食譜匯入為系統食譜
type Importer struct {
	store     ImportStore
	catalog   MealCatalog
	suggester Suggester
}

// NewImporter 創建匯入器
func NewImporter(store ImportStore, catalog MealCatalog, suggester Suggester) *Importer {
	return &Importer{store: store, catalog: catalog, suggester: suggester}
}

// ImportMealDB 補足系統食譜到 count 筆，依名稱略過重複的食譜
func (i *Importer) ImportMealDB(ctx context.Context, count int) (*ImportResult, error) {
	count = common.Clamp(count, 1, MaxImportCount)

	names, err := i.store.RecipeNames(ctx, true)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[normalizeName(name)] = true
	}

	result := &ImportResult{Requested: count, Existing: len(names)}
	needed := count - len(names)

	for _, letter := range importLetters {
		if result.Created >= needed || ctx.Err() != nil {
			break
		}

		meals, err := i.catalog.MealsByLetter(ctx, string(letter))
		if err != nil {
			common.LogWarn("外部食譜讀取失敗", zap.String("letter", string(letter)), zap.Error(err))
			continue
		}

		for _, meal := range meals {
			if result.Created >= needed {
				break
			}
			key := normalizeName(meal.Name)
			if seen[key] {
				continue
			}
			if err := i.create(ctx, meal); err != nil {
				return nil, err
			}
			seen[key] = true
			result.Created++
		}
	}

	result.Total = result.Existing + result.Created
	common.LogInfo("外部食譜匯入完成",
		zap.Int("requested", result.Requested),
		zap.Int("created", result.Created),
		zap.Int("total", result.Total),
	)
	if result.Total < count {
		common.LogWarn("外部來源的不重複食譜不足", zap.Int("requested", count), zap.Int("total", result.Total))
	}
	return result, nil
}

func (i *Importer) create(ctx context.Context, meal ImportedRecipe) error {
	ingredientNames := make([]string, 0, len(meal.Ingredients))
	ingredients := make([]persistence.Ingredient, 0, len(meal.Ingredients))
	for _, ing := range meal.Ingredients {
		ingredientNames = append(ingredientNames, ing.Name)
		ingredients = append(ingredients, persistence.Ingredient{Name: ing.Name, Quantity: ing.Quantity, Unit: ing.Unit})
	}

	metadata := CompleteMetadata(ctx, i.suggester, CompletionInput{
		Name:         meal.Name,
		Instructions: meal.Instructions,
		Ingredients:  ingredientNames,
		CuisineType:  meal.CuisineType,
		Tags:         meal.Tags,
	}, true)

	recipe := &persistence.Recipe{
		Name:                  meal.Name,
		Instructions:          meal.Instructions,
		CuisineType:           metadata.CuisineType,
		PrepTimeMinutes:       metadata.PrepTimeMinutes,
		CookTimeMinutes:       metadata.CookTimeMinutes,
		Servings:              metadata.Servings,
		Difficulty:            metadata.Difficulty,
		Tags:                  metadata.Tags,
		AISuggestedMetadata:   metadata.AISuggestedMetadata,
		IsAIMetadataConfirmed: metadata.IsAIMetadataConfirmed,
		IsSystem:              true,
		Ingredients:           ingredients,
	}
	if meal.ImageURL != "" {
		now := time.Now()
		recipe.ImageURL = meal.ImageURL
		recipe.ImageSource = imageSourceMealDB
		recipe.ImageQuery = meal.Name
		recipe.ImageGeneratedAt = &now
	}

	if err := i.store.CreateRecipe(ctx, recipe); err != nil {
		return fmt.Errorf("import %q: %w", meal.Name, err)
	}
	return nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

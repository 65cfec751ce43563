package recipe

import (
	"context"
	"strings"

	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/core/image"
	"recipe-assistant/internal/infrastructure/persistence"
)

// RecipeStore 食譜存取
type RecipeStore interface {
	CreateRecipe(ctx context.Context, recipe *persistence.Recipe) error
	GetRecipe(ctx context.Context, id string) (*persistence.Recipe, error)
	ListRecipes(ctx context.Context, filter persistence.RecipeFilter) ([]persistence.Recipe, error)
	UpdateRecipeImage(ctx context.Context, id string, update persistence.ImageUpdate) (*persistence.Recipe, error)
}

// IngredientInput 新增食譜的食材
type IngredientInput struct {
	Name     string `json:"name" binding:"required,min=1"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// CreateInput 新增食譜請求
type CreateInput struct {
	Name            string            `json:"name" binding:"required,min=2,max=120"`
	Instructions    string            `json:"instructions" binding:"required,min=10"`
	CuisineType     string            `json:"cuisineType" binding:"max=60"`
	PrepTimeMinutes int               `json:"prepTimeMinutes" binding:"min=0,max=1440"`
	CookTimeMinutes int               `json:"cookTimeMinutes" binding:"min=0,max=1440"`
	Servings        int               `json:"servings" binding:"min=0,max=50"`
	Difficulty      string            `json:"difficulty" binding:"omitempty,oneof=EASY MEDIUM HARD"`
	Tags            []string          `json:"tags" binding:"dive,min=1,max=30"`
	Ingredients     []IngredientInput `json:"ingredients" binding:"required,min=1,dive"`
	Nutrition       map[string]string `json:"nutrition"`
	Allergens       []string          `json:"allergens"`
}

// ImageResult 食譜圖片產生結果
type ImageResult struct {
	Recipe *persistence.Recipe  `json:"recipe"`
	Source provider.ImageSource `json:"source"`
}

// Service 食譜服務
type Service struct {
	store     RecipeStore
	suggester Suggester
	images    DishImager
}

// NewService 創建食譜服務
func NewService(store RecipeStore, suggester Suggester, images DishImager) *Service {
	return &Service{store: store, suggester: suggester, images: images}
}

// Create 新增食譜，缺少的中繼資料自動補全
func (s *Service) Create(ctx context.Context, input CreateInput) (*persistence.Recipe, error) {
	ingredientNames := make([]string, 0, len(input.Ingredients))
	ingredients := make([]persistence.Ingredient, 0, len(input.Ingredients))
	for _, ing := range input.Ingredients {
		name := strings.TrimSpace(ing.Name)
		ingredientNames = append(ingredientNames, name)
		ingredients = append(ingredients, persistence.Ingredient{Name: name, Quantity: ing.Quantity, Unit: ing.Unit})
	}

	metadata := CompleteMetadata(ctx, s.suggester, CompletionInput{
		Name:            input.Name,
		Instructions:    input.Instructions,
		Ingredients:     ingredientNames,
		CuisineType:     input.CuisineType,
		PrepTimeMinutes: input.PrepTimeMinutes,
		CookTimeMinutes: input.CookTimeMinutes,
		Servings:        input.Servings,
		Difficulty:      input.Difficulty,
		Tags:            input.Tags,
	}, false)

	recipe := &persistence.Recipe{
		Name:                  strings.TrimSpace(input.Name),
		Instructions:          input.Instructions,
		CuisineType:           metadata.CuisineType,
		PrepTimeMinutes:       metadata.PrepTimeMinutes,
		CookTimeMinutes:       metadata.CookTimeMinutes,
		Servings:              metadata.Servings,
		Difficulty:            metadata.Difficulty,
		Tags:                  metadata.Tags,
		Allergens:             nonNil(input.Allergens),
		AISuggestedMetadata:   metadata.AISuggestedMetadata,
		IsAIMetadataConfirmed: metadata.IsAIMetadataConfirmed,
		Ingredients:           ingredients,
	}
	if len(input.Nutrition) > 0 {
		recipe.Nutrition = make(persistence.JSONField, len(input.Nutrition))
		for k, v := range input.Nutrition {
			recipe.Nutrition[k] = v
		}
	}

	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// List 依條件列出食譜
func (s *Service) List(ctx context.Context, filter persistence.RecipeFilter) ([]persistence.Recipe, error) {
	return s.store.ListRecipes(ctx, filter)
}

// Get 取得單一食譜
func (s *Service) Get(ctx context.Context, id string) (*persistence.Recipe, error) {
	return s.store.GetRecipe(ctx, id)
}

// GenerateImage 為食譜產生圖片並寫回
func (s *Service) GenerateImage(ctx context.Context, id, stylePrompt string) (*ImageResult, error) {
	recipe, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	generated := s.images.GenerateDishImage(ctx, image.DishPayload{
		Name:        recipe.Name,
		CuisineType: recipe.CuisineType,
		Ingredients: recipe.IngredientNames(),
		StylePrompt: stylePrompt,
	})

	updated, err := s.store.UpdateRecipeImage(ctx, recipe.ID, persistence.ImageUpdate{
		URL:    generated.URL,
		Source: string(generated.Source),
		Query:  generated.Query,
		Prompt: generated.Prompt,
	})
	if err != nil {
		return nil, err
	}
	return &ImageResult{Recipe: updated, Source: generated.Source}, nil
}

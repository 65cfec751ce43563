package recipe

import (
	"context"
	"testing"

	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCreateCompletesMetadata(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, NewMetadataService(NewTextChain(0)), &fakeImager{})

	created, err := svc.Create(context.Background(), CreateInput{
		Name:         "Guacamole",
		Instructions: "Mash the avocado with lime and salt.",
		Servings:     4,
		Ingredients: []IngredientInput{
			{Name: "avocado", Quantity: "2"},
			{Name: " lime "},
			{Name: "salt"},
		},
		Nutrition: map[string]string{"calories": "250"},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mexican", got.CuisineType)
	assert.Equal(t, 4, got.Servings)
	assert.Equal(t, 12, got.PrepTimeMinutes)
	assert.Equal(t, "EASY", got.Difficulty)
	assert.Equal(t, []string{"avocado", "lime", "salt"}, got.IngredientNames())
	assert.Equal(t, "250", got.Nutrition["calories"])
	assert.NotNil(t, got.AISuggestedMetadata)
}

func TestServiceCreateKeepsCompleteMetadata(t *testing.T) {
	store := newTestStore(t)
	suggester := &stubSuggester{}
	svc := NewService(store, suggester, &fakeImager{})

	created, err := svc.Create(context.Background(), CreateInput{
		Name:            "Porridge",
		Instructions:    "Simmer oats in milk for five minutes.",
		PrepTimeMinutes: 2,
		CookTimeMinutes: 5,
		Servings:        1,
		Difficulty:      "EASY",
		Ingredients:     []IngredientInput{{Name: "oats"}, {Name: "milk"}},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, suggester.Calls())
	assert.Equal(t, 2, created.PrepTimeMinutes)
}

func TestServiceGenerateImage(t *testing.T) {
	store := newTestStore(t)
	imager := &fakeImager{result: provider.DishImageResult{URL: "https://img.example/x.jpg", Source: provider.ImageSourceOpenAI, Prompt: "p"}}
	svc := NewService(store, &stubSuggester{}, imager)
	recipe := seedRecipe(t, store, persistenceRecipe("Ramen", "Japanese"), "noodles", "broth")

	result, err := svc.GenerateImage(context.Background(), recipe.ID, "moody lighting")

	require.NoError(t, err)
	assert.Equal(t, provider.ImageSourceOpenAI, result.Source)
	assert.Equal(t, "https://img.example/x.jpg", result.Recipe.ImageURL)
	assert.Equal(t, "openai", result.Recipe.ImageSource)
	require.Len(t, imager.payloads, 1)
	assert.Equal(t, "moody lighting", imager.payloads[0].StylePrompt)
	assert.Equal(t, []string{"noodles", "broth"}, imager.payloads[0].Ingredients)
}

func TestServiceGenerateImageNotFound(t *testing.T) {
	svc := NewService(newTestStore(t), &stubSuggester{}, &fakeImager{})

	_, err := svc.GenerateImage(context.Background(), "missing", "")

	assert.ErrorIs(t, err, common.ErrRecipeNotFound)
}

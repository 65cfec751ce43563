package recipe

import (
	"context"
	"errors"
	"testing"

	"recipe-assistant/internal/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCatalog 依首字母返回固定食譜
type stubCatalog struct {
	meals   map[string][]ImportedRecipe
	fail    map[string]bool
	letters []string
}

func (c *stubCatalog) MealsByLetter(_ context.Context, letter string) ([]ImportedRecipe, error) {
	c.letters = append(c.letters, letter)
	if c.fail[letter] {
		return nil, errors.New("boom")
	}
	return c.meals[letter], nil
}

func meal(name string, ingredients ...string) ImportedRecipe {
	out := ImportedRecipe{Name: name, Instructions: "Cook it well and serve hot.", Tags: []string{}}
	for _, ing := range ingredients {
		out.Ingredients = append(out.Ingredients, ImportedIngredient{Name: ing})
	}
	return out
}

func TestImportMealDB(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.CreateRecipe(ctx, &persistence.Recipe{
		Name:         "Apple Pie",
		Instructions: "Bake it.",
		IsSystem:     true,
		Ingredients:  []persistence.Ingredient{{Name: "apple"}},
	}))

	withImage := meal("Bread", "flour", "water")
	withImage.ImageURL = "https://img.example/bread.jpg"
	catalog := &stubCatalog{
		meals: map[string][]ImportedRecipe{
			"a": {meal("apple pie", "apple"), meal("Arrabiata", "penne", "tomato")},
			"c": {withImage, meal("Cake", "flour")},
		},
		fail: map[string]bool{"b": true},
	}
	importer := NewImporter(store, catalog, NewMetadataService(NewTextChain(0)))

	result, err := importer.ImportMealDB(ctx, 3)

	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Requested: 3, Existing: 1, Created: 2, Total: 3}, result)
	assert.Equal(t, []string{"a", "b", "c"}, catalog.letters)

	recipes, err := store.ListRecipes(ctx, persistence.RecipeFilter{SystemOnly: true})
	require.NoError(t, err)
	byName := map[string]persistence.Recipe{}
	for _, r := range recipes {
		byName[r.Name] = r
	}
	require.Contains(t, byName, "Arrabiata")
	require.Contains(t, byName, "Bread")
	assert.NotContains(t, byName, "Cake")

	arrabiata := byName["Arrabiata"]
	assert.Equal(t, "Italian", arrabiata.CuisineType)
	assert.Equal(t, "EASY", arrabiata.Difficulty)
	assert.False(t, HasMissingMetadata(arrabiata.Difficulty, arrabiata.PrepTimeMinutes, arrabiata.CookTimeMinutes, arrabiata.Servings))
	assert.Equal(t, "fallback", arrabiata.AISuggestedMetadata["provider"])

	bread := byName["Bread"]
	assert.Equal(t, "themealdb", bread.ImageSource)
	assert.Equal(t, "Bread", bread.ImageQuery)
	assert.NotNil(t, bread.ImageGeneratedAt)
}

func TestImportMealDBPoolAlreadyFull(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.CreateRecipe(ctx, &persistence.Recipe{Name: "Kedgeree", Instructions: "Simmer.", IsSystem: true}))
	catalog := &stubCatalog{}

	result, err := NewImporter(store, catalog, NewMetadataService(NewTextChain(0))).ImportMealDB(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Empty(t, catalog.letters)
}

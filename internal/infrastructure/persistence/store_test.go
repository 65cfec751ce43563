package persistence

import (
	"context"
	"testing"

	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type StoreTestSuite struct {
	suite.Suite
	db    *gorm.DB
	store *Store
	ctx   context.Context
}

func (s *StoreTestSuite) SetupTest() {
	db, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	s.Require().NoError(err)
	s.db = db
	s.store = NewStore(db)
	s.ctx = context.Background()
}

func (s *StoreTestSuite) TearDownTest() {
	s.Require().NoError(Close(s.db))
}

func (s *StoreTestSuite) createRecipe(name, cuisine string, prep int, difficulty string, ingredients ...string) *Recipe {
	recipe := &Recipe{
		Name:            name,
		Instructions:    "Cook everything together until done.",
		CuisineType:     cuisine,
		PrepTimeMinutes: prep,
		CookTimeMinutes: 20,
		Servings:        2,
		Difficulty:      difficulty,
	}
	for _, ing := range ingredients {
		recipe.Ingredients = append(recipe.Ingredients, Ingredient{Name: ing})
	}
	s.Require().NoError(s.store.CreateRecipe(s.ctx, recipe))
	return recipe
}

func (s *StoreTestSuite) TestCreateAndGetRecipeKeepsIngredientOrder() {
	// Arrange
	created := s.createRecipe("Pancakes", "American", 10, "EASY", "flour", "milk", "egg")

	// Act
	got, err := s.store.GetRecipe(s.ctx, created.ID)

	// Assert
	s.Require().NoError(err)
	s.Equal("Pancakes", got.Name)
	s.Equal([]string{"flour", "milk", "egg"}, got.IngredientNames())
	s.NotEmpty(got.ID)
}

func (s *StoreTestSuite) TestGetRecipeNotFound() {
	_, err := s.store.GetRecipe(s.ctx, "missing")
	s.ErrorIs(err, common.ErrRecipeNotFound)
}

func (s *StoreTestSuite) TestListRecipesFilters() {
	// Arrange
	s.createRecipe("Margherita", "Italian", 20, "EASY", "tomato", "cheese")
	s.createRecipe("Lasagna", "italian", 60, "HARD", "pasta", "cheese")
	s.createRecipe("Tacos", "Mexican", 15, "EASY", "tortilla", "beef")

	tests := []struct {
		name   string
		filter RecipeFilter
		want   []string
	}{
		{"no filter", RecipeFilter{}, []string{"Margherita", "Lasagna", "Tacos"}},
		{"cuisine contains case-insensitive", RecipeFilter{CuisineType: "ITAL"}, []string{"Margherita", "Lasagna"}},
		{"max prep", RecipeFilter{MaxPrepTimeMinutes: 20}, []string{"Margherita", "Tacos"}},
		{"difficulty", RecipeFilter{Difficulty: "HARD"}, []string{"Lasagna"}},
		{"combined", RecipeFilter{CuisineType: "italian", Difficulty: "EASY"}, []string{"Margherita"}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			// Act
			recipes, err := s.store.ListRecipes(s.ctx, tt.filter)

			// Assert
			s.Require().NoError(err)
			names := make([]string, 0, len(recipes))
			for _, r := range recipes {
				names = append(names, r.Name)
			}
			s.ElementsMatch(tt.want, names)
		})
	}
}

func (s *StoreTestSuite) TestPantryCRUD() {
	// Arrange
	item := &PantryItem{Name: "Eggs", Quantity: "6"}
	s.Require().NoError(s.store.CreatePantryItem(s.ctx, item))

	// Act
	item.Name = "Free-range eggs"
	err := s.store.UpdatePantryItem(s.ctx, item)

	// Assert
	s.Require().NoError(err)
	items, err := s.store.ListPantry(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("Free-range eggs", items[0].Name)

	s.Require().NoError(s.store.DeletePantryItem(s.ctx, item.ID))
	s.ErrorIs(s.store.DeletePantryItem(s.ctx, item.ID), common.ErrPantryItemNotFound)
}

func (s *StoreTestSuite) TestRecipesMissingMetadata() {
	// Arrange
	s.createRecipe("Complete", "Italian", 10, "EASY", "tomato")
	s.createRecipe("No difficulty", "Italian", 10, "", "tomato")
	s.createRecipe("No prep", "Italian", 0, "EASY", "tomato")

	// Act
	recipes, err := s.store.RecipesMissingMetadata(s.ctx, 10)

	// Assert
	s.Require().NoError(err)
	names := []string{}
	for _, r := range recipes {
		names = append(names, r.Name)
	}
	s.ElementsMatch([]string{"No difficulty", "No prep"}, names)
}

func (s *StoreTestSuite) TestRecipesMissingImageAndUpdate() {
	// Arrange
	blank := s.createRecipe("Blank", "", 10, "EASY", "rice")
	broken := s.createRecipe("Broken", "", 10, "EASY", "rice")
	ok := s.createRecipe("Fine", "", 10, "EASY", "rice")
	_, err := s.store.UpdateRecipeImage(s.ctx, broken.ID, ImageUpdate{URL: "data:text/plain,undefined"})
	s.Require().NoError(err)
	_, err = s.store.UpdateRecipeImage(s.ctx, ok.ID, ImageUpdate{URL: "https://img.example/fine.jpg", Source: "openai"})
	s.Require().NoError(err)

	// Act
	recipes, err := s.store.RecipesMissingImage(s.ctx, 10)

	// Assert
	s.Require().NoError(err)
	ids := []string{}
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	s.ElementsMatch([]string{blank.ID, broken.ID}, ids)

	updated, err := s.store.GetRecipe(s.ctx, ok.ID)
	s.Require().NoError(err)
	s.Equal("openai", updated.ImageSource)
	s.NotNil(updated.ImageGeneratedAt)
}

func (s *StoreTestSuite) TestUpdateRecipeMetadata() {
	// Arrange
	recipe := s.createRecipe("Soup", "", 0, "", "carrot")

	// Act
	err := s.store.UpdateRecipeMetadata(s.ctx, recipe.ID, MetadataUpdate{
		CuisineType:         "French",
		PrepTimeMinutes:     10,
		CookTimeMinutes:     30,
		Servings:            4,
		Difficulty:          "MEDIUM",
		Tags:                []string{"comfort"},
		AISuggestedMetadata: map[string]interface{}{"source": "fallback"},
	})

	// Assert
	s.Require().NoError(err)
	got, err := s.store.GetRecipe(s.ctx, recipe.ID)
	s.Require().NoError(err)
	s.Equal("French", got.CuisineType)
	s.Equal(4, got.Servings)
	s.Equal(StringSlice{"comfort"}, got.Tags)
	s.Equal("fallback", got.AISuggestedMetadata["source"])

	s.ErrorIs(s.store.UpdateRecipeMetadata(s.ctx, "missing", MetadataUpdate{}), common.ErrRecipeNotFound)
}

func (s *StoreTestSuite) TestRecipeNames() {
	s.createRecipe("Arrabiata", "Italian", 10, "EASY", "tomato")
	s.Require().NoError(s.store.CreateRecipe(s.ctx, &Recipe{
		Name:         "Kedgeree",
		Instructions: "Simmer rice with smoked fish.",
		IsSystem:     true,
		Ingredients:  []Ingredient{{Name: "rice"}},
	}))

	all, err := s.store.RecipeNames(s.ctx, false)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"Arrabiata", "Kedgeree"}, all)

	system, err := s.store.RecipeNames(s.ctx, true)
	s.Require().NoError(err)
	s.Equal([]string{"Kedgeree"}, system)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDishImagePrompt(t *testing.T) {
	prompt := BuildDishImagePrompt(DishPayload{
		Name:        "Chicken Biryani",
		CuisineType: "Indian",
		Ingredients: []string{"rice", "chicken", " ", "yogurt"},
		StylePrompt: "overhead shot",
	})

	assert.Equal(t, "Professional food photography of Chicken Biryani. Indian cuisine. "+
		"Primary ingredients: rice, chicken, yogurt. Style: overhead shot. "+
		"Close-up plated dish, natural light, realistic texture, high detail, no text, no logos, no watermark.", prompt)
}

func TestBuildDishImagePromptMinimal(t *testing.T) {
	prompt := BuildDishImagePrompt(DishPayload{Name: "Soup"})

	assert.Equal(t, "Professional food photography of Soup. regional cuisine. "+
		"Close-up plated dish, natural light, realistic texture, high detail, no text, no logos, no watermark.", prompt)
}

func TestBuildDishImagePromptLimitsIngredients(t *testing.T) {
	ingredients := []string{"i1", "i2", "i3", "i4", "i5", "i6", "i7", "i8", "i9", "i10", "i11", "i12"}
	prompt := BuildDishImagePrompt(DishPayload{Name: "Stew", Ingredients: ingredients})

	assert.Contains(t, prompt, "Primary ingredients: i1, i2, i3, i4, i5, i6, i7, i8, i9, i10.")
	assert.NotContains(t, prompt, "i11")
}

func TestBuildSearchTopic(t *testing.T) {
	assert.Equal(t, "Pad Thai Thai noodle egg tofu peanut lime",
		BuildSearchTopic(DishPayload{Name: "Pad Thai", CuisineType: "Thai", Ingredients: []string{"noodle", "egg", "tofu", "peanut", "lime", "chili"}}))
	assert.Equal(t, "Pancakes", BuildSearchTopic(DishPayload{Name: "Pancakes"}))
}

func TestQueryVariants(t *testing.T) {
	assert.Equal(t, []string{"chicken tikka masala curry", "chicken tikka masala"}, QueryVariants(" chicken  tikka masala curry "))
	assert.Equal(t, []string{"pad thai"}, QueryVariants("pad thai"))
	assert.Equal(t, []string{"a b c"}, QueryVariants("a b c"))
	assert.Empty(t, QueryVariants("   "))
}

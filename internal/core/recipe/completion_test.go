package recipe

import (
	"context"
	"testing"

	"recipe-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasMissingMetadata(t *testing.T) {
	tests := []struct {
		name       string
		difficulty string
		prep       int
		cook       int
		servings   int
		want       bool
	}{
		{"complete", "EASY", 10, 20, 2, false},
		{"no difficulty", "", 10, 20, 2, true},
		{"zero prep", "EASY", 0, 20, 2, true},
		{"negative cook", "EASY", 10, -1, 2, true},
		{"zero servings", "EASY", 10, 20, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasMissingMetadata(tt.difficulty, tt.prep, tt.cook, tt.servings))
		})
	}
}

func TestCompleteMetadataKeepsCompleteInput(t *testing.T) {
	suggester := &stubSuggester{}
	input := CompletionInput{
		Name:            "Omelette",
		Instructions:    "Whisk and fry the eggs.",
		Ingredients:     []string{"egg"},
		CuisineType:     "French",
		PrepTimeMinutes: 5,
		CookTimeMinutes: 5,
		Servings:        1,
		Difficulty:      "EASY",
	}

	got := CompleteMetadata(context.Background(), suggester, input, false)

	assert.Equal(t, 0, suggester.Calls())
	assert.Equal(t, "French", got.CuisineType)
	assert.Equal(t, "EASY", got.Difficulty)
	assert.Equal(t, []string{}, got.Tags)
	assert.False(t, got.IsAIMetadataConfirmed)
	assert.Nil(t, got.AISuggestedMetadata)
}

func TestCompleteMetadataFillsMissingFields(t *testing.T) {
	suggester := &stubSuggester{suggestion: common.MetadataSuggestion{
		CuisineType:     "Thai",
		PrepTimeMinutes: 3,
		CookTimeMinutes: 0,
		Servings:        0,
		Tags:            []string{"spicy"},
		Source:          SourceAI,
		Provider:        "deepseek",
	}}

	got := CompleteMetadata(context.Background(), suggester, CompletionInput{
		Name:         "Curry",
		Instructions: "Simmer the paste with coconut milk.",
		Ingredients:  []string{"curry paste", "coconut milk"},
	}, false)

	assert.Equal(t, 1, suggester.Calls())
	assert.Equal(t, "Thai", got.CuisineType)
	assert.Equal(t, minPrepMinutes, got.PrepTimeMinutes)
	assert.Equal(t, minCookMinutes, got.CookTimeMinutes)
	assert.Equal(t, defaultServings, got.Servings)
	assert.Equal(t, "MEDIUM", got.Difficulty)
	assert.Equal(t, []string{"spicy"}, got.Tags)
	assert.False(t, got.IsAIMetadataConfirmed)

	require.NotNil(t, got.AISuggestedMetadata)
	assert.Equal(t, SourceAI, got.AISuggestedMetadata["source"])
	assert.Equal(t, "deepseek", got.AISuggestedMetadata["provider"])
	assert.NotEmpty(t, got.AISuggestedMetadata["generatedAt"])
	suggested, ok := got.AISuggestedMetadata["suggested"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Thai", suggested["cuisineType"])
}

func TestCompleteMetadataPrefersInputValues(t *testing.T) {
	suggester := &stubSuggester{suggestion: common.MetadataSuggestion{
		CuisineType:     "Indian",
		PrepTimeMinutes: 30,
		CookTimeMinutes: 45,
		Servings:        6,
		Difficulty:      common.DifficultyEasy,
		Tags:            []string{"suggested"},
		Source:          SourceFallback,
	}}

	got := CompleteMetadata(context.Background(), suggester, CompletionInput{
		Name:            "Dal",
		Instructions:    "Boil lentils with spices.",
		Ingredients:     []string{"lentils"},
		PrepTimeMinutes: 20,
		Difficulty:      "hard",
		Tags:            []string{"mine"},
	}, true)

	assert.Equal(t, "Indian", got.CuisineType)
	assert.Equal(t, 20, got.PrepTimeMinutes)
	assert.Equal(t, 45, got.CookTimeMinutes)
	assert.Equal(t, 6, got.Servings)
	assert.Equal(t, "HARD", got.Difficulty)
	assert.Equal(t, []string{"mine"}, got.Tags)
	assert.Equal(t, SourceFallback, got.AISuggestedMetadata["provider"])
}

func TestCompleteMetadataForceCallsSuggester(t *testing.T) {
	suggester := &stubSuggester{suggestion: common.MetadataSuggestion{Difficulty: common.DifficultyHard}}

	got := CompleteMetadata(context.Background(), suggester, CompletionInput{
		Name:            "Toast",
		Instructions:    "Toast the bread.",
		Ingredients:     []string{"bread"},
		PrepTimeMinutes: 2,
		CookTimeMinutes: 3,
		Servings:        1,
		Difficulty:      "EASY",
	}, true)

	assert.Equal(t, 1, suggester.Calls())
	assert.Equal(t, "EASY", got.Difficulty)
	assert.Equal(t, minPrepMinutes, got.PrepTimeMinutes)
	assert.Equal(t, minCookMinutes, got.CookTimeMinutes)
	assert.Equal(t, 1, got.Servings)
}

func TestParseBackfillLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 100},
		{"abc", 100},
		{"0", 1},
		{"-5", 1},
		{"12.9", 12},
		{"250", 250},
		{"5000", 3000},
		{"1e10", 3000},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseBackfillLimit(tt.raw))
		})
	}
}

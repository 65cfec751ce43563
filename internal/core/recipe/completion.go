package recipe

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"recipe-assistant/internal/pkg/common"
)

const (
	minPrepMinutes  = 5
	minCookMinutes  = 5
	minServings     = 1
	defaultServings = 2

	DefaultBackfillLimit = 100
	maxBackfillLimit     = 3000
)

// Suggester 提供中繼資料建議
type Suggester interface {
	Suggest(ctx context.Context, draft Draft) common.MetadataSuggestion
}

// CompletionInput 待補全的食譜，數值欄位小於等於 0 視為缺少
type CompletionInput struct {
	Name                string
	Instructions        string
	Ingredients         []string
	CuisineType         string
	PrepTimeMinutes     int
	CookTimeMinutes     int
	Servings            int
	Difficulty          string
	Tags                []string
	AISuggestedMetadata map[string]interface{}
}

// CompletedMetadata 補全結果
type CompletedMetadata struct {
	CuisineType           string
	PrepTimeMinutes       int
	CookTimeMinutes       int
	Servings              int
	Difficulty            string
	Tags                  []string
	AISuggestedMetadata   map[string]interface{}
	IsAIMetadataConfirmed bool
}

// HasMissingMetadata 難度、準備時間、烹調時間或份量任一缺少
func HasMissingMetadata(difficulty string, prepTimeMinutes, cookTimeMinutes, servings int) bool {
	return strings.TrimSpace(difficulty) == "" ||
		prepTimeMinutes <= 0 ||
		cookTimeMinutes <= 0 ||
		servings <= 0
}

// CompleteMetadata 補上缺少的中繼資料。force 為 true 時即使欄位完整也重新取得建議。
// 已有的欄位優先於建議值。
func CompleteMetadata(ctx context.Context, suggester Suggester, input CompletionInput, force bool) CompletedMetadata {
	if !force && !HasMissingMetadata(input.Difficulty, input.PrepTimeMinutes, input.CookTimeMinutes, input.Servings) {
		return CompletedMetadata{
			CuisineType:           input.CuisineType,
			PrepTimeMinutes:       input.PrepTimeMinutes,
			CookTimeMinutes:       input.CookTimeMinutes,
			Servings:              input.Servings,
			Difficulty:            input.Difficulty,
			Tags:                  nonNil(input.Tags),
			AISuggestedMetadata:   input.AISuggestedMetadata,
			IsAIMetadataConfirmed: input.AISuggestedMetadata != nil,
		}
	}

	suggestion := suggester.Suggest(ctx, NewDraft(input.Name, input.Instructions, input.Ingredients))

	cuisine := input.CuisineType
	if strings.TrimSpace(cuisine) == "" {
		cuisine = suggestion.CuisineType
	}

	tags := input.Tags
	if len(tags) == 0 {
		tags = suggestion.Tags
	}

	difficulty := common.DifficultyMedium
	if d, ok := common.ParseDifficulty(input.Difficulty); ok {
		difficulty = d
	} else if d, ok := common.ParseDifficulty(string(suggestion.Difficulty)); ok {
		difficulty = d
	}

	providerName := suggestion.Provider
	if providerName == "" {
		providerName = SourceFallback
	}

	return CompletedMetadata{
		CuisineType:     cuisine,
		PrepTimeMinutes: atLeast(pick(input.PrepTimeMinutes, suggestion.PrepTimeMinutes), minPrepMinutes, minPrepMinutes),
		CookTimeMinutes: atLeast(pick(input.CookTimeMinutes, suggestion.CookTimeMinutes), minCookMinutes, minCookMinutes),
		Servings:        atLeast(pick(input.Servings, suggestion.Servings), minServings, defaultServings),
		Difficulty:      string(difficulty),
		Tags:            nonNil(tags),
		AISuggestedMetadata: map[string]interface{}{
			"source":      suggestion.Source,
			"provider":    providerName,
			"generatedAt": time.Now().UTC().Format(time.RFC3339),
			"suggested": map[string]interface{}{
				"cuisineType":     suggestion.CuisineType,
				"prepTimeMinutes": suggestion.PrepTimeMinutes,
				"cookTimeMinutes": suggestion.CookTimeMinutes,
				"servings":        suggestion.Servings,
				"difficulty":      string(suggestion.Difficulty),
				"tags":            suggestion.Tags,
				"nutrition":       suggestion.Nutrition,
				"allergens":       suggestion.Allergens,
			},
		},
		IsAIMetadataConfirmed: false,
	}
}

// ParseBackfillLimit 解析批次數量，無效時返回預設值，結果限制在 1 到 3000
func ParseBackfillLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultBackfillLimit
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return DefaultBackfillLimit
	}
	if parsed > maxBackfillLimit {
		return maxBackfillLimit
	}
	return common.Clamp(int(math.Floor(parsed)), 1, maxBackfillLimit)
}

func pick(current, suggested int) int {
	if current > 0 {
		return current
	}
	return suggested
}

// atLeast 缺少時使用 fallback，否則不低於 minimum
func atLeast(value, minimum, fallback int) int {
	if value <= 0 && fallback != minimum {
		return fallback
	}
	if value < minimum {
		return minimum
	}
	return value
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

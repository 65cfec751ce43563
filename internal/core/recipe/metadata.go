package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/core/cooknow"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

const metadataSystemPrompt = "Return strict JSON for recipe metadata fields: cuisineType, prepTimeMinutes, cookTimeMinutes, servings, difficulty(EASY|MEDIUM|HARD), tags, nutrition, allergens."

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// Draft 中繼資料推測所需的食譜草稿
type Draft struct {
	Name         string            `json:"name"`
	Ingredients  []DraftIngredient `json:"ingredients"`
	Instructions string            `json:"instructions"`
}

// DraftIngredient 草稿食材
type DraftIngredient struct {
	Name string `json:"name" binding:"required"`
}

// NewDraft 由食材名稱建立草稿
func NewDraft(name, instructions string, ingredients []string) Draft {
	draft := Draft{Name: name, Instructions: instructions, Ingredients: make([]DraftIngredient, 0, len(ingredients))}
	for _, ing := range ingredients {
		draft.Ingredients = append(draft.Ingredients, DraftIngredient{Name: ing})
	}
	return draft
}

type cuisineRule struct {
	cuisine  string
	keywords []string
}

// 依序比對，第一個命中的菜系勝出
var cuisineRules = []cuisineRule{
	{"Italian", []string{"basil", "oregano", "parmesan", "pasta", "tomato"}},
	{"Mexican", []string{"tortilla", "jalapeno", "cumin", "beans", "avocado"}},
	{"Indian", []string{"garam masala", "turmeric", "curry", "ginger", "cardamom"}},
	{"Japanese", []string{"soy sauce", "miso", "nori", "mirin", "dashi"}},
	{"American", []string{"cheddar", "bbq", "mustard", "ketchup", "beef"}},
}

const defaultCuisine = "International"

var allergenWords = map[string]bool{
	"milk":   true,
	"cheese": true,
	"egg":    true,
	"peanut": true,
	"almond": true,
	"wheat":  true,
	"soy":    true,
}

// FallbackMetadata 以關鍵字與食材數量推測中繼資料，不調用任何外部服務
func FallbackMetadata(draft Draft) common.MetadataSuggestion {
	names := make([]string, 0, len(draft.Ingredients))
	for _, ing := range draft.Ingredients {
		names = append(names, ing.Name)
	}
	ingredientCount := len(draft.Ingredients)
	wordCount := len(strings.Fields(draft.Instructions))

	difficulty := common.DifficultyEasy
	if ingredientCount > 8 || wordCount > 140 {
		difficulty = common.DifficultyMedium
	}
	if ingredientCount > 14 || wordCount > 260 {
		difficulty = common.DifficultyHard
	}

	lowerName := strings.ToLower(draft.Name)
	tags := []string{"home-cooked", "weeknight"}
	if strings.Contains(lowerName, "salad") {
		tags[0] = "fresh"
	}
	if strings.Contains(lowerName, "soup") {
		tags[1] = "comfort"
	}

	allText := draft.Name + " " + strings.Join(names, " ") + " " + draft.Instructions

	return common.MetadataSuggestion{
		CuisineType:     findCuisine(allText),
		PrepTimeMinutes: common.Clamp(ingredientCount*4, 10, 60),
		CookTimeMinutes: common.Clamp(int(math.Round(float64(wordCount)/2)), 10, 120),
		Servings:        common.Clamp(int(math.Ceil(float64(ingredientCount)/2)), 2, 8),
		Difficulty:      difficulty,
		Tags:            tags,
		Nutrition: map[string]string{
			"calories": "Estimated by ingredient volume",
			"protein":  "Moderate",
			"carbs":    "Moderate",
			"fat":      "Moderate",
		},
		Allergens: detectAllergens(names),
		Source:    SourceFallback,
	}
}

func findCuisine(text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	for _, rule := range cuisineRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return rule.cuisine
			}
		}
	}
	return defaultCuisine
}

// detectAllergens 每個食材最多回報一個過敏原
func detectAllergens(ingredients []string) []string {
	allergens := []string{}
	for _, name := range ingredients {
		for _, token := range cooknow.Canonicalize(name) {
			if allergenWords[token] {
				allergens = append(allergens, token)
				break
			}
		}
	}
	return allergens
}

// MetadataService 以 AI 供應商推測中繼資料，全部不可用時使用啟發式結果
type MetadataService struct {
	chain TextChain
}

// NewMetadataService 創建中繼資料服務
func NewMetadataService(chain TextChain) *MetadataService {
	return &MetadataService{chain: chain}
}

// Suggest 返回中繼資料建議，永不失敗
func (s *MetadataService) Suggest(ctx context.Context, draft Draft) common.MetadataSuggestion {
	fallback := FallbackMetadata(draft)

	payload, err := json.Marshal(draft)
	if err != nil {
		fallback.Provider = SourceFallback
		return fallback
	}
	messages := []common.ChatMessage{
		common.SystemMessage(metadataSystemPrompt),
		common.UserMessage(string(payload)),
	}

	result, ok := provider.ResolveText(ctx, candidates[metadataCandidate](s.chain, "metadata", messages)...)
	if !ok {
		common.LogInfo("中繼資料使用啟發式結果", zap.String("name", draft.Name))
		fallback.Provider = SourceFallback
		return fallback
	}

	return result.Value.merge(fallback, string(result.Provider))
}

// metadataCandidate 模型回覆，缺少或型別不符的欄位以啟發式結果補上
type metadataCandidate struct {
	CuisineType     *string                `json:"cuisineType"`
	PrepTimeMinutes flexInt                `json:"prepTimeMinutes"`
	CookTimeMinutes flexInt                `json:"cookTimeMinutes"`
	Servings        flexInt                `json:"servings"`
	Difficulty      *string                `json:"difficulty"`
	Tags            flexStrings            `json:"tags"`
	Nutrition       map[string]interface{} `json:"nutrition"`
	Allergens       flexStrings            `json:"allergens"`
}

func (c metadataCandidate) merge(fallback common.MetadataSuggestion, providerName string) common.MetadataSuggestion {
	out := fallback
	out.Source = SourceAI
	out.Provider = providerName

	if c.CuisineType != nil && strings.TrimSpace(*c.CuisineType) != "" {
		out.CuisineType = strings.TrimSpace(*c.CuisineType)
	}
	if c.PrepTimeMinutes.Valid {
		out.PrepTimeMinutes = c.PrepTimeMinutes.Value
	}
	if c.CookTimeMinutes.Valid {
		out.CookTimeMinutes = c.CookTimeMinutes.Value
	}
	if c.Servings.Valid {
		out.Servings = c.Servings.Value
	}
	if c.Difficulty != nil {
		if d, ok := common.ParseDifficulty(*c.Difficulty); ok {
			out.Difficulty = d
		}
	}
	if c.Tags.Valid {
		out.Tags = c.Tags.Values
	}
	if len(c.Nutrition) > 0 {
		out.Nutrition = make(map[string]string, len(c.Nutrition))
		for k, v := range c.Nutrition {
			out.Nutrition[k] = fmt.Sprint(v)
		}
	}
	if c.Allergens.Valid {
		out.Allergens = c.Allergens.Values
	}
	return out
}

// flexInt 接受數字或數字字串，其他型別視為缺少
type flexInt struct {
	Value int
	Valid bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		f.Value, f.Valid = int(math.Round(v)), true
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			f.Value, f.Valid = int(math.Round(n)), true
		}
	}
	return nil
}

// flexStrings 只接受字串陣列
type flexStrings struct {
	Values []string
	Valid  bool
}

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil || values == nil {
		return nil
	}
	f.Values, f.Valid = values, true
	return nil
}

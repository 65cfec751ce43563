package common

import "strings"

// Difficulty 食譜難度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// ParseDifficulty 解析難度字串，大小寫不敏感
func ParseDifficulty(raw string) (Difficulty, bool) {
	switch Difficulty(strings.ToUpper(strings.TrimSpace(raw))) {
	case DifficultyEasy:
		return DifficultyEasy, true
	case DifficultyMedium:
		return DifficultyMedium, true
	case DifficultyHard:
		return DifficultyHard, true
	}
	return "", false
}

// ChatMessage 對話消息
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemMessage 建立 system 角色消息
func SystemMessage(content string) ChatMessage {
	return ChatMessage{Role: "system", Content: content}
}

// UserMessage 建立 user 角色消息
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: "user", Content: content}
}

// MetadataSuggestion 食譜中繼資料建議
type MetadataSuggestion struct {
	CuisineType     string            `json:"cuisineType"`
	PrepTimeMinutes int               `json:"prepTimeMinutes"`
	CookTimeMinutes int               `json:"cookTimeMinutes"`
	Servings        int               `json:"servings"`
	Difficulty      Difficulty        `json:"difficulty"`
	Tags            []string          `json:"tags"`
	Nutrition       map[string]string `json:"nutrition,omitempty"`
	Allergens       []string          `json:"allergens"`
	Source          string            `json:"source"`
	Provider        string            `json:"provider"`
}

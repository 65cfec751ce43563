package image

import "strings"

// DishPayload 生成菜餚圖片所需的資料
type DishPayload struct {
	Name        string   `json:"name"`
	CuisineType string   `json:"cuisineType,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	StylePrompt string   `json:"stylePrompt,omitempty"`
}

// BuildDishImagePrompt 組合圖片生成提示詞，最多列出前 10 項食材
func BuildDishImagePrompt(payload DishPayload) string {
	cuisine := "regional cuisine"
	if payload.CuisineType != "" {
		cuisine = payload.CuisineType + " cuisine"
	}

	parts := []string{
		"Professional food photography of " + payload.Name + ".",
		cuisine + ".",
	}
	if ingredients := firstN(payload.Ingredients, 10); len(ingredients) > 0 {
		parts = append(parts, "Primary ingredients: "+strings.Join(ingredients, ", ")+".")
	}
	if payload.StylePrompt != "" {
		parts = append(parts, "Style: "+payload.StylePrompt+".")
	}
	parts = append(parts, "Close-up plated dish, natural light, realistic texture, high detail, no text, no logos, no watermark.")

	return strings.Join(parts, " ")
}

// BuildSearchTopic 組合外部圖片搜尋主題：菜名、菜系、前 5 項食材
func BuildSearchTopic(payload DishPayload) string {
	words := []string{payload.Name, payload.CuisineType}
	words = append(words, firstN(payload.Ingredients, 5)...)
	return strings.Join(strings.Fields(strings.Join(words, " ")), " ")
}

// QueryVariants 完整查詢與前三個詞，去重且不含空字串
func QueryVariants(query string) []string {
	full := strings.Join(strings.Fields(query), " ")
	if full == "" {
		return []string{}
	}

	variants := []string{full}
	words := strings.Fields(full)
	if len(words) > 3 {
		variants = append(variants, strings.Join(words[:3], " "))
	}
	return variants
}

func firstN(items []string, n int) []string {
	out := make([]string, 0, n)
	for _, item := range items {
		if len(out) == n {
			break
		}
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

package cooknow

import (
	"regexp"
	"strings"
)

var (
	wordSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

	// synonyms 以單數化後的詞為鍵，值可以是多個詞
	synonyms = map[string]string{
		"scallion":    "green onion",
		"springonion": "green onion",
		"capsicum":    "bell pepper",
		"chilly":      "chili",
		"chily":       "chili",
		"chilli":      "chili",
		"coriander":   "cilantro",
		"garbanzo":    "chickpea",
		"clov":        "clove",
		"chees":       "cheese",
		"oliv":        "olive",
		"appl":        "apple",
		"sauc":        "sauce",
		"noodl":       "noodle",
		"lim":         "lime",
		"leav":        "leaf",
	}
)

// Canonicalize 將原始食材文字轉為標準化詞列表，保留順序不去重
func Canonicalize(raw string) []string {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return []string{}
	}

	tokens := make([]string, 0, 4)
	for _, word := range wordSplitPattern.Split(text, -1) {
		if word == "" {
			continue
		}
		for _, token := range strings.Fields(CanonicalWord(word)) {
			if token != "" {
				tokens = append(tokens, token)
			}
		}
	}
	return tokens
}

// CanonicalString 標準化詞以單一空白連接
func CanonicalString(raw string) string {
	return strings.Join(Canonicalize(raw), " ")
}

// CanonicalWord 對單一詞做單數化與同義詞替換，結果可能包含空白
func CanonicalWord(word string) string {
	word = wordSplitPattern.ReplaceAllString(strings.ToLower(word), "")
	singular := singularize(word)
	if synonym, ok := synonyms[singular]; ok {
		return synonym
	}
	return singular
}

// singularize 啟發式單數化，"bus" -> "bu" 這類誤判屬已知限制
func singularize(word string) string {
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return strings.TrimSuffix(word, "ies") + "y"
	case strings.HasSuffix(word, "es") && len(word) > 4:
		return strings.TrimSuffix(word, "es")
	case strings.HasSuffix(word, "s") && len(word) > 3:
		return strings.TrimSuffix(word, "s")
	}
	return word
}

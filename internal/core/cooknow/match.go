package cooknow

import "strings"

// matchRatio 食譜詞在食材庫詞集合中的最低覆蓋率
const matchRatio = 0.5

// Matches 判斷食材庫項目是否滿足食譜食材。
// 覆蓋率只以食譜詞數為分母，因此 Matches(a, b) 不一定等於 Matches(b, a)。
func Matches(pantryRaw, recipeRaw string) bool {
	pantryTokens := Canonicalize(pantryRaw)
	recipeTokens := Canonicalize(recipeRaw)
	if len(pantryTokens) == 0 || len(recipeTokens) == 0 {
		return false
	}

	pantrySet := make(map[string]struct{}, len(pantryTokens))
	for _, token := range pantryTokens {
		pantrySet[token] = struct{}{}
	}

	overlap := 0
	for _, token := range recipeTokens {
		if _, ok := pantrySet[token]; ok {
			overlap++
		}
	}
	if float64(overlap)/float64(len(recipeTokens)) >= matchRatio {
		return true
	}

	pantryCanonical := strings.Join(pantryTokens, " ")
	recipeCanonical := strings.Join(recipeTokens, " ")
	return strings.Contains(pantryCanonical, recipeCanonical) || strings.Contains(recipeCanonical, pantryCanonical)
}

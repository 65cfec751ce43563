package cooknow

import "sort"

const (
	// almostCookMaxMissing 缺少食材數不超過此值即視為幾乎可煮
	almostCookMaxMissing = 3
	// almostCookMinRatio 食材完成度達此比例即視為幾乎可煮
	almostCookMinRatio = 0.55
)

// Classify 將食譜分為可直接煮、幾乎可煮兩層，其餘食譜不出現在結果中
func Classify(pantry []PantryEntry, recipes []RecipeCandidate) Result {
	result := emptyResult()

	for _, recipe := range recipes {
		missing := missingIngredients(pantry, recipe.Ingredients)
		if len(missing) == 0 {
			result.CanCookNow = append(result.CanCookNow, CookMatch{
				RecipeID:           recipe.ID,
				RecipeName:         recipe.Name,
				MissingIngredients: []string{},
				Substitutions:      []string{},
			})
			continue
		}

		total := len(recipe.Ingredients)
		if total < 1 {
			total = 1
		}
		completion := float64(total-len(missing)) / float64(total)
		if len(missing) > almostCookMaxMissing && completion < almostCookMinRatio {
			continue
		}

		substitutions := []string{}
		for _, item := range missing {
			substitutions = append(substitutions, SubstitutesFor(item)...)
		}
		result.CanAlmostCook = append(result.CanAlmostCook, CookMatch{
			RecipeID:           recipe.ID,
			RecipeName:         recipe.Name,
			MissingIngredients: missing,
			Substitutions:      substitutions,
		})
	}

	result.ShoppingList = shoppingList(result.CanAlmostCook)
	return result
}

func missingIngredients(pantry []PantryEntry, ingredients []RecipeIngredient) []string {
	missing := []string{}
	for _, ingredient := range ingredients {
		covered := false
		for _, item := range pantry {
			if Matches(item.Name, ingredient.Name) {
				covered = true
				break
			}
		}
		if !covered {
			missing = append(missing, ingredient.Name)
		}
	}
	return missing
}

func shoppingList(matches []CookMatch) []string {
	seen := make(map[string]struct{})
	list := []string{}
	for _, match := range matches {
		for _, item := range match.MissingIngredients {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			list = append(list, item)
		}
	}
	sort.Strings(list)
	return list
}

package cooknow

const (
	reasonEmptyPantry     = "Your pantry is empty."
	guidanceEmptyPantry   = "Add ingredients in My Pantry to get cooking recommendations."
	reasonRelaxed         = "No strict filter matches were found."
	guidanceRelaxed       = "Showing relaxed matches based on your pantry ingredients."
	reasonRelaxedFailed   = "No recipes matched the selected filters."
	guidanceRelaxedFailed = "Try removing cuisine/prep/difficulty filters or add more pantry ingredients."
	reasonNoMatches       = "No matching recipes found for pantry ingredients."
	guidanceNoMatches     = "Add pantry items or import recipes with overlapping ingredients."
)

// Evaluate 先以篩選後的食譜分類，無結果且有篩選條件時改用未篩選的食譜重試。
// 空食材庫在任何分類之前直接返回。
func Evaluate(pantry []PantryEntry, strict, relaxed []RecipeCandidate, filters Filters) Evaluation {
	if len(pantry) == 0 {
		return Evaluation{
			Result:   emptyResult(),
			Reason:   reasonEmptyPantry,
			Guidance: guidanceEmptyPantry,
			Branch:   BranchEmptyPantry,
		}
	}

	strictResult := Classify(pantry, strict)
	if strictResult.HasMatches() {
		return Evaluation{Result: strictResult, Branch: BranchStrict}
	}

	if filters.Applied() && len(relaxed) > 0 {
		relaxedResult := Classify(pantry, relaxed)
		if relaxedResult.HasMatches() {
			return Evaluation{
				Result:             relaxedResult,
				UsedRelaxedFilters: true,
				Reason:             reasonRelaxed,
				Guidance:           guidanceRelaxed,
				Branch:             BranchRelaxed,
			}
		}
		return Evaluation{
			Result:   strictResult,
			Reason:   reasonRelaxedFailed,
			Guidance: guidanceRelaxedFailed,
			Branch:   BranchRelaxedFailed,
		}
	}

	return Evaluation{
		Result:   strictResult,
		Reason:   reasonNoMatches,
		Guidance: guidanceNoMatches,
		Branch:   BranchNoMatches,
	}
}

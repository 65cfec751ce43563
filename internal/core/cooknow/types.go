package cooknow

import "recipe-assistant/internal/pkg/common"

// SourceFallback 分類結果的來源標記
const SourceFallback = "fallback"

// PantryEntry 使用者食材庫中的一項
type PantryEntry struct {
	Name string `json:"name"`
}

// RecipeIngredient 食譜食材
type RecipeIngredient struct {
	Name string `json:"name"`
}

// RecipeCandidate 參與比對的食譜
type RecipeCandidate struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Ingredients []RecipeIngredient `json:"ingredients"`
}

// CookMatch 單一食譜的比對結果
type CookMatch struct {
	RecipeID           string   `json:"recipeId"`
	RecipeName         string   `json:"recipeName"`
	MissingIngredients []string `json:"missingIngredients"`
	Substitutions      []string `json:"substitutions"`
}

// Result 分類結果，同一個食譜最多出現在一個分層
type Result struct {
	CanCookNow    []CookMatch `json:"canCookNow"`
	CanAlmostCook []CookMatch `json:"canAlmostCook"`
	ShoppingList  []string    `json:"shoppingList"`
	Source        string      `json:"source"`
}

// HasMatches 是否至少有一個可煮或幾乎可煮的食譜
func (r Result) HasMatches() bool {
	return len(r.CanCookNow) > 0 || len(r.CanAlmostCook) > 0
}

// Filters 食譜篩選條件，零值表示未設定
type Filters struct {
	CuisineType        string            `json:"cuisineType,omitempty"`
	MaxPrepTimeMinutes int               `json:"maxPrepTimeMinutes,omitempty"`
	Difficulty         common.Difficulty `json:"difficulty,omitempty"`
}

// Applied 是否設定了任何篩選條件
func (f Filters) Applied() bool {
	return f.CuisineType != "" || f.MaxPrepTimeMinutes > 0 || f.Difficulty != ""
}

// Branch 評估流程的終止分支
type Branch string

const (
	BranchEmptyPantry   Branch = "empty_pantry"
	BranchStrict        Branch = "strict"
	BranchRelaxed       Branch = "relaxed"
	BranchRelaxedFailed Branch = "relaxed_failed"
	BranchNoMatches     Branch = "no_matches"
)

// Evaluation 一次 cook-now 評估的完整結果
type Evaluation struct {
	Result
	UsedRelaxedFilters bool   `json:"usedRelaxedFilters"`
	Reason             string `json:"reason"`
	Guidance           string `json:"guidance"`
	Branch             Branch `json:"-"`
}

func emptyResult() Result {
	return Result{
		CanCookNow:    []CookMatch{},
		CanAlmostCook: []CookMatch{},
		ShoppingList:  []string{},
		Source:        SourceFallback,
	}
}

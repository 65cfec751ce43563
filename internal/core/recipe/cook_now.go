package recipe

import (
	"context"
	"fmt"
	"strings"

	"recipe-assistant/internal/core/cooknow"
	"recipe-assistant/internal/infrastructure/metrics"
	"recipe-assistant/internal/infrastructure/persistence"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// CookNowStore cook-now 評估所需的資料存取
type CookNowStore interface {
	ListPantry(ctx context.Context) ([]persistence.PantryItem, error)
	ListRecipes(ctx context.Context, filter persistence.RecipeFilter) ([]persistence.Recipe, error)
}

// CookNowRequest 評估請求，Pantry 非 nil 時取代已儲存的食材庫
type CookNowRequest struct {
	Pantry  []string
	Filters cooknow.Filters
}

// CookNowResponse 評估結果與 AI 建議
type CookNowResponse struct {
	cooknow.Evaluation
	AINarrative *Narrative `json:"aiNarrative"`
}

// CookNowService 依食材庫推薦可煮的食譜
type CookNowService struct {
	store    CookNowStore
	narrator Narrator
}

// NewCookNowService 創建 cook-now 服務，narrator 可為 nil
func NewCookNowService(store CookNowStore, narrator Narrator) *CookNowService {
	return &CookNowService{store: store, narrator: narrator}
}

// Evaluate 先以篩選條件評估，沒有結果時載入全部食譜重新評估
func (s *CookNowService) Evaluate(ctx context.Context, req CookNowRequest) (*CookNowResponse, error) {
	pantry, err := s.loadPantry(ctx, req.Pantry)
	if err != nil {
		return nil, err
	}

	var strict, relaxed []cooknow.RecipeCandidate
	if len(pantry) > 0 {
		strictRecipes, err := s.store.ListRecipes(ctx, persistence.RecipeFilter{
			CuisineType:        req.Filters.CuisineType,
			MaxPrepTimeMinutes: req.Filters.MaxPrepTimeMinutes,
			Difficulty:         string(req.Filters.Difficulty),
		})
		if err != nil {
			return nil, fmt.Errorf("load strict recipes: %w", err)
		}
		strict = toCandidates(strictRecipes)
	}

	evaluation := cooknow.Evaluate(pantry, strict, nil, req.Filters)
	if evaluation.Branch == cooknow.BranchNoMatches && req.Filters.Applied() {
		allRecipes, err := s.store.ListRecipes(ctx, persistence.RecipeFilter{})
		if err != nil {
			return nil, fmt.Errorf("load relaxed recipes: %w", err)
		}
		relaxed = toCandidates(allRecipes)
		evaluation = cooknow.Evaluate(pantry, strict, relaxed, req.Filters)
	}

	metrics.ObserveCookNow(string(evaluation.Branch))
	common.LogInfo("cook-now 評估完成",
		zap.String("branch", string(evaluation.Branch)),
		zap.Int("pantry", len(pantry)),
		zap.Int("can_cook_now", len(evaluation.CanCookNow)),
		zap.Int("can_almost_cook", len(evaluation.CanAlmostCook)),
	)

	resp := &CookNowResponse{Evaluation: evaluation}
	if len(pantry) > 0 && s.narrator != nil {
		resp.AINarrative = s.narrator.Generate(ctx, narrativeInput(pantry, evaluation))
		if resp.AINarrative != nil {
			resp.Source = SourceAI
		}
	}
	return resp, nil
}

func (s *CookNowService) loadPantry(ctx context.Context, override []string) ([]cooknow.PantryEntry, error) {
	pantry := []cooknow.PantryEntry{}
	if override != nil {
		for _, name := range override {
			if name = strings.TrimSpace(name); name != "" {
				pantry = append(pantry, cooknow.PantryEntry{Name: name})
			}
		}
		return pantry, nil
	}

	items, err := s.store.ListPantry(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pantry: %w", err)
	}
	for _, item := range items {
		pantry = append(pantry, cooknow.PantryEntry{Name: item.Name})
	}
	return pantry, nil
}

func toCandidates(recipes []persistence.Recipe) []cooknow.RecipeCandidate {
	out := make([]cooknow.RecipeCandidate, 0, len(recipes))
	for _, r := range recipes {
		candidate := cooknow.RecipeCandidate{ID: r.ID, Name: r.Name, Ingredients: make([]cooknow.RecipeIngredient, 0, len(r.Ingredients))}
		for _, ing := range r.Ingredients {
			candidate.Ingredients = append(candidate.Ingredients, cooknow.RecipeIngredient{Name: ing.Name})
		}
		out = append(out, candidate)
	}
	return out
}

func narrativeInput(pantry []cooknow.PantryEntry, evaluation cooknow.Evaluation) NarrativeInput {
	input := NarrativeInput{
		Pantry:        make([]string, 0, len(pantry)),
		CanCookNow:    make([]string, 0, len(evaluation.CanCookNow)),
		CanAlmostCook: make([]AlmostCookItem, 0, len(evaluation.CanAlmostCook)),
	}
	for _, p := range pantry {
		input.Pantry = append(input.Pantry, p.Name)
	}
	for _, m := range evaluation.CanCookNow {
		input.CanCookNow = append(input.CanCookNow, m.RecipeName)
	}
	for _, m := range evaluation.CanAlmostCook {
		input.CanAlmostCook = append(input.CanAlmostCook, AlmostCookItem{Name: m.RecipeName, Missing: m.MissingIngredients})
	}
	return input
}

package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/core/image"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/infrastructure/persistence"
	"recipe-assistant/internal/pkg/common"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *persistence.Store {
	t.Helper()
	db, err := persistence.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = persistence.Close(db) })
	return persistence.NewStore(db)
}

func seedRecipe(t *testing.T, store *persistence.Store, recipe persistence.Recipe, ingredients ...string) *persistence.Recipe {
	t.Helper()
	if recipe.Instructions == "" {
		recipe.Instructions = "Combine and cook until ready."
	}
	for _, name := range ingredients {
		recipe.Ingredients = append(recipe.Ingredients, persistence.Ingredient{Name: name})
	}
	require.NoError(t, store.CreateRecipe(context.Background(), &recipe))
	return &recipe
}

func persistenceRecipe(name, cuisine string) persistence.Recipe {
	return persistence.Recipe{Name: name, CuisineType: cuisine}
}

// fakeText 以固定 JSON 回覆的文字供應商
type fakeText struct {
	name       provider.Name
	configured bool
	reply      string
	err        error

	mu    sync.Mutex
	calls int
}

func (f *fakeText) Name() provider.Name { return f.name }
func (f *fakeText) Configured() bool    { return f.configured }

func (f *fakeText) CompleteJSON(_ context.Context, _ []common.ChatMessage, out interface{}) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.reply), out)
}

func (f *fakeText) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var errProviderDown = errors.New("provider down")

// stubSuggester 返回固定建議
type stubSuggester struct {
	suggestion common.MetadataSuggestion

	mu    sync.Mutex
	calls int
}

func (s *stubSuggester) Suggest(context.Context, Draft) common.MetadataSuggestion {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.suggestion
}

func (s *stubSuggester) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// fakeImager 返回固定圖片
type fakeImager struct {
	result provider.DishImageResult

	mu       sync.Mutex
	payloads []image.DishPayload
}

func (f *fakeImager) GenerateDishImage(_ context.Context, payload image.DishPayload) provider.DishImageResult {
	f.mu.Lock()
	f.payloads = append(f.payloads, payload)
	f.mu.Unlock()
	return f.result
}

// fakeNarrator 記錄調用並返回固定建議
type fakeNarrator struct {
	narrative *Narrative
	inputs    []NarrativeInput
}

func (f *fakeNarrator) Generate(_ context.Context, input NarrativeInput) *Narrative {
	f.inputs = append(f.inputs, input)
	return f.narrative
}

package recipe

import (
	"context"
	"errors"
	"fmt"

	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/core/ai/queue"
	"recipe-assistant/internal/core/image"
	"recipe-assistant/internal/infrastructure/metrics"
	"recipe-assistant/internal/infrastructure/persistence"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// BackfillStore 批次補全所需的資料存取
type BackfillStore interface {
	RecipesMissingMetadata(ctx context.Context, limit int) ([]persistence.Recipe, error)
	RecipesMissingImage(ctx context.Context, limit int) ([]persistence.Recipe, error)
	UpdateRecipeMetadata(ctx context.Context, id string, update persistence.MetadataUpdate) error
	UpdateRecipeImage(ctx context.Context, id string, update persistence.ImageUpdate) (*persistence.Recipe, error)
}

// DishImager 產生菜餚圖片
type DishImager interface {
	GenerateDishImage(ctx context.Context, payload image.DishPayload) provider.DishImageResult
}

// BackfillReport 批次補全統計
type BackfillReport struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Backfiller 為既有食譜補上中繼資料與圖片，任務經由隊列執行以限制同時調用供應商的數量
type Backfiller struct {
	store     BackfillStore
	suggester Suggester
	images    DishImager
	queue     *queue.Manager
}

// NewBackfiller 創建批次補全器，queue 為 nil 時依序執行
func NewBackfiller(store BackfillStore, suggester Suggester, images DishImager, q *queue.Manager) *Backfiller {
	return &Backfiller{store: store, suggester: suggester, images: images, queue: q}
}

// BackfillMetadata 強制重新補全缺少中繼資料的食譜
func (b *Backfiller) BackfillMetadata(ctx context.Context, limit int) (*BackfillReport, error) {
	recipes, err := b.store.RecipesMissingMetadata(ctx, limit)
	if err != nil {
		return nil, err
	}

	tasks := make([]namedTask, 0, len(recipes))
	for _, r := range recipes {
		r := r
		tasks = append(tasks, namedTask{name: "metadata:" + r.ID, run: func(ctx context.Context) error {
			metadata := CompleteMetadata(ctx, b.suggester, CompletionInput{
				Name:                r.Name,
				Instructions:        r.Instructions,
				Ingredients:         r.IngredientNames(),
				CuisineType:         r.CuisineType,
				PrepTimeMinutes:     r.PrepTimeMinutes,
				CookTimeMinutes:     r.CookTimeMinutes,
				Servings:            r.Servings,
				Difficulty:          r.Difficulty,
				Tags:                r.Tags,
				AISuggestedMetadata: r.AISuggestedMetadata,
			}, true)
			return b.store.UpdateRecipeMetadata(ctx, r.ID, persistence.MetadataUpdate{
				CuisineType:           metadata.CuisineType,
				PrepTimeMinutes:       metadata.PrepTimeMinutes,
				CookTimeMinutes:       metadata.CookTimeMinutes,
				Servings:              metadata.Servings,
				Difficulty:            metadata.Difficulty,
				Tags:                  metadata.Tags,
				AISuggestedMetadata:   metadata.AISuggestedMetadata,
				IsAIMetadataConfirmed: metadata.IsAIMetadataConfirmed,
			})
		}})
	}

	report := b.run(ctx, tasks)
	report.Scanned = len(recipes)
	b.finish("metadata", report)
	return report, nil
}

// BackfillImages 為沒有可用圖片的食譜產生圖片
func (b *Backfiller) BackfillImages(ctx context.Context, limit int) (*BackfillReport, error) {
	recipes, err := b.store.RecipesMissingImage(ctx, limit)
	if err != nil {
		return nil, err
	}

	tasks := make([]namedTask, 0, len(recipes))
	for _, r := range recipes {
		if common.IsRenderableImageURL(r.ImageURL) {
			continue
		}
		r := r
		tasks = append(tasks, namedTask{name: "image:" + r.ID, run: func(ctx context.Context) error {
			generated := b.images.GenerateDishImage(ctx, image.DishPayload{
				Name:        r.Name,
				CuisineType: r.CuisineType,
				Ingredients: r.IngredientNames(),
			})
			_, err := b.store.UpdateRecipeImage(ctx, r.ID, persistence.ImageUpdate{
				URL:    generated.URL,
				Source: string(generated.Source),
				Query:  generated.Query,
				Prompt: generated.Prompt,
			})
			return err
		}})
	}

	report := b.run(ctx, tasks)
	report.Scanned = len(recipes)
	b.finish("images", report)
	return report, nil
}

type namedTask struct {
	name string
	run  queue.Task
}

// run 隊列已滿時先等待最早送出的任務完成再重試
func (b *Backfiller) run(ctx context.Context, tasks []namedTask) *BackfillReport {
	report := &BackfillReport{}
	collect := func(err error) {
		if err != nil {
			report.Failed++
			return
		}
		report.Updated++
	}

	if b.queue == nil {
		for _, task := range tasks {
			collect(task.run(ctx))
		}
		return report
	}

	var pending []<-chan queue.Result
	for _, task := range tasks {
		for {
			ch, err := b.queue.Enqueue(ctx, task.name, task.run)
			if errors.Is(err, common.ErrQueueFull) && len(pending) > 0 {
				collect(await(ctx, pending[0]))
				pending = pending[1:]
				continue
			}
			if err != nil {
				collect(fmt.Errorf("enqueue %s: %w", task.name, err))
				break
			}
			pending = append(pending, ch)
			break
		}
	}
	for _, ch := range pending {
		collect(await(ctx, ch))
	}
	return report
}

// await 等待任務結果，ctx 結束時不再等待並以 ctx 錯誤計為失敗
func await(ctx context.Context, ch <-chan queue.Result) error {
	select {
	case res := <-ch:
		return res.Error
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Backfiller) finish(kind string, report *BackfillReport) {
	metrics.ObserveBackfill(kind, report.Updated, report.Failed)
	common.LogInfo("批次補全完成",
		zap.String("kind", kind),
		zap.Int("scanned", report.Scanned),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed),
	)
}

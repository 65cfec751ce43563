package image

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	lookupCacheNamespace = "image_lookup"
	// cacheMissMarker 記錄查無圖片，避免重複打外部索引
	cacheMissMarker = "-"
)

// Source 外部圖片索引
type Source interface {
	Name() string
	Find(ctx context.Context, query string) (string, error)
}

// MealDBSource TheMealDB 名稱搜尋
type MealDBSource struct {
	client *resty.Client
}

// NewMealDBSource 創建 TheMealDB 圖片來源
func NewMealDBSource(baseURL string, timeout time.Duration) *MealDBSource {
	return &MealDBSource{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout),
	}
}

// Name 來源名稱
func (s *MealDBSource) Name() string { return "themealdb" }

// Find 優先選擇菜名包含查詢字串的結果，否則取第一筆
func (s *MealDBSource) Find(ctx context.Context, query string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("s", query).
		Get("/search.php")
	if err != nil {
		return "", fmt.Errorf("themealdb: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("themealdb: status %d", resp.StatusCode())
	}

	var body struct {
		Meals []struct {
			StrMeal      *string `json:"strMeal"`
			StrMealThumb *string `json:"strMealThumb"`
		} `json:"meals"`
	}
	if err := common.ParseJSONBytes(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("themealdb: parse response: %w", err)
	}
	if len(body.Meals) == 0 {
		return "", common.ErrNoImageFound
	}

	picked := body.Meals[0]
	normalized := strings.ToLower(query)
	for _, meal := range body.Meals {
		if meal.StrMeal != nil && strings.Contains(strings.ToLower(*meal.StrMeal), normalized) {
			picked = meal
			break
		}
	}

	if picked.StrMealThumb == nil {
		return "", common.ErrNoImageFound
	}
	thumbnail := strings.TrimSpace(*picked.StrMealThumb)
	if !common.IsRenderableImageURL(thumbnail) {
		return "", common.ErrNoImageFound
	}
	return thumbnail, nil
}

// WikipediaSource 維基百科頁面縮圖
type WikipediaSource struct {
	client *resty.Client
}

// NewWikipediaSource 創建維基百科圖片來源
func NewWikipediaSource(baseURL string, timeout time.Duration) *WikipediaSource {
	return &WikipediaSource{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout),
	}
}

// Name 來源名稱
func (s *WikipediaSource) Name() string { return "wikipedia" }

// Find 搜尋 "<query> dish" 並取第一張可顯示的縮圖
func (s *WikipediaSource) Find(ctx context.Context, query string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"action":      "query",
			"format":      "json",
			"origin":      "*",
			"generator":   "search",
			"gsrsearch":   query + " dish",
			"gsrlimit":    "5",
			"prop":        "pageimages",
			"piprop":      "thumbnail",
			"pithumbsize": "1000",
		}).
		Get("/api.php")
	if err != nil {
		return "", fmt.Errorf("wikipedia: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("wikipedia: status %d", resp.StatusCode())
	}

	var body struct {
		Query struct {
			Pages map[string]struct {
				Index     int `json:"index"`
				Thumbnail *struct {
					Source string `json:"source"`
				} `json:"thumbnail"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := common.ParseJSONBytes(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("wikipedia: parse response: %w", err)
	}

	// 依搜尋排名挑選
	best, bestIndex := "", 0
	for _, page := range body.Query.Pages {
		if page.Thumbnail == nil || !common.IsRenderableImageURL(page.Thumbnail.Source) {
			continue
		}
		if best == "" || page.Index < bestIndex {
			best, bestIndex = page.Thumbnail.Source, page.Index
		}
	}
	if best == "" {
		return "", common.ErrNoImageFound
	}
	return best, nil
}

// Lookup 依查詢變體與來源順序尋找外部圖片
type Lookup struct {
	sources []Source
	cache   cache.Store
}

// NewLookup 創建外部圖片查詢，store 可為 nil
func NewLookup(store cache.Store, sources ...Source) *Lookup {
	return &Lookup{sources: sources, cache: store}
}

// Find 對每個查詢變體依序嘗試所有來源，第一個命中即返回
func (l *Lookup) Find(ctx context.Context, query string) (string, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(query), " "))
	if key == "" {
		return "", false
	}

	if l.cache != nil {
		if cached, ok := l.cache.Get(ctx, lookupCacheNamespace, key); ok {
			if cached == cacheMissMarker {
				return "", false
			}
			return cached, true
		}
	}

	url, found := l.search(ctx, query)

	if l.cache != nil && ctx.Err() == nil {
		value := cacheMissMarker
		if found {
			value = url
		}
		if err := l.cache.Set(ctx, lookupCacheNamespace, key, value); err != nil {
			common.LogDebug("外部圖片查詢結果未寫入快取", zap.Error(err))
		}
	}
	return url, found
}

func (l *Lookup) search(ctx context.Context, query string) (string, bool) {
	for _, variant := range QueryVariants(query) {
		for _, source := range l.sources {
			if ctx.Err() != nil {
				return "", false
			}
			url, err := source.Find(ctx, variant)
			if err == nil && url != "" {
				common.LogInfo("外部圖片命中",
					zap.String("source", source.Name()),
					zap.String("query", variant),
				)
				return url, true
			}
			common.LogDebug("外部圖片未命中",
				zap.String("source", source.Name()),
				zap.String("query", variant),
				zap.Error(err),
			)
		}
	}
	return "", false
}

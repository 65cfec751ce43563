package recipe

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"recipe-assistant/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

const (
	maxMealIngredients = 20
	maxImportedTags    = 8
)

var measurePattern = regexp.MustCompile(`^([0-9]+(?:[./][0-9]+)?)\s*(.*)$`)

// ImportedIngredient 匯入食譜的食材
type ImportedIngredient struct {
	Name     string
	Quantity string
	Unit     string
}

// ImportedRecipe 外部來源的食譜
type ImportedRecipe struct {
	Name         string
	Instructions string
	CuisineType  string
	Tags         []string
	ImageURL     string
	Ingredients  []ImportedIngredient
}

// MealCatalog 依首字母列出外部食譜
type MealCatalog interface {
	MealsByLetter(ctx context.Context, letter string) ([]ImportedRecipe, error)
}

// MealDBCatalog TheMealDB 食譜目錄
type MealDBCatalog struct {
	client *resty.Client
}

// NewMealDBCatalog 創建 TheMealDB 目錄
func NewMealDBCatalog(baseURL string, timeout time.Duration) *MealDBCatalog {
	return &MealDBCatalog{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout),
	}
}

// MealsByLetter 列出首字母相符的食譜，略過沒有步驟或食材的項目
func (c *MealDBCatalog) MealsByLetter(ctx context.Context, letter string) ([]ImportedRecipe, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("f", letter).
		Get("/search.php")
	if err != nil {
		return nil, fmt.Errorf("themealdb: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("themealdb: status %d", resp.StatusCode())
	}

	var body struct {
		Meals []map[string]interface{} `json:"meals"`
	}
	if err := common.ParseJSONBytes(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("themealdb: parse response: %w", err)
	}

	recipes := make([]ImportedRecipe, 0, len(body.Meals))
	for _, meal := range body.Meals {
		if recipe, ok := parseMeal(meal); ok {
			recipes = append(recipes, recipe)
		}
	}
	return recipes, nil
}

func parseMeal(meal map[string]interface{}) (ImportedRecipe, bool) {
	recipe := ImportedRecipe{
		Name:         field(meal, "strMeal"),
		Instructions: field(meal, "strInstructions"),
		CuisineType:  field(meal, "strArea"),
		ImageURL:     field(meal, "strMealThumb"),
		Ingredients:  parseMealIngredients(meal),
		Tags:         []string{},
	}
	for _, tag := range strings.Split(field(meal, "strTags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" && len(recipe.Tags) < maxImportedTags {
			recipe.Tags = append(recipe.Tags, tag)
		}
	}

	if recipe.Name == "" || recipe.Instructions == "" || len(recipe.Ingredients) == 0 {
		return ImportedRecipe{}, false
	}
	return recipe, true
}

// parseMealIngredients 量詞以數字開頭時拆為數量與單位，否則整段作為單位
func parseMealIngredients(meal map[string]interface{}) []ImportedIngredient {
	ingredients := []ImportedIngredient{}
	for i := 1; i <= maxMealIngredients; i++ {
		name := field(meal, fmt.Sprintf("strIngredient%d", i))
		if name == "" {
			continue
		}
		measure := field(meal, fmt.Sprintf("strMeasure%d", i))

		ing := ImportedIngredient{Name: name, Unit: measure}
		if m := measurePattern.FindStringSubmatch(measure); m != nil {
			ing.Quantity = m[1]
			ing.Unit = strings.TrimSpace(m[2])
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients
}

func field(meal map[string]interface{}, key string) string {
	if v, ok := meal[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// Package persistence 食譜與食材庫的 GORM 模型與存取
package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe 食譜
type Recipe struct {
	ID                    string       `gorm:"type:char(36);primaryKey" json:"id"`
	Name                  string       `gorm:"type:varchar(120);not null;index" json:"name"`
	Instructions          string       `gorm:"type:text;not null" json:"instructions"`
	CuisineType           string       `gorm:"type:varchar(60);index" json:"cuisineType"`
	PrepTimeMinutes       int          `gorm:"default:0" json:"prepTimeMinutes"`
	CookTimeMinutes       int          `gorm:"default:0" json:"cookTimeMinutes"`
	Servings              int          `gorm:"default:0" json:"servings"`
	Difficulty            string       `gorm:"type:varchar(10);index" json:"difficulty"`
	Tags                  StringSlice  `gorm:"type:json" json:"tags"`
	Nutrition             JSONField    `gorm:"type:json" json:"nutrition"`
	Allergens             StringSlice  `gorm:"type:json" json:"allergens"`
	AISuggestedMetadata   JSONField    `gorm:"type:json" json:"aiSuggestedMetadata"`
	IsAIMetadataConfirmed bool         `gorm:"default:false" json:"isAiMetadataConfirmed"`
	IsSystem              bool         `gorm:"default:false;index" json:"isSystem"`
	ImageURL              string       `gorm:"type:text" json:"imageUrl"`
	ImageSource           string       `gorm:"type:varchar(30)" json:"imageSource"`
	ImageQuery            string       `gorm:"type:varchar(255)" json:"imageQuery"`
	ImagePrompt           string       `gorm:"type:text" json:"imagePrompt"`
	ImageGeneratedAt      *time.Time   `json:"imageGeneratedAt"`
	Ingredients           []Ingredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
	CreatedAt             time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt             time.Time    `gorm:"index" json:"updatedAt"`
}

// Ingredient 食譜食材
type Ingredient struct {
	ID       string `gorm:"type:char(36);primaryKey" json:"id"`
	RecipeID string `gorm:"type:char(36);not null;index" json:"recipeId"`
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Quantity string `gorm:"type:varchar(50)" json:"quantity"`
	Unit     string `gorm:"type:varchar(30)" json:"unit"`
	Position int    `gorm:"default:0" json:"-"`
}

// PantryItem 食材庫項目
type PantryItem struct {
	ID         string     `gorm:"type:char(36);primaryKey" json:"id"`
	Name       string     `gorm:"type:varchar(100);not null" json:"name"`
	Quantity   string     `gorm:"type:varchar(50)" json:"quantity"`
	Unit       string     `gorm:"type:varchar(30)" json:"unit"`
	ExpiryDate *time.Time `json:"expiryDate"`
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// BeforeCreate 補上主鍵
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	for i := range r.Ingredients {
		r.Ingredients[i].Position = i
	}
	return nil
}

// BeforeCreate 補上主鍵
func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate 補上主鍵
func (p *PantryItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IngredientNames 依順序返回食材名稱
func (r *Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}

// StringSlice 以 JSON 儲存的字串陣列
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// MarshalJSON 空陣列輸出為 [] 而非 null
func (s StringSlice) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// JSONField 以 JSON 儲存的物件
type JSONField map[string]interface{}

// Scan implements the sql.Scanner interface
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return j.unmarshal(v)
	case string:
		return j.unmarshal([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into JSONField", value)
	}
}

func (j *JSONField) unmarshal(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*j = nil
		return nil
	}
	return json.Unmarshal(data, j)
}

// Value implements the driver.Valuer interface
func (j JSONField) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

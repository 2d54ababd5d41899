// Package gorm provides GORM model definitions and repositories for the meal
// pipeline. All writes here are best-effort from the pipeline's point of
// view: callers log failures and continue.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Age       *int
	Sex       string `gorm:"type:varchar(10)"`
	WeightKg  *float64
	HeightCm  *float64
	Activity  string      `gorm:"type:varchar(30)"`
	Goal      string      `gorm:"type:varchar(255)"`
	Allergies StringSlice `gorm:"type:json"`
	Conditions StringSlice `gorm:"type:json"`
	Cuisine    string      `gorm:"type:varchar(100)"`
	SpiceLevel string      `gorm:"type:varchar(30)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Recipes []RecipeModel `gorm:"foreignKey:UserID"`
}

// RecipeModel represents the GORM model for served recipes
type RecipeModel struct {
	ID           uuid.UUID       `gorm:"type:char(36);primaryKey"`
	UserID       uuid.UUID       `gorm:"type:char(36);index;not null"`
	DishName     string          `gorm:"type:varchar(255);not null"`
	Ingredients  IngredientsJSON `gorm:"type:json"`
	Steps        StringSlice     `gorm:"type:json"`
	Nutrition    NutritionJSON   `gorm:"type:json"`
	Cuisine      string      `gorm:"type:varchar(100)"`
	PrepTimeMins int
	MealType     string `gorm:"type:varchar(30)"`
	BestEffort   bool   `gorm:"default:false"`
	CreatedAt    time.Time
}

// GoalModel records one session's computed target
type GoalModel struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	UserID        uuid.UUID `gorm:"type:char(36);index;not null"`
	Goal          string    `gorm:"type:varchar(30);not null"`
	CalorieTarget int       `gorm:"not null"`
	ProteinPct    int
	CarbsPct      int
	FatPct        int
	SetAt         time.Time
}

// FeedbackModel represents a post-meal rating
type FeedbackModel struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	UserID   uuid.UUID `gorm:"type:char(36);index;not null"`
	RecipeID uuid.UUID `gorm:"type:char(36);index;not null"`
	Rating   int       `gorm:"not null"`
	Comment  string    `gorm:"type:text"`
	CreatedAt time.Time
}

// PreferenceModel holds one user's accumulated learned preferences
type PreferenceModel struct {
	UserID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	Learned   JSONField `gorm:"type:json"`
	UpdatedAt time.Time
}

// TableName methods for custom table names
func (UserModel) TableName() string {
	return "users"
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (GoalModel) TableName() string {
	return "goals"
}

func (FeedbackModel) TableName() string {
	return "feedback"
}

func (PreferenceModel) TableName() string {
	return "preferences"
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements sql.Scanner
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

// Value implements driver.Valuer
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// IngredientDoc is the stored form of one ingredient
type IngredientDoc struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// IngredientsJSON custom type for the ordered ingredient list
type IngredientsJSON []IngredientDoc

// Scan implements sql.Scanner
func (i *IngredientsJSON) Scan(value interface{}) error {
	if value == nil {
		*i = IngredientsJSON{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, i)
	case string:
		return json.Unmarshal([]byte(v), i)
	default:
		return fmt.Errorf("cannot scan %T into IngredientsJSON", value)
	}
}

// Value implements driver.Valuer
func (i IngredientsJSON) Value() (driver.Value, error) {
	if i == nil {
		return "[]", nil
	}
	data, err := json.Marshal(i)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// NutritionJSON is the stored form of a recipe's nutrition facts
type NutritionJSON struct {
	Calories  int      `json:"calories"`
	ProteinG  float64  `json:"protein_g"`
	CarbsG    float64  `json:"carbs_g"`
	FatG      float64  `json:"fat_g"`
	FiberG    *float64 `json:"fiber_g,omitempty"`
	SodiumMg  *float64 `json:"sodium_mg,omitempty"`
	CalciumMg *float64 `json:"calcium_mg,omitempty"`
	IronMg    *float64 `json:"iron_mg,omitempty"`
	SugarG    *float64 `json:"sugar_g,omitempty"`
}

// Scan implements sql.Scanner
func (n *NutritionJSON) Scan(value interface{}) error {
	if value == nil {
		*n = NutritionJSON{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, n)
	case string:
		return json.Unmarshal([]byte(v), n)
	default:
		return fmt.Errorf("cannot scan %T into NutritionJSON", value)
	}
}

// Value implements driver.Valuer
func (n NutritionJSON) Value() (driver.Value, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// JSONField custom type for handling arbitrary JSON fields
type JSONField map[string]interface{}

// Scan implements sql.Scanner
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = JSONField{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("cannot scan %T into JSONField", value)
	}
}

// Value implements driver.Valuer
func (j JSONField) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	data, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

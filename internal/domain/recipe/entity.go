// Package recipe contains the recipe domain model. A Recipe is an immutable
// value once produced by generation or adjustment: adjustment and
// substitution always construct a new Recipe rather than mutating in place.
package recipe

import (
	"time"

	"github.com/google/uuid"

	"github.com/mealforge/v1/internal/domain/nutrition"
)

// Recipe is a single candidate or final meal.
type Recipe struct {
	id           uuid.UUID
	dishName     string
	ingredients  []Ingredient
	steps        []string
	nutrition    nutrition.Facts
	cuisine      string
	prepTimeMins int
	mealType     MealType
	generatedAt  time.Time
}

// New creates a Recipe with validation. The ingredient and step slices are
// copied so later mutation of the caller's slices cannot reach the value.
func New(dishName string, ingredients []Ingredient, steps []string, facts nutrition.Facts) (*Recipe, error) {
	if dishName == "" {
		return nil, ErrEmptyDishName
	}
	if len(ingredients) == 0 {
		return nil, ErrNoIngredients
	}
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	for _, ing := range ingredients {
		if err := ing.Validate(); err != nil {
			return nil, err
		}
	}
	return &Recipe{
		id:          uuid.New(),
		dishName:    dishName,
		ingredients: append([]Ingredient(nil), ingredients...),
		steps:       append([]string(nil), steps...),
		nutrition:   facts,
		generatedAt: time.Now(),
	}, nil
}

// WithTags returns a copy tagged with cuisine, prep time and meal type.
func (r *Recipe) WithTags(cuisine string, prepTimeMins int, mealType MealType) *Recipe {
	clone := *r
	clone.cuisine = cuisine
	clone.prepTimeMins = prepTimeMins
	clone.mealType = mealType
	return &clone
}

// ID returns the recipe's unique identifier.
func (r *Recipe) ID() uuid.UUID { return r.id }

// DishName returns the dish name.
func (r *Recipe) DishName() string { return r.dishName }

// Ingredients returns a copy of the ordered ingredient list.
func (r *Recipe) Ingredients() []Ingredient {
	return append([]Ingredient(nil), r.ingredients...)
}

// Steps returns a copy of the ordered instruction steps.
func (r *Recipe) Steps() []string {
	return append([]string(nil), r.steps...)
}

// Nutrition returns the nutritional breakdown.
func (r *Recipe) Nutrition() nutrition.Facts { return r.nutrition }

// Cuisine returns the optional cuisine tag.
func (r *Recipe) Cuisine() string { return r.cuisine }

// PrepTimeMinutes returns the optional preparation time tag.
func (r *Recipe) PrepTimeMinutes() int { return r.prepTimeMins }

// MealType returns the optional meal type tag.
func (r *Recipe) MealType() MealType { return r.mealType }

// GeneratedAt returns when the recipe value was produced.
func (r *Recipe) GeneratedAt() time.Time { return r.generatedAt }

// Equal reports whether two recipes carry the same content, ignoring identity
// and generation time. Used to verify that a pass-through step did not alter
// the recipe.
func (r *Recipe) Equal(other *Recipe) bool {
	if other == nil {
		return false
	}
	if r.dishName != other.dishName ||
		r.cuisine != other.cuisine ||
		r.prepTimeMins != other.prepTimeMins ||
		r.mealType != other.mealType ||
		!r.nutrition.Equal(other.nutrition) ||
		len(r.ingredients) != len(other.ingredients) ||
		len(r.steps) != len(other.steps) {
		return false
	}
	for i, ing := range r.ingredients {
		if ing != other.ingredients[i] {
			return false
		}
	}
	for i, step := range r.steps {
		if step != other.steps[i] {
			return false
		}
	}
	return true
}

package recipe

import "errors"

// Ingredient is an ordered (name, quantity) pair. Quantity is free text with
// unit, e.g. "200g" or "2 tbsp".
type Ingredient struct {
	Name     string
	Quantity string
}

// Validate validates the ingredient.
func (i Ingredient) Validate() error {
	if i.Name == "" {
		return errors.New("ingredient name is required")
	}
	if i.Quantity == "" {
		return errors.New("ingredient quantity is required")
	}
	return nil
}

// String renders the ingredient as "quantity name" for reports and prompts.
func (i Ingredient) String() string {
	return i.Quantity + " " + i.Name
}

// MealType tags a recipe with the meal slot it is intended for.
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// Rating is a user's 1-5 star feedback on a served recipe.
type Rating struct {
	Value   int
	Comment string
}

// Validate validates the rating.
func (r Rating) Validate() error {
	if r.Value < 1 || r.Value > 5 {
		return ErrInvalidRating
	}
	if len(r.Comment) > 500 {
		return errors.New("comment too long")
	}
	return nil
}

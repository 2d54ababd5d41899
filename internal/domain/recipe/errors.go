package recipe

import "errors"

// Domain errors for recipe construction and feedback

var (
	ErrEmptyDishName = errors.New("recipe dish name is required")
	ErrNoIngredients = errors.New("recipe must have at least one ingredient")
	ErrNoSteps       = errors.New("recipe must have at least one instruction step")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

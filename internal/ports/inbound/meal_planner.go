// Package inbound defines the interfaces for inbound ports (primary/driving
// adapters). The CLI session boundary drives the pipeline through these.
package inbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/mealforge/v1/internal/domain/nutrition"
	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
)

// PlanResult is everything the session boundary surfaces to the user after a
// pipeline run. FinalRecipe is always the post-substitution recipe;
// downstream consumers must never reference the pre-substitution candidate.
type PlanResult struct {
	UserID        uuid.UUID
	RecipeID      uuid.UUID
	FinalRecipe   *recipe.Recipe
	Goal          profile.Goal
	CalorieTarget int
	Macros        nutrition.MacroSplit
	Validation    nutrition.ValidationResult
	Substitutions []recipe.Substitution
	Explanation   string
	BestEffort    bool
	RetryCount    int
}

// MealPlannerService is the application service driving one user session.
type MealPlannerService interface {
	// PlanMeal runs the full pipeline for a profile. The user always
	// receives a recipe (possibly best-effort) unless the generation
	// collaborator is permanently unavailable.
	PlanMeal(ctx context.Context, p *profile.UserProfile) (*PlanResult, error)

	// SubmitFeedback records a 1-5 rating plus comment for a served recipe
	// and updates learned preferences from it.
	SubmitFeedback(ctx context.Context, userID, recipeID uuid.UUID, rating recipe.Rating, served *recipe.Recipe) error
}

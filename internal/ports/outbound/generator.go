// Package outbound defines the interfaces for outbound ports (secondary/driven
// adapters): the recipe generation collaborator, persistence and the cache.
// The collaborators behind these interfaces are out of scope for the core
// pipeline, which depends only on the contracts here.
package outbound

import (
	"context"

	"github.com/mealforge/v1/internal/domain/nutrition"
	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
)

// GenerationRequest carries the target and constraints for a fresh recipe.
type GenerationRequest struct {
	CalorieTarget int
	Macros        nutrition.MacroSplit
	Goal          profile.Goal
	Allergies     []string
	Conditions    []profile.MedicalCondition
	Cuisine       string
	SpiceLevel    string
	MealType      recipe.MealType
	Learned       *profile.LearnedPreferences
}

// AdjustmentRequest carries a failing candidate plus the validator's notes so
// the generator can produce a corrected revision.
type AdjustmentRequest struct {
	Candidate     *recipe.Recipe
	FailureNotes  string
	CalorieTarget int
	Macros        nutrition.MacroSplit
	Allergies     []string
	Conditions    []profile.MedicalCondition
}

// RecipeGenerator is the language-model collaborator, treated as a black box:
// prompt and context in, structured recipe out.
//
// Generate may fail with a transient error (errors.CodeGenerationTransient),
// which the caller retries at most once, or a permanent error, which aborts
// the session. Adjust must never fail hard: when it cannot produce a
// compliant revision it returns a best-effort recipe so the router's bounded
// iteration is never broken by an escaping error.
type RecipeGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*recipe.Recipe, error)
	Adjust(ctx context.Context, req AdjustmentRequest) (*recipe.Recipe, string, error)
}

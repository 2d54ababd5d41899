package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mealforge/v1/internal/domain/nutrition"
	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
)

// RecipeRepository persists served recipes. All persistence is best-effort:
// callers log failures and continue without aborting the session.
type RecipeRepository interface {
	SaveRecipe(ctx context.Context, userID uuid.UUID, rec *recipe.Recipe, bestEffort bool) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*recipe.Recipe, error)
}

// FeedbackRepository persists post-meal ratings.
type FeedbackRepository interface {
	SaveFeedback(ctx context.Context, userID, recipeID uuid.UUID, rating recipe.Rating) error
}

// GoalSnapshot records the target computed for one session, for goal history.
type GoalSnapshot struct {
	UserID        uuid.UUID
	Goal          profile.Goal
	CalorieTarget int
	Macros        nutrition.MacroSplit
	SetAt         time.Time
}

// PreferenceRepository persists learned preferences and goal history.
type PreferenceRepository interface {
	LoadLearnedPreferences(ctx context.Context, userID uuid.UUID) (*profile.LearnedPreferences, error)
	SaveLearnedPreferences(ctx context.Context, userID uuid.UUID, prefs *profile.LearnedPreferences) error
	SaveGoalSnapshot(ctx context.Context, snapshot GoalSnapshot) error
}

// UserRepository persists user identities keyed by name.
type UserRepository interface {
	GetOrCreate(ctx context.Context, name string) (uuid.UUID, bool, error)
	SaveProfile(ctx context.Context, p *profile.UserProfile) error
}

package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/domain/nutrition"
	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
)

func servedRecipe(t *testing.T) *recipe.Recipe {
	t.Helper()
	facts, err := nutrition.NewFacts(650, 45, 60, 20)
	require.NoError(t, err)
	rec, err := recipe.New("Tofu Stir Fry",
		[]recipe.Ingredient{
			{Name: "tofu", Quantity: "200g"},
			{Name: "broccoli", Quantity: "150g"},
		},
		[]string{"Stir fry."}, facts)
	require.NoError(t, err)
	return rec.WithTags("thai", 20, recipe.MealTypeDinner)
}

func TestMerge(t *testing.T) {
	learner := NewLearner(zap.NewNop())

	t.Run("high rating records likes", func(t *testing.T) {
		prefs := &profile.LearnedPreferences{}
		learner.Merge(prefs, servedRecipe(t), recipe.Rating{Value: 5, Comment: "great"})

		assert.ElementsMatch(t, []string{"tofu", "broccoli"}, prefs.LikedIngredients)
		assert.Equal(t, []string{"thai"}, prefs.PreferredCuisines)
		require.Len(t, prefs.SessionInsights, 1)
		assert.Contains(t, prefs.SessionInsights[0], "5/5")
		assert.Contains(t, prefs.SessionInsights[0], "great")
	})

	t.Run("low rating records dislikes", func(t *testing.T) {
		prefs := &profile.LearnedPreferences{}
		learner.Merge(prefs, servedRecipe(t), recipe.Rating{Value: 1})

		assert.ElementsMatch(t, []string{"tofu", "broccoli"}, prefs.DislikedIngredients)
		assert.Equal(t, []string{"thai"}, prefs.AvoidedCuisines)
		assert.Empty(t, prefs.LikedIngredients)
	})

	t.Run("neutral rating leaves preferences untouched", func(t *testing.T) {
		prefs := &profile.LearnedPreferences{}
		learner.Merge(prefs, servedRecipe(t), recipe.Rating{Value: 3})

		assert.Empty(t, prefs.LikedIngredients)
		assert.Empty(t, prefs.DislikedIngredients)
		assert.Empty(t, prefs.SessionInsights)
	})

	t.Run("later signal overrides the earlier one", func(t *testing.T) {
		prefs := &profile.LearnedPreferences{}
		learner.Merge(prefs, servedRecipe(t), recipe.Rating{Value: 2})
		learner.Merge(prefs, servedRecipe(t), recipe.Rating{Value: 5})

		assert.ElementsMatch(t, []string{"tofu", "broccoli"}, prefs.LikedIngredients)
		assert.Empty(t, prefs.DislikedIngredients)
		assert.Equal(t, []string{"thai"}, prefs.PreferredCuisines)
		assert.Empty(t, prefs.AvoidedCuisines)
	})
}

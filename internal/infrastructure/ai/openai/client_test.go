package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecipeJSON = `{
  "dish_name": "Grilled Salmon Bowl",
  "ingredients": [
    {"name": "salmon fillet", "quantity": "200g"},
    {"name": "quinoa", "quantity": "150g"}
  ],
  "steps": ["Cook the quinoa.", "Grill the salmon."],
  "nutrition": {
    "calories": 720,
    "protein_g": 48.0,
    "carbs_g": 55.0,
    "fat_g": 28.0,
    "fiber_g": 6.5,
    "sodium_mg": 380.0
  },
  "cuisine": "nordic",
  "prep_time_minutes": 30,
  "meal_type": "dinner"
}`

func TestParseCandidate(t *testing.T) {
	t.Run("clean JSON", func(t *testing.T) {
		rec, err := parseCandidate(sampleRecipeJSON)
		require.NoError(t, err)
		assert.Equal(t, "Grilled Salmon Bowl", rec.DishName())
		assert.Len(t, rec.Ingredients(), 2)
		assert.Equal(t, 720, rec.Nutrition().Calories())
		require.NotNil(t, rec.Nutrition().FiberG())
		assert.Equal(t, 6.5, *rec.Nutrition().FiberG())
		assert.Equal(t, "nordic", rec.Cuisine())
	})

	t.Run("JSON wrapped in fences and prose", func(t *testing.T) {
		wrapped := "Here is your recipe:\n```json\n" + sampleRecipeJSON + "\n```\nEnjoy!"
		rec, err := parseCandidate(wrapped)
		require.NoError(t, err)
		assert.Equal(t, "Grilled Salmon Bowl", rec.DishName())
	})

	t.Run("no JSON object", func(t *testing.T) {
		_, err := parseCandidate("Sorry, I cannot help with that.")
		assert.Error(t, err)
	})

	t.Run("structurally valid but empty recipe", func(t *testing.T) {
		_, err := parseCandidate(`{"dish_name": "", "ingredients": [], "steps": []}`)
		assert.Error(t, err)
	})

	t.Run("out-of-range nutrition rejected", func(t *testing.T) {
		_, err := parseCandidate(`{
			"dish_name": "Impossible Dish",
			"ingredients": [{"name": "air", "quantity": "1"}],
			"steps": ["Breathe."],
			"nutrition": {"calories": 12, "protein_g": 1, "carbs_g": 1, "fat_g": 1}
		}`)
		assert.Error(t, err)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcde...", truncate("abcdefghij", 5))
}

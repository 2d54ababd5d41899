package openai

import (
	"fmt"
	"strings"

	"github.com/mealforge/v1/internal/ports/outbound"
)

const generationSystemPrompt = `You are an expert nutritionist and chef. Create a single-meal recipe that hits the given calorie and macro targets.

CRITICAL: Respond with ONLY a valid JSON object in this exact format, no markdown fences, no extra text:
{
  "dish_name": "Recipe Name",
  "ingredients": [
    {"name": "ingredient name", "quantity": "150g"}
  ],
  "steps": [
    "Step 1: Detailed instruction",
    "Step 2: Next step"
  ],
  "nutrition": {
    "calories": 650,
    "protein_g": 45.0,
    "carbs_g": 60.0,
    "fat_g": 20.0,
    "fiber_g": 8.0,
    "sodium_mg": 450.0
  },
  "cuisine": "cuisine_type",
  "prep_time_minutes": 25,
  "meal_type": "dinner"
}`

const adjustmentSystemPrompt = `You are an expert nutritionist and chef. You will receive a recipe that failed nutrition validation, together with the validator's notes. Revise the recipe to fix every failing check while keeping the dish recognizable.

CRITICAL: Respond with ONLY the revised recipe as a valid JSON object in the same format as the input recipe, no markdown fences, no extra text.`

// buildGenerationPrompt renders the user message for a fresh candidate.
func buildGenerationPrompt(req outbound.GenerationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a meal for the goal %q.\n", req.Goal)
	fmt.Fprintf(&b, "Calorie target: %d kcal (stay within 10%%).\n", req.CalorieTarget)
	fmt.Fprintf(&b, "Macro targets: %d%% protein, %d%% carbs, %d%% fat (each within 5 points).\n",
		req.Macros.Protein(), req.Macros.Carbs(), req.Macros.Fat())

	if len(req.Allergies) > 0 {
		fmt.Fprintf(&b, "The user is allergic to: %s. No ingredient may contain these.\n",
			strings.Join(req.Allergies, ", "))
	}
	if len(req.Conditions) > 0 {
		conditions := make([]string, len(req.Conditions))
		for i, cond := range req.Conditions {
			conditions[i] = string(cond)
		}
		fmt.Fprintf(&b, "Medical conditions to respect: %s.\n", strings.Join(conditions, ", "))
	}
	if req.Cuisine != "" {
		fmt.Fprintf(&b, "Preferred cuisine: %s.\n", req.Cuisine)
	}
	if req.SpiceLevel != "" {
		fmt.Fprintf(&b, "Spice level: %s.\n", req.SpiceLevel)
	}
	if req.MealType != "" {
		fmt.Fprintf(&b, "Meal type: %s.\n", req.MealType)
	}

	if req.Learned != nil {
		if len(req.Learned.LikedIngredients) > 0 {
			fmt.Fprintf(&b, "The user has liked: %s.\n", strings.Join(req.Learned.LikedIngredients, ", "))
		}
		if len(req.Learned.DislikedIngredients) > 0 {
			fmt.Fprintf(&b, "Avoid if possible (disliked): %s.\n", strings.Join(req.Learned.DislikedIngredients, ", "))
		}
		if len(req.Learned.PreferredCuisines) > 0 {
			fmt.Fprintf(&b, "Cuisines the user has enjoyed: %s.\n", strings.Join(req.Learned.PreferredCuisines, ", "))
		}
		if len(req.Learned.AvoidedCuisines) > 0 {
			fmt.Fprintf(&b, "Cuisines the user has disliked: %s.\n", strings.Join(req.Learned.AvoidedCuisines, ", "))
		}
	}

	b.WriteString("Report honest nutrition values including fiber and sodium.")
	return b.String()
}

// buildAdjustmentPrompt renders the user message for a revision round.
func buildAdjustmentPrompt(req outbound.AdjustmentRequest) string {
	var b strings.Builder
	b.WriteString("This recipe failed validation:\n\n")

	facts := req.Candidate.Nutrition()
	fmt.Fprintf(&b, "Dish: %s\n", req.Candidate.DishName())
	b.WriteString("Ingredients:\n")
	for _, ing := range req.Candidate.Ingredients() {
		fmt.Fprintf(&b, "  - %s\n", ing.String())
	}
	fmt.Fprintf(&b, "Nutrition: %d kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n",
		facts.Calories(), facts.ProteinG(), facts.CarbsG(), facts.FatG())

	fmt.Fprintf(&b, "\nValidation notes:\n%s\n", req.FailureNotes)
	fmt.Fprintf(&b, "\nTargets: %d kcal, %d%% protein / %d%% carbs / %d%% fat.\n",
		req.CalorieTarget, req.Macros.Protein(), req.Macros.Carbs(), req.Macros.Fat())
	if len(req.Allergies) > 0 {
		fmt.Fprintf(&b, "Allergies (must not appear): %s.\n", strings.Join(req.Allergies, ", "))
	}
	b.WriteString("Fix every failing check.")
	return b.String()
}

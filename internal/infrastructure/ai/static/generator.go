// Package static provides a deterministic recipe generator used when no
// language-model endpoint is configured. It derives a compliant meal directly
// from the numeric targets, which also makes it the workhorse double for
// development and demos.
package static

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/domain/nutrition"
	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
	"github.com/mealforge/v1/internal/ports/outbound"
	apperrors "github.com/mealforge/v1/pkg/errors"
)

// basePantry is the ingredient pool, scanned against the user's allergies
// before use.
var basePantry = []string{
	"chicken breast",
	"brown rice",
	"olive oil",
	"spinach",
	"broccoli",
	"sweet potato",
	"lentils",
	"quinoa",
	"bell pepper",
	"chickpeas",
}

var dishNames = map[profile.Goal]string{
	profile.GoalMuscleGain:  "Power Bowl",
	profile.GoalFatLoss:     "Lean Green Plate",
	profile.GoalMaintenance: "Balanced Harvest Bowl",
}

// Generator implements outbound.RecipeGenerator without any remote calls.
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates the deterministic generator.
func NewGenerator(logger *zap.Logger) *Generator {
	return &Generator{logger: logger.Named("static-generator")}
}

var _ outbound.RecipeGenerator = (*Generator)(nil)

// Generate builds a meal whose reported nutrition matches the targets.
func (g *Generator) Generate(ctx context.Context, req outbound.GenerationRequest) (*recipe.Recipe, error) {
	rec, err := g.build(req.CalorieTarget, req.Macros, req.Goal, req.Allergies, req.Cuisine)
	if err != nil {
		return nil, apperrors.NewGenerationUnavailableError(err)
	}
	g.logger.Info("Static candidate generated", zap.String("dish", rec.DishName()))
	return rec, nil
}

// Adjust rebuilds the meal from the adjustment targets, so one revision round
// always converges.
func (g *Generator) Adjust(ctx context.Context, req outbound.AdjustmentRequest) (*recipe.Recipe, string, error) {
	rec, err := g.build(req.CalorieTarget, req.Macros, profile.GoalMaintenance, req.Allergies, req.Candidate.Cuisine())
	if err != nil {
		g.logger.Warn("Static adjustment failed, keeping current candidate", zap.Error(err))
		return req.Candidate, "adjustment unavailable, candidate unchanged", nil
	}
	return rec, "candidate rebuilt from targets", nil
}

func (g *Generator) build(calories int, macros nutrition.MacroSplit, goal profile.Goal, allergies []string, cuisine string) (*recipe.Recipe, error) {
	// Gram counts derived straight from the energy split, so the validator's
	// recomputed percentages land on the targets.
	proteinG := float64(calories) * float64(macros.Protein()) / 100 / nutrition.KcalPerGramProtein
	carbsG := float64(calories) * float64(macros.Carbs()) / 100 / nutrition.KcalPerGramCarbs
	fatG := float64(calories) * float64(macros.Fat()) / 100 / nutrition.KcalPerGramFat

	facts, err := nutrition.NewFacts(calories, proteinG, carbsG, fatG)
	if err != nil {
		return nil, err
	}
	// 9g fiber clears the senior band as well; 400mg sodium clears the cap.
	if facts, err = facts.WithFiber(9); err != nil {
		return nil, err
	}
	if facts, err = facts.WithSodium(400); err != nil {
		return nil, err
	}

	var ingredients []recipe.Ingredient
	for _, name := range basePantry {
		if containsAllergen(name, allergies) {
			continue
		}
		ingredients = append(ingredients, recipe.Ingredient{Name: name, Quantity: "1 serving"})
		if len(ingredients) == 5 {
			break
		}
	}
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("no pantry ingredient clears the declared allergies")
	}

	dishName, ok := dishNames[goal]
	if !ok {
		dishName = dishNames[profile.GoalMaintenance]
	}

	steps := []string{
		"Prepare and portion all ingredients according to the listed quantities.",
		"Cook the protein and grains separately until done.",
		"Combine everything in a bowl and season to taste.",
	}

	rec, err := recipe.New(dishName, ingredients, steps, facts)
	if err != nil {
		return nil, err
	}
	return rec.WithTags(cuisine, 25, recipe.MealTypeDinner), nil
}

func containsAllergen(ingredient string, allergies []string) bool {
	nameLower := strings.ToLower(ingredient)
	for _, allergen := range allergies {
		token := strings.ToLower(strings.TrimSpace(allergen))
		if token != "" && strings.Contains(nameLower, token) {
			return true
		}
	}
	return false
}

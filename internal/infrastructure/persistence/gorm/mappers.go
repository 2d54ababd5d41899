package gorm

import (
	"time"

	"github.com/google/uuid"

	"github.com/mealforge/v1/internal/domain/nutrition"
	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
)

// RecipeToModel converts a domain recipe to its GORM model.
func RecipeToModel(userID uuid.UUID, rec *recipe.Recipe, bestEffort bool) *RecipeModel {
	facts := rec.Nutrition()

	ingredients := make(IngredientsJSON, 0, len(rec.Ingredients()))
	for _, ing := range rec.Ingredients() {
		ingredients = append(ingredients, IngredientDoc{Name: ing.Name, Quantity: ing.Quantity})
	}

	return &RecipeModel{
		ID:          rec.ID(),
		UserID:      userID,
		DishName:    rec.DishName(),
		Ingredients: ingredients,
		Steps:       StringSlice(rec.Steps()),
		Nutrition: NutritionJSON{
			Calories:  facts.Calories(),
			ProteinG:  facts.ProteinG(),
			CarbsG:    facts.CarbsG(),
			FatG:      facts.FatG(),
			FiberG:    facts.FiberG(),
			SodiumMg:  facts.SodiumMg(),
			CalciumMg: facts.CalciumMg(),
			IronMg:    facts.IronMg(),
			SugarG:    facts.SugarG(),
		},
		Cuisine:      rec.Cuisine(),
		PrepTimeMins: rec.PrepTimeMinutes(),
		MealType:     string(rec.MealType()),
		BestEffort:   bestEffort,
		CreatedAt:    time.Now(),
	}
}

// ModelToRecipe converts a GORM model back to a domain recipe. The loaded
// entity carries a fresh identity; the stored row keeps the original one.
func ModelToRecipe(model *RecipeModel) (*recipe.Recipe, error) {
	facts, err := nutrition.NewFacts(
		model.Nutrition.Calories,
		model.Nutrition.ProteinG,
		model.Nutrition.CarbsG,
		model.Nutrition.FatG,
	)
	if err != nil {
		return nil, err
	}
	if model.Nutrition.FiberG != nil {
		if facts, err = facts.WithFiber(*model.Nutrition.FiberG); err != nil {
			return nil, err
		}
	}
	if model.Nutrition.SodiumMg != nil {
		if facts, err = facts.WithSodium(*model.Nutrition.SodiumMg); err != nil {
			return nil, err
		}
	}
	if model.Nutrition.CalciumMg != nil {
		if facts, err = facts.WithCalcium(*model.Nutrition.CalciumMg); err != nil {
			return nil, err
		}
	}
	if model.Nutrition.IronMg != nil {
		if facts, err = facts.WithIron(*model.Nutrition.IronMg); err != nil {
			return nil, err
		}
	}
	if model.Nutrition.SugarG != nil {
		if facts, err = facts.WithSugar(*model.Nutrition.SugarG); err != nil {
			return nil, err
		}
	}

	ingredients := make([]recipe.Ingredient, 0, len(model.Ingredients))
	for _, doc := range model.Ingredients {
		ingredients = append(ingredients, recipe.Ingredient{Name: doc.Name, Quantity: doc.Quantity})
	}

	rec, err := recipe.New(model.DishName, ingredients, []string(model.Steps), facts)
	if err != nil {
		return nil, err
	}
	return rec.WithTags(model.Cuisine, model.PrepTimeMins, recipe.MealType(model.MealType)), nil
}

// ProfileToModel converts a domain profile to its GORM model.
func ProfileToModel(p *profile.UserProfile) *UserModel {
	conditions := make(StringSlice, 0, len(p.Conditions))
	for _, cond := range p.Conditions {
		conditions = append(conditions, string(cond))
	}
	return &UserModel{
		ID:         p.ID,
		Name:       p.Name,
		Age:        p.Age,
		Sex:        string(p.Sex),
		WeightKg:   p.WeightKg,
		HeightCm:   p.HeightCm,
		Activity:   string(p.Activity),
		Goal:       p.FitnessGoal,
		Allergies:  StringSlice(p.Allergies),
		Conditions: conditions,
		Cuisine:    p.Preferences.Cuisine,
		SpiceLevel: p.Preferences.SpiceLevel,
	}
}

// Package validation scores a candidate recipe against a session target on
// calories, macro ratios, fiber, allergens and (when the profile requires it)
// sodium. Validation failure is a modeled outcome that drives the retry
// router, never an error.
package validation

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/application/target"
	"github.com/mealforge/v1/internal/domain/nutrition"
	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
)

// Tolerance thresholds.
const (
	CalorieTolerancePct = 10.0 // +-10% of calorie target
	MacroTolerancePct   = 5.0  // +-5 percentage points per macro
	MinFiberGDefault    = 5.0  // minimum fiber for adults
	MinFiberGSenior     = 8.0  // higher fiber goal for seniors
	MaxSodiumMg         = 600.0
)

// Validator checks candidate recipes against targets.
type Validator struct {
	logger *zap.Logger
}

// NewValidator creates a nutrition validator.
func NewValidator(logger *zap.Logger) *Validator {
	return &Validator{logger: logger.Named("nutrition-validator")}
}

// Validate scores rec against tgt for the given profile and returns the
// structured verdict. The result is derived data, recomputable at any time
// from the same inputs.
func (v *Validator) Validate(rec *recipe.Recipe, tgt target.Target, p *profile.UserProfile) nutrition.ValidationResult {
	facts := rec.Nutrition()

	// 1. Calorie check: within +-10% of target.
	diffPct := math.Abs(float64(facts.Calories())-float64(tgt.Calories)) / float64(tgt.Calories) * 100
	calorieCheck := nutrition.Check{
		Passed: diffPct <= CalorieTolerancePct,
		Detail: fmt.Sprintf("%d kcal vs target %d kcal (%.1f%% diff)",
			facts.Calories(), tgt.Calories, diffPct),
	}

	// 2. Macro ratio checks: each derived percentage within 5 points of
	// target.
	actual := facts.MacroPercents()
	proteinCheck := macroCheck("protein", actual.Protein, tgt.Macros.Protein())
	carbsCheck := macroCheck("carbs", actual.Carbs, tgt.Macros.Carbs())
	fatCheck := macroCheck("fat", actual.Fat, tgt.Macros.Fat())

	// 3. Fiber check: age-dependent minimum; unreported fiber fails.
	minFiber := MinFiberGDefault
	if p.IsSenior() {
		minFiber = MinFiberGSenior
	}
	fiberCheck := nutrition.Check{Passed: false}
	if fiber := facts.FiberG(); fiber == nil {
		fiberCheck.Detail = fmt.Sprintf("not reported (min: %.0fg)", minFiber)
	} else {
		fiberCheck.Passed = *fiber >= minFiber
		fiberCheck.Detail = fmt.Sprintf("%.1fg (min: %.0fg)", *fiber, minFiber)
	}

	// 4. Allergen check: case-insensitive substring scan of every
	// ingredient name.
	hits := recipe.ScanAllergens(rec, p.Allergies)
	allergenCheck := nutrition.Check{Passed: len(hits) == 0, Detail: "clear"}
	if len(hits) > 0 {
		var flagged []string
		for _, hit := range hits {
			flagged = append(flagged, fmt.Sprintf("%s (contains: %s)", hit.Ingredient, hit.Allergen))
		}
		allergenCheck.Detail = "flagged: " + strings.Join(flagged, ", ")
	}

	// 5. Sodium check: only for profiles that require it. Required but
	// unreported sodium is indeterminate; it is flagged in the notes but
	// does not by itself fail validation.
	var sodiumCheck *nutrition.Check
	if p.RequiresSodiumCheck() {
		check := nutrition.Check{Passed: true}
		if sodium := facts.SodiumMg(); sodium != nil {
			check.Passed = *sodium <= MaxSodiumMg
			check.Detail = fmt.Sprintf("%.0fmg (limit: %.0fmg)", *sodium, MaxSodiumMg)
		} else {
			check.Detail = "sodium not reported - cannot verify"
		}
		sodiumCheck = &check
	}

	passed := calorieCheck.Passed && proteinCheck.Passed && carbsCheck.Passed &&
		fatCheck.Passed && fiberCheck.Passed && allergenCheck.Passed &&
		(sodiumCheck == nil || sodiumCheck.Passed)

	result := nutrition.ValidationResult{
		Passed:         passed,
		Calorie:        calorieCheck,
		Protein:        proteinCheck,
		Carbs:          carbsCheck,
		Fat:            fatCheck,
		Fiber:          fiberCheck,
		Allergen:       allergenCheck,
		Sodium:         sodiumCheck,
		CalorieDiffPct: math.Round(diffPct*100) / 100,
	}

	v.logger.Info("Recipe validated",
		zap.String("dish", rec.DishName()),
		zap.Bool("passed", passed),
		zap.Float64("calorie_diff_pct", result.CalorieDiffPct),
	)

	return result
}

func macroCheck(name string, actualPct float64, targetPct int) nutrition.Check {
	diff := math.Abs(actualPct - float64(targetPct))
	return nutrition.Check{
		Passed: diff <= MacroTolerancePct,
		Detail: fmt.Sprintf("actual %.1f%% vs target %d%% (diff %.1f points)",
			actualPct, targetPct, diff),
	}
}

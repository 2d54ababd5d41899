// Package target computes the per-session calorie target and macro split
// from a user profile: Mifflin-St Jeor BMR, activity-scaled TDEE, goal
// adjustment with per-goal safety floors, then medical-condition and
// age-bracket layers applied in a fixed order.
package target

import (
	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/domain/nutrition"
	"github.com/mealforge/v1/internal/domain/profile"
)

// Target is the computed dietary requirement for one session.
type Target struct {
	Goal     profile.Goal
	Calories int
	Macros   nutrition.MacroSplit
}

// Activity multipliers for TDEE. Unknown activity falls back to moderate.
var activityFactors = map[profile.ActivityLevel]float64{
	profile.ActivitySedentary:  1.2,
	profile.ActivityLight:      1.375,
	profile.ActivityModerate:   1.55,
	profile.ActivityActive:     1.725,
	profile.ActivityVeryActive: 1.9,
}

const defaultActivityFactor = 1.55

// Per-goal calorie surplus/deficit applied to TDEE.
const (
	muscleGainSurplus = 300
	fatLossDeficit    = 500
)

// Per-goal floors so an aggressive deficit can never produce an unsafe
// target.
var calorieFloors = map[profile.Goal]int{
	profile.GoalMuscleGain:  1800,
	profile.GoalFatLoss:     1200,
	profile.GoalMaintenance: 1500,
}

// Fixed fallbacks used when the profile lacks the inputs for a BMR
// calculation. Missing data is resolved locally, never propagated as an
// error.
var defaultCalories = map[profile.Goal]int{
	profile.GoalMuscleGain:  2800,
	profile.GoalFatLoss:     1800,
	profile.GoalMaintenance: 2200,
}

// Base macro split per goal, before age and medical shifts.
var baseMacros = map[profile.Goal]nutrition.MacroSplit{
	profile.GoalMuscleGain:  nutrition.MustMacroSplit(40, 35, 25),
	profile.GoalFatLoss:     nutrition.MustMacroSplit(30, 30, 40),
	profile.GoalMaintenance: nutrition.MustMacroSplit(30, 40, 30),
}

// Medical calorie adjustments layered on top of the goal adjustment.
const (
	diabetesMuscleGainCap    = 2800
	heartOrHyperFatLossFloor = 1600
	kidneyFatLossFloor       = 1500
)

// Safe bounds for individual macro percentages after shifts.
const (
	minMacroPct = 10
	maxMacroPct = 60
)

// Calculator derives calorie targets and macro splits from profiles.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator creates a target calculator.
func NewCalculator(logger *zap.Logger) *Calculator {
	return &Calculator{logger: logger.Named("target-calculator")}
}

// Compute derives the session target. It never fails: incomplete profiles
// fall back to fixed per-goal defaults.
func (c *Calculator) Compute(p *profile.UserProfile) Target {
	goal := p.Goal()
	calories, computed := c.calorieTarget(p, goal)
	calories = applyMedicalCalorieRules(calories, goal, p)
	macros := macroSplit(goal, p)

	c.logger.Info("Dietary target computed",
		zap.String("goal", string(goal)),
		zap.Int("calorie_target", calories),
		zap.Bool("bmr_based", computed),
		zap.Int("protein_pct", macros.Protein()),
		zap.Int("carbs_pct", macros.Carbs()),
		zap.Int("fat_pct", macros.Fat()),
	)

	return Target{Goal: goal, Calories: calories, Macros: macros}
}

// calorieTarget returns the goal-adjusted TDEE, or the per-goal default when
// any BMR input is missing. The bool reports whether the value was computed.
func (c *Calculator) calorieTarget(p *profile.UserProfile, goal profile.Goal) (int, bool) {
	if !p.HasBMRInputs() {
		c.logger.Info("Profile incomplete, using default calorie target",
			zap.String("goal", string(goal)))
		return defaultCalories[goal], false
	}

	bmr := mifflinStJeor(*p.Age, p.Sex, *p.WeightKg, *p.HeightCm)

	factor, ok := activityFactors[p.Activity]
	if !ok {
		factor = defaultActivityFactor
	}
	tdee := bmr * factor

	var calories int
	switch goal {
	case profile.GoalMuscleGain:
		calories = int(tdee) + muscleGainSurplus
	case profile.GoalFatLoss:
		calories = int(tdee) - fatLossDeficit
	default:
		calories = int(tdee)
	}

	if floor := calorieFloors[goal]; calories < floor {
		calories = floor
	}
	return calories, true
}

// mifflinStJeor computes basal metabolic rate; weight in kg, height in cm.
func mifflinStJeor(age int, sex profile.Sex, weightKg, heightCm float64) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == profile.SexMale {
		return bmr + 5
	}
	return bmr - 161
}

// applyMedicalCalorieRules layers condition-specific caps and floors on top
// of the goal-adjusted target. The rules apply in this literal order; there
// is no precedence resolution between conditions.
func applyMedicalCalorieRules(calories int, goal profile.Goal, p *profile.UserProfile) int {
	if p.HasCondition(profile.ConditionDiabetes) && goal == profile.GoalMuscleGain && calories > diabetesMuscleGainCap {
		calories = diabetesMuscleGainCap
	}
	if (p.HasCondition(profile.ConditionHeartDisease) || p.HasCondition(profile.ConditionHypertension)) &&
		goal == profile.GoalFatLoss && calories < heartOrHyperFatLossFloor {
		calories = heartOrHyperFatLossFloor
	}
	if p.HasCondition(profile.ConditionKidneyDisease) && goal == profile.GoalFatLoss && calories < kidneyFatLossFloor {
		calories = kidneyFatLossFloor
	}
	return calories
}

// macroSplit selects the per-goal base split, shifts it for age bracket and
// medical conditions in a fixed order, clamps protein and fat to safe bounds
// and absorbs the remainder into carbohydrates so the three always sum to
// exactly 100.
func macroSplit(goal profile.Goal, p *profile.UserProfile) nutrition.MacroSplit {
	base := baseMacros[goal]
	protein := base.Protein()
	carbs := base.Carbs()
	fat := base.Fat()

	// Age shift: seniors get more protein at the expense of carbs.
	if p.IsSenior() {
		protein += 5
		carbs -= 5
	}

	// Medical shifts, literal order.
	if p.HasCondition(profile.ConditionDiabetes) {
		carbs -= 10
		fat += 5
		protein += 5
	}
	if p.HasCondition(profile.ConditionHypertension) || p.HasCondition(profile.ConditionHeartDisease) {
		fat -= 5
		carbs += 5
	}
	if p.HasCondition(profile.ConditionKidneyDisease) {
		protein -= 10
		carbs += 5
		fat += 5
	}

	protein = clampPct(protein)
	fat = clampPct(fat)
	// Carbs absorb whatever remainder keeps the sum at exactly 100.
	carbs = 100 - protein - fat

	split, err := nutrition.NewMacroSplit(protein, carbs, fat)
	if err != nil {
		// Only reachable if the shift tables push carbs outside [0,100],
		// which the clamp bounds prevent. Fall back to the untouched base.
		return base
	}
	return split
}

func clampPct(pct int) int {
	if pct < minMacroPct {
		return minMacroPct
	}
	if pct > maxMacroPct {
		return maxMacroPct
	}
	return pct
}

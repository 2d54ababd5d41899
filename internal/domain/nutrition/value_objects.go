// Package nutrition contains the core value objects for nutritional targets
// and analysis. All types here are immutable once constructed; invalid values
// are rejected at construction time rather than clamped.
package nutrition

import "math"

// MacroSplit is a target distribution of daily calories across protein,
// carbohydrates and fat, expressed as whole percentages.
type MacroSplit struct {
	protein int
	carbs   int
	fat     int
}

// NewMacroSplit creates a MacroSplit, enforcing that each percentage is in
// [0,100] and that the three sum to exactly 100.
func NewMacroSplit(protein, carbs, fat int) (MacroSplit, error) {
	for _, pct := range []int{protein, carbs, fat} {
		if pct < 0 || pct > 100 {
			return MacroSplit{}, ErrMacroOutOfRange
		}
	}
	if protein+carbs+fat != 100 {
		return MacroSplit{}, ErrMacroSumInvalid
	}
	return MacroSplit{protein: protein, carbs: carbs, fat: fat}, nil
}

// MustMacroSplit is a helper for static tables whose values are known valid.
// It panics on invalid input and must not be used with runtime data.
func MustMacroSplit(protein, carbs, fat int) MacroSplit {
	split, err := NewMacroSplit(protein, carbs, fat)
	if err != nil {
		panic(err)
	}
	return split
}

// Protein returns the protein percentage.
func (m MacroSplit) Protein() int { return m.protein }

// Carbs returns the carbohydrate percentage.
func (m MacroSplit) Carbs() int { return m.carbs }

// Fat returns the fat percentage.
func (m MacroSplit) Fat() int { return m.fat }

// Calories per gram of each macronutrient.
const (
	KcalPerGramProtein = 4
	KcalPerGramCarbs   = 4
	KcalPerGramFat     = 9
)

// Realistic single-meal calorie range. Values outside are rejected at
// construction, not clamped.
const (
	MinMealCalories = 50
	MaxMealCalories = 5000
)

// Facts holds the nutritional breakdown of a single meal. Calories and the
// three macro gram counts are mandatory; the remaining fields are optional
// and nil when unreported.
type Facts struct {
	calories  int
	proteinG  float64
	carbsG    float64
	fatG      float64
	fiberG    *float64
	sodiumMg  *float64
	calciumMg *float64
	ironMg    *float64
	sugarG    *float64
}

// NewFacts creates a Facts value, rejecting calorie counts outside the
// realistic single-meal range and negative gram values.
func NewFacts(calories int, proteinG, carbsG, fatG float64) (Facts, error) {
	if calories < MinMealCalories {
		return Facts{}, ErrCaloriesTooLow
	}
	if calories > MaxMealCalories {
		return Facts{}, ErrCaloriesTooHigh
	}
	if proteinG < 0 || carbsG < 0 || fatG < 0 {
		return Facts{}, ErrNegativeGrams
	}
	return Facts{calories: calories, proteinG: proteinG, carbsG: carbsG, fatG: fatG}, nil
}

// WithFiber returns a copy with the fiber amount set.
func (f Facts) WithFiber(grams float64) (Facts, error) {
	if grams < 0 {
		return Facts{}, ErrNegativeGrams
	}
	f.fiberG = &grams
	return f, nil
}

// WithSodium returns a copy with the sodium amount set.
func (f Facts) WithSodium(mg float64) (Facts, error) {
	if mg < 0 {
		return Facts{}, ErrNegativeGrams
	}
	f.sodiumMg = &mg
	return f, nil
}

// WithCalcium returns a copy with the calcium amount set.
func (f Facts) WithCalcium(mg float64) (Facts, error) {
	if mg < 0 {
		return Facts{}, ErrNegativeGrams
	}
	f.calciumMg = &mg
	return f, nil
}

// WithIron returns a copy with the iron amount set.
func (f Facts) WithIron(mg float64) (Facts, error) {
	if mg < 0 {
		return Facts{}, ErrNegativeGrams
	}
	f.ironMg = &mg
	return f, nil
}

// WithSugar returns a copy with the sugar amount set.
func (f Facts) WithSugar(grams float64) (Facts, error) {
	if grams < 0 {
		return Facts{}, ErrNegativeGrams
	}
	f.sugarG = &grams
	return f, nil
}

// Calories returns the calorie count.
func (f Facts) Calories() int { return f.calories }

// ProteinG returns grams of protein.
func (f Facts) ProteinG() float64 { return f.proteinG }

// CarbsG returns grams of carbohydrates.
func (f Facts) CarbsG() float64 { return f.carbsG }

// FatG returns grams of fat.
func (f Facts) FatG() float64 { return f.fatG }

// FiberG returns grams of fiber, or nil when unreported.
func (f Facts) FiberG() *float64 { return f.fiberG }

// SodiumMg returns milligrams of sodium, or nil when unreported.
func (f Facts) SodiumMg() *float64 { return f.sodiumMg }

// CalciumMg returns milligrams of calcium, or nil when unreported.
func (f Facts) CalciumMg() *float64 { return f.calciumMg }

// IronMg returns milligrams of iron, or nil when unreported.
func (f Facts) IronMg() *float64 { return f.ironMg }

// SugarG returns grams of sugar, or nil when unreported.
func (f Facts) SugarG() *float64 { return f.sugarG }

// Equal compares two Facts by value, treating optional nutrients as equal
// when both are unreported or both carry the same amount.
func (f Facts) Equal(other Facts) bool {
	return f.calories == other.calories &&
		f.proteinG == other.proteinG &&
		f.carbsG == other.carbsG &&
		f.fatG == other.fatG &&
		equalOptional(f.fiberG, other.fiberG) &&
		equalOptional(f.sodiumMg, other.sodiumMg) &&
		equalOptional(f.calciumMg, other.calciumMg) &&
		equalOptional(f.ironMg, other.ironMg) &&
		equalOptional(f.sugarG, other.sugarG)
}

func equalOptional(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// MacroPercents is the share of total derived energy contributed by each
// macronutrient, rounded to one decimal place.
type MacroPercents struct {
	Protein float64
	Carbs   float64
	Fat     float64
}

// MacroPercents derives the actual macro energy percentages from gram counts
// (4 kcal/g protein and carbs, 9 kcal/g fat). When total derived energy is
// zero all percentages are zero, which avoids a division by zero on degenerate
// candidates.
func (f Facts) MacroPercents() MacroPercents {
	total := f.proteinG*KcalPerGramProtein + f.carbsG*KcalPerGramCarbs + f.fatG*KcalPerGramFat
	if total == 0 {
		return MacroPercents{}
	}
	return MacroPercents{
		Protein: round1(f.proteinG * KcalPerGramProtein / total * 100),
		Carbs:   round1(f.carbsG * KcalPerGramCarbs / total * 100),
		Fat:     round1(f.fatG * KcalPerGramFat / total * 100),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

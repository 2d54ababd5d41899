package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/application/target"
	"github.com/mealforge/v1/internal/domain/nutrition"
	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
)

type ValidatorTestSuite struct {
	suite.Suite
	validator *Validator
	target    target.Target
}

func (s *ValidatorTestSuite) SetupSuite() {
	s.validator = NewValidator(zap.NewNop())
	s.target = target.Target{
		Goal:     profile.GoalMaintenance,
		Calories: 2200,
		Macros:   nutrition.MustMacroSplit(30, 40, 30),
	}
}

// compliantRecipe reports 2350 kcal (6.82% off target, inside the band) with
// gram counts that derive to 30/40/30 and clears fiber and allergens.
func (s *ValidatorTestSuite) compliantRecipe(allergenIngredient string) *recipe.Recipe {
	facts, err := nutrition.NewFacts(2350, 165, 220, 73.3)
	require.NoError(s.T(), err)
	facts, err = facts.WithFiber(6)
	require.NoError(s.T(), err)

	ingredients := []recipe.Ingredient{
		{Name: "chicken breast", Quantity: "300g"},
		{Name: "brown rice", Quantity: "250g"},
	}
	if allergenIngredient != "" {
		ingredients = append(ingredients, recipe.Ingredient{Name: allergenIngredient, Quantity: "50g"})
	}

	rec, err := recipe.New("Test Bowl", ingredients, []string{"Cook everything."}, facts)
	require.NoError(s.T(), err)
	return rec
}

func (s *ValidatorTestSuite) TestCompliantRecipePasses() {
	result := s.validator.Validate(s.compliantRecipe(""), s.target, &profile.UserProfile{})

	s.True(result.Passed)
	s.True(result.Calorie.Passed)
	s.True(result.Protein.Passed)
	s.True(result.Carbs.Passed)
	s.True(result.Fat.Passed)
	s.True(result.Fiber.Passed)
	s.True(result.Allergen.Passed)
	s.Nil(result.Sodium)
	s.Equal(6.82, result.CalorieDiffPct)
}

func (s *ValidatorTestSuite) TestCalorieOutOfBand() {
	facts, err := nutrition.NewFacts(2500, 165, 220, 73.3)
	require.NoError(s.T(), err)
	facts, err = facts.WithFiber(6)
	require.NoError(s.T(), err)
	rec, err := recipe.New("Heavy Bowl",
		[]recipe.Ingredient{{Name: "pasta", Quantity: "400g"}},
		[]string{"Boil."}, facts)
	require.NoError(s.T(), err)

	result := s.validator.Validate(rec, s.target, &profile.UserProfile{})
	s.False(result.Passed)
	s.False(result.Calorie.Passed)
	s.Equal(13.64, result.CalorieDiffPct)
}

func (s *ValidatorTestSuite) TestMacroDrift() {
	// 24% protein energy vs a 30% target fails the 5-point band.
	facts, err := nutrition.NewFacts(2200, 132, 242, 73.3)
	require.NoError(s.T(), err)
	facts, err = facts.WithFiber(6)
	require.NoError(s.T(), err)
	rec, err := recipe.New("Low Protein Bowl",
		[]recipe.Ingredient{{Name: "rice", Quantity: "400g"}},
		[]string{"Steam."}, facts)
	require.NoError(s.T(), err)

	result := s.validator.Validate(rec, s.target, &profile.UserProfile{})
	s.False(result.Passed)
	s.False(result.Protein.Passed)
}

func (s *ValidatorTestSuite) TestFiberRequirements() {
	s.Run("senior minimum is higher", func() {
		senior := 70
		result := s.validator.Validate(s.compliantRecipe(""), s.target, &profile.UserProfile{Age: &senior})
		// 6g clears the adult band but not the senior one.
		s.False(result.Fiber.Passed)
		s.False(result.Passed)
	})

	s.Run("unreported fiber fails", func() {
		facts, err := nutrition.NewFacts(2350, 165, 220, 73.3)
		require.NoError(s.T(), err)
		rec, err := recipe.New("No Fiber Data",
			[]recipe.Ingredient{{Name: "steak", Quantity: "300g"}},
			[]string{"Sear."}, facts)
		require.NoError(s.T(), err)

		result := s.validator.Validate(rec, s.target, &profile.UserProfile{})
		s.False(result.Fiber.Passed)
		s.Contains(result.Fiber.Detail, "not reported")
	})
}

func (s *ValidatorTestSuite) TestAllergenScan() {
	result := s.validator.Validate(s.compliantRecipe("Whole Milk"), s.target,
		&profile.UserProfile{Allergies: []string{"milk"}})

	s.False(result.Passed)
	s.False(result.Allergen.Passed)
	s.Contains(result.Allergen.Detail, "Whole Milk")
}

func (s *ValidatorTestSuite) TestSodiumCheck() {
	hypertensive := &profile.UserProfile{Conditions: []profile.MedicalCondition{profile.ConditionHypertension}}

	s.Run("over the cap fails", func() {
		facts, err := nutrition.NewFacts(2350, 165, 220, 73.3)
		require.NoError(s.T(), err)
		facts, err = facts.WithFiber(6)
		require.NoError(s.T(), err)
		facts, err = facts.WithSodium(750)
		require.NoError(s.T(), err)
		rec, err := recipe.New("Salty Bowl",
			[]recipe.Ingredient{{Name: "soy-free tamari chicken", Quantity: "300g"}},
			[]string{"Cook."}, facts)
		require.NoError(s.T(), err)

		result := s.validator.Validate(rec, s.target, hypertensive)
		require.NotNil(s.T(), result.Sodium)
		s.False(result.Sodium.Passed)
		s.False(result.Passed)
	})

	s.Run("unreported sodium is indeterminate, not failing", func() {
		result := s.validator.Validate(s.compliantRecipe(""), s.target, hypertensive)
		require.NotNil(s.T(), result.Sodium)
		s.True(result.Sodium.Passed)
		s.Contains(result.Sodium.Detail, "cannot verify")
		s.True(result.Passed)
	})

	s.Run("not evaluated without a requiring profile", func() {
		result := s.validator.Validate(s.compliantRecipe(""), s.target, &profile.UserProfile{})
		s.Nil(result.Sodium)
	})
}

func (s *ValidatorTestSuite) TestNotesListEveryCheck() {
	result := s.validator.Validate(s.compliantRecipe(""), s.target, &profile.UserProfile{})
	notes := result.Notes()
	for _, name := range []string{"calories", "protein", "carbs", "fat", "fiber", "allergens"} {
		s.Contains(notes, name)
	}
}

func TestValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorTestSuite))
}

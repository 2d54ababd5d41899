package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyGoal(t *testing.T) {
	tests := []struct {
		name     string
		freeText string
		want     Goal
	}{
		{"explicit muscle", "I want to build muscle", GoalMuscleGain},
		{"bulk keyword", "bulking season", GoalMuscleGain},
		{"weight gain picks muscle over fat loss", "weight gain", GoalMuscleGain},
		{"lose weight", "lose some weight", GoalFatLoss},
		{"cutting", "cutting for summer", GoalFatLoss},
		{"get lean", "get lean and toned", GoalFatLoss},
		{"no keywords", "stay healthy and feel good", GoalMaintenance},
		{"empty", "", GoalMaintenance},
		{"case insensitive", "BUILD MUSCLE", GoalMuscleGain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyGoal(tt.freeText))
		})
	}
}

func TestParseSex(t *testing.T) {
	assert.Equal(t, SexMale, ParseSex("male"))
	assert.Equal(t, SexMale, ParseSex(" M "))
	assert.Equal(t, SexFemale, ParseSex("female"))
	assert.Equal(t, SexFemale, ParseSex("other"))
	assert.Equal(t, SexFemale, ParseSex(""))
}

func TestParseActivityLevel(t *testing.T) {
	assert.Equal(t, ActivityVeryActive, ParseActivityLevel("very active"))
	assert.Equal(t, ActivitySedentary, ParseActivityLevel("Sedentary"))
	assert.Equal(t, ActivityModerate, ParseActivityLevel("couch potato"))
	assert.Equal(t, ActivityModerate, ParseActivityLevel(""))
}

func TestUserProfileDerivations(t *testing.T) {
	age := 70
	weight := 70.0
	height := 170.0

	t.Run("BMR inputs", func(t *testing.T) {
		complete := &UserProfile{Age: &age, Sex: SexFemale, WeightKg: &weight, HeightCm: &height}
		assert.True(t, complete.HasBMRInputs())

		missing := &UserProfile{Sex: SexFemale, WeightKg: &weight, HeightCm: &height}
		assert.False(t, missing.HasBMRInputs())
	})

	t.Run("senior bracket", func(t *testing.T) {
		senior := &UserProfile{Age: &age}
		assert.True(t, senior.IsSenior())

		young := 40
		assert.False(t, (&UserProfile{Age: &young}).IsSenior())
		assert.False(t, (&UserProfile{}).IsSenior())
	})

	t.Run("sodium check gating", func(t *testing.T) {
		assert.True(t, (&UserProfile{Age: &age}).RequiresSodiumCheck())
		assert.True(t, (&UserProfile{Conditions: []MedicalCondition{ConditionHypertension}}).RequiresSodiumCheck())
		assert.True(t, (&UserProfile{Conditions: []MedicalCondition{ConditionHeartDisease}}).RequiresSodiumCheck())
		assert.False(t, (&UserProfile{Conditions: []MedicalCondition{ConditionDiabetes}}).RequiresSodiumCheck())
		assert.False(t, (&UserProfile{}).RequiresSodiumCheck())
	})
}

func TestLearnedPreferences(t *testing.T) {
	t.Run("liking removes prior dislike", func(t *testing.T) {
		prefs := &LearnedPreferences{}
		prefs.AddDisliked("tofu")
		prefs.AddLiked("tofu")

		assert.Equal(t, []string{"tofu"}, prefs.LikedIngredients)
		assert.Empty(t, prefs.DislikedIngredients)
	})

	t.Run("duplicates are not recorded twice", func(t *testing.T) {
		prefs := &LearnedPreferences{}
		prefs.AddLiked("salmon")
		prefs.AddLiked("salmon")

		assert.Equal(t, []string{"salmon"}, prefs.LikedIngredients)
	})

	t.Run("cuisine lists stay non-contradictory", func(t *testing.T) {
		prefs := &LearnedPreferences{}
		prefs.AddPreferredCuisine("thai")
		prefs.AddAvoidedCuisine("thai")

		assert.Empty(t, prefs.PreferredCuisines)
		assert.Equal(t, []string{"thai"}, prefs.AvoidedCuisines)
	})
}

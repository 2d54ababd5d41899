// Package profile contains the user profile domain model: demographics,
// activity level, fitness goal classification, allergies and medical
// conditions. A profile is collected once per session and mutated only by an
// explicit profile update.
package profile

import (
	"strings"

	"github.com/google/uuid"
)

// Sex is the biological sex used by the BMR formula.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ParseSex normalizes free input; anything other than a recognized male
// spelling maps to female, matching the two-branch BMR formula.
func ParseSex(raw string) Sex {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m":
		return SexMale
	default:
		return SexFemale
	}
}

// ActivityLevel describes habitual physical activity.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// ParseActivityLevel maps free input to a known level, defaulting to
// moderate for unknown values.
func ParseActivityLevel(raw string) ActivityLevel {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "_")
	switch ActivityLevel(normalized) {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return ActivityLevel(normalized)
	default:
		return ActivityModerate
	}
}

// Goal is the canonical fitness goal classification.
type Goal string

const (
	GoalMuscleGain  Goal = "muscle_gain"
	GoalFatLoss     Goal = "fat_loss"
	GoalMaintenance Goal = "maintenance"
)

var (
	muscleGainKeywords = []string{"muscle", "gain", "bulk", "mass"}
	fatLossKeywords    = []string{"loss", "cut", "fat", "slim", "lean", "weight"}
)

// ClassifyGoal maps a free-text fitness goal onto one of the three canonical
// goals by keyword matching. Muscle-gain keywords are checked first, so
// "weight gain" classifies as muscle_gain. Unmatched text falls back to
// maintenance.
func ClassifyGoal(freeText string) Goal {
	lowered := strings.ToLower(freeText)
	for _, kw := range muscleGainKeywords {
		if strings.Contains(lowered, kw) {
			return GoalMuscleGain
		}
	}
	for _, kw := range fatLossKeywords {
		if strings.Contains(lowered, kw) {
			return GoalFatLoss
		}
	}
	return GoalMaintenance
}

// MedicalCondition is a diagnosed condition that adjusts calorie targets,
// macro splits and validation requirements.
type MedicalCondition string

const (
	ConditionDiabetes           MedicalCondition = "diabetes"
	ConditionHypertension       MedicalCondition = "hypertension"
	ConditionCeliac             MedicalCondition = "celiac"
	ConditionLactoseIntolerance MedicalCondition = "lactose_intolerance"
	ConditionKidneyDisease      MedicalCondition = "kidney_disease"
	ConditionHeartDisease       MedicalCondition = "heart_disease"
	ConditionIBS                MedicalCondition = "ibs"
	ConditionAnemia             MedicalCondition = "anemia"
	ConditionOsteoporosis       MedicalCondition = "osteoporosis"
)

// SeniorAge is the lower bound of the senior age bracket, which raises the
// fiber minimum and requires the sodium check.
const SeniorAge = 65

// Preferences holds free-form taste preferences.
type Preferences struct {
	Cuisine    string
	SpiceLevel string
}

// UserProfile is the session-scoped user profile. Optional demographic fields
// are nil when not collected; target calculation falls back to per-goal
// defaults in that case instead of failing.
type UserProfile struct {
	ID          uuid.UUID
	Name        string
	Age         *int
	Sex         Sex
	WeightKg    *float64
	HeightCm    *float64
	Activity    ActivityLevel
	FitnessGoal string
	Allergies   []string
	Conditions  []MedicalCondition
	Preferences Preferences
}

// HasBMRInputs reports whether all fields required by the BMR formula are
// present.
func (p *UserProfile) HasBMRInputs() bool {
	return p.Age != nil && p.Sex != "" && p.WeightKg != nil && p.HeightCm != nil
}

// HasCondition reports whether the profile declares the given condition.
func (p *UserProfile) HasCondition(c MedicalCondition) bool {
	for _, existing := range p.Conditions {
		if existing == c {
			return true
		}
	}
	return false
}

// IsSenior reports whether the profile falls into the senior age bracket.
// Unknown age is treated as non-senior.
func (p *UserProfile) IsSenior() bool {
	return p.Age != nil && *p.Age >= SeniorAge
}

// RequiresSodiumCheck reports whether validation must evaluate sodium:
// seniors and profiles with hypertension or heart disease.
func (p *UserProfile) RequiresSodiumCheck() bool {
	return p.IsSenior() ||
		p.HasCondition(ConditionHypertension) ||
		p.HasCondition(ConditionHeartDisease)
}

// Goal classifies the profile's free-text fitness goal.
func (p *UserProfile) Goal() Goal {
	return ClassifyGoal(p.FitnessGoal)
}

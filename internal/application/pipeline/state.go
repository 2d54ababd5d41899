// Package pipeline orchestrates one meal-planning session: target
// calculation, generation, the bounded validate/adjust loop, the substitution
// safety net and best-effort persistence.
package pipeline

import (
	"github.com/google/uuid"

	"github.com/mealforge/v1/internal/domain/nutrition"
	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
)

// Status is the session's position in the validate/adjust loop.
type Status string

const (
	StatusGenerated  Status = "generated"
	StatusValidating Status = "validating"
	StatusPassed     Status = "passed"
	StatusFailed     Status = "failed"
	StatusAdjusting  Status = "adjusting"
	StatusFinalizing Status = "finalizing"
)

// SessionState is the single state record a session evolves. Steps never
// mutate it directly; they return a StepDelta that Apply folds in at a
// committed boundary, so a step that dies mid-flight leaves the last
// committed state intact.
type SessionState struct {
	UserID        uuid.UUID
	Goal          profile.Goal
	CalorieTarget int
	Macros        nutrition.MacroSplit
	Candidate     *recipe.Recipe
	Validation    *nutrition.ValidationResult
	RetryCount    int
	Status        Status
	BestEffort    bool
	FromCache     bool
	AdjustNote    string
}

// StepDelta is the partial update one pipeline step contributes. Nil and
// zero-valued fields leave the corresponding state field untouched;
// IncrementRetry adds exactly one to the retry counter.
type StepDelta struct {
	Candidate      *recipe.Recipe
	Validation     *nutrition.ValidationResult
	Status         Status
	IncrementRetry bool
	BestEffort     bool
	FromCache      bool
	AdjustNote     string
}

// Apply folds a delta into the state and returns the new state. The receiver
// is a value, so the prior state is never aliased by the result.
func (s SessionState) Apply(d StepDelta) SessionState {
	if d.Candidate != nil {
		s.Candidate = d.Candidate
	}
	if d.Validation != nil {
		s.Validation = d.Validation
	}
	if d.Status != "" {
		s.Status = d.Status
	}
	if d.IncrementRetry {
		s.RetryCount++
	}
	if d.BestEffort {
		s.BestEffort = true
	}
	if d.FromCache {
		s.FromCache = true
	}
	if d.AdjustNote != "" {
		s.AdjustNote = d.AdjustNote
	}
	return s
}

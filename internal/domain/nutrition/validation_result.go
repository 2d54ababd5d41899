package nutrition

import "strings"

// Check is the outcome of a single validation dimension together with a
// human-readable rationale.
type Check struct {
	Passed bool
	Detail string
}

// ValidationResult is the structured verdict produced by the nutrition
// validator. It is derived data: always recomputable from a recipe and a
// target, never treated as a source of truth.
//
// The six core checks are always evaluated. Sodium is only evaluated for
// profiles that require it (seniors, hypertension, heart disease) and is nil
// otherwise.
type ValidationResult struct {
	Passed         bool
	Calorie        Check
	Protein        Check
	Carbs          Check
	Fat            Check
	Fiber          Check
	Allergen       Check
	Sodium         *Check
	CalorieDiffPct float64
}

// Notes concatenates every evaluated check's rationale into a single
// multi-line report.
func (r ValidationResult) Notes() string {
	lines := []string{
		formatCheck("calories", r.Calorie),
		formatCheck("protein", r.Protein),
		formatCheck("carbs", r.Carbs),
		formatCheck("fat", r.Fat),
		formatCheck("fiber", r.Fiber),
		formatCheck("allergens", r.Allergen),
	}
	if r.Sodium != nil {
		lines = append(lines, formatCheck("sodium", *r.Sodium))
	}
	return strings.Join(lines, "\n")
}

func formatCheck(name string, c Check) string {
	status := "FAIL"
	if c.Passed {
		status = "ok"
	}
	return name + ": " + status + " - " + c.Detail
}

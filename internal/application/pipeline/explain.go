package pipeline

import (
	"fmt"
	"strings"

	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
)

var goalPhrases = map[profile.Goal]string{
	profile.GoalMuscleGain:  "building muscle",
	profile.GoalFatLoss:     "losing fat",
	profile.GoalMaintenance: "maintaining your current weight",
}

// buildExplanation renders the deterministic closing summary for a finished
// session. It reads only the final state and substitution outcome, so the
// same session always yields the same text.
func buildExplanation(s SessionState, final *recipe.Recipe, subs []recipe.Substitution) string {
	var b strings.Builder

	phrase, ok := goalPhrases[s.Goal]
	if !ok {
		phrase = goalPhrases[profile.GoalMaintenance]
	}
	fmt.Fprintf(&b, "%s was selected to support %s at a target of %d kcal ",
		final.DishName(), phrase, s.CalorieTarget)
	fmt.Fprintf(&b, "(%d%% protein / %d%% carbs / %d%% fat).",
		s.Macros.Protein(), s.Macros.Carbs(), s.Macros.Fat())

	if s.Validation != nil {
		if s.Validation.Passed {
			fmt.Fprintf(&b, " It passed all nutrition checks, landing within %.1f%% of your calorie target.",
				s.Validation.CalorieDiffPct)
		} else {
			b.WriteString(" It is the closest match found within the adjustment budget; review the nutrition notes before cooking.")
		}
	}

	if s.RetryCount > 0 {
		fmt.Fprintf(&b, " The recipe was refined %d time(s) to better fit your targets.", s.RetryCount)
	}

	for _, sub := range subs {
		if sub.Substitute == "(removed)" {
			fmt.Fprintf(&b, " %s was removed (%s).", sub.Original, sub.Reason)
		} else {
			fmt.Fprintf(&b, " %s was swapped for %s (%s).", sub.Original, sub.Substitute, sub.Reason)
		}
	}

	return b.String()
}

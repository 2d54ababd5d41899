// Package learning turns post-meal feedback into durable preference signals.
package learning

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
)

// Rating bands that produce a signal. Ratings of 3 are neutral and leave the
// preferences untouched.
const (
	likeThreshold    = 4
	dislikeThreshold = 2
)

// Learner merges rated sessions into learned preferences.
type Learner struct {
	logger *zap.Logger
}

// NewLearner creates a preference learner.
func NewLearner(logger *zap.Logger) *Learner {
	return &Learner{logger: logger.Named("preference-learner")}
}

// Merge folds one rating for a served recipe into prefs, in place. A rating
// of 4 or 5 records the recipe's ingredients as liked and its cuisine as
// preferred; 1 or 2 records them as disliked and avoided. The merge keeps
// liked/disliked and preferred/avoided lists non-contradictory.
func (l *Learner) Merge(prefs *profile.LearnedPreferences, served *recipe.Recipe, rating recipe.Rating) {
	switch {
	case rating.Value >= likeThreshold:
		for _, ing := range served.Ingredients() {
			prefs.AddLiked(ing.Name)
		}
		if cuisine := served.Cuisine(); cuisine != "" {
			prefs.AddPreferredCuisine(cuisine)
		}
	case rating.Value <= dislikeThreshold:
		for _, ing := range served.Ingredients() {
			prefs.AddDisliked(ing.Name)
		}
		if cuisine := served.Cuisine(); cuisine != "" {
			prefs.AddAvoidedCuisine(cuisine)
		}
	default:
		return
	}

	insight := fmt.Sprintf("rated %q %d/5", served.DishName(), rating.Value)
	if rating.Comment != "" {
		insight += ": " + rating.Comment
	}
	prefs.SessionInsights = append(prefs.SessionInsights, insight)

	l.logger.Info("Feedback merged into preferences",
		zap.String("dish", served.DishName()),
		zap.Int("rating", rating.Value),
	)
}

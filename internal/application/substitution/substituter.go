// Package substitution is the final allergen and preference pass. It runs on
// every recipe surfaced to the user, including recipes that arrived through
// the best-effort exit, so it never assumes a fresh validation happened.
package substitution

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/domain/recipe"
)

// safeSubstitutes maps a lowercased allergen token to a replacement
// ingredient known to be safe for that allergy. Allergens with no entry fall
// back to removing the ingredient outright.
var safeSubstitutes = map[string]string{
	"peanuts": "sunflower seeds",
	"milk":    "almond milk",
	"egg":     "chia seeds (as egg replacer)",
	"wheat":   "gluten-free flour",
	"shrimp":  "tofu",
	"soy":     "lentils",
	"almonds": "pumpkin seeds",
	"cheese":  "vegan cheese",
}

// Substituter rewrites flagged ingredients into safe alternatives.
type Substituter struct {
	logger *zap.Logger
}

// NewSubstituter creates the substitution pass.
func NewSubstituter(logger *zap.Logger) *Substituter {
	return &Substituter{logger: logger.Named("substituter")}
}

// Apply scans rec for the profile's allergens and swaps or removes every
// flagged ingredient. The pass is idempotent: an ingredient that already is
// the safe substitute for its allergen is left alone, so running Apply on its
// own output makes no further changes.
//
// When no ingredient is flagged the outcome carries ChangesMade=false and a
// nil Revised; the caller surfaces the prior recipe unchanged.
func (s *Substituter) Apply(rec *recipe.Recipe, allergies []string) recipe.SubstitutionOutcome {
	hits := recipe.ScanAllergens(rec, allergies)
	if len(hits) == 0 {
		return recipe.SubstitutionOutcome{}
	}

	// An ingredient can match several declared allergies. The first hit wins
	// unless a later hit has a known substitute and the first does not: a swap
	// is always preferred over removal.
	flagged := make(map[string]string, len(hits))
	for _, hit := range hits {
		token := strings.ToLower(strings.TrimSpace(hit.Allergen))
		prev, seen := flagged[hit.Ingredient]
		if !seen {
			flagged[hit.Ingredient] = token
			continue
		}
		_, prevKnown := safeSubstitutes[prev]
		_, known := safeSubstitutes[token]
		if !prevKnown && known {
			flagged[hit.Ingredient] = token
		}
	}

	var (
		kept []recipe.Ingredient
		subs []recipe.Substitution
	)
	for _, ing := range rec.Ingredients() {
		token, ok := flagged[ing.Name]
		if !ok {
			kept = append(kept, ing)
			continue
		}
		substitute, known := safeSubstitutes[token]
		if known && strings.EqualFold(ing.Name, substitute) {
			// Already the safe alternative; the token merely matched its
			// own substitute (e.g. "milk" inside "almond milk").
			kept = append(kept, ing)
			continue
		}
		if known {
			kept = append(kept, recipe.Ingredient{Name: substitute, Quantity: ing.Quantity})
			subs = append(subs, recipe.Substitution{
				Original:   ing.Name,
				Substitute: substitute,
				Reason:     fmt.Sprintf("allergy: %s", token),
			})
			continue
		}
		subs = append(subs, recipe.Substitution{
			Original:   ing.Name,
			Substitute: "(removed)",
			Reason:     fmt.Sprintf("allergy: %s, no known substitute", token),
		})
	}

	if len(subs) == 0 {
		return recipe.SubstitutionOutcome{}
	}
	if len(kept) == 0 {
		// Every ingredient was flagged with no substitute available.
		// Removing them all would leave an empty recipe, so surface the
		// original and let the allergen notes warn the user.
		s.logger.Warn("Substitution would remove all ingredients, keeping original",
			zap.String("dish", rec.DishName()))
		return recipe.SubstitutionOutcome{}
	}

	revised, err := recipe.New(rec.DishName(), kept, rec.Steps(), rec.Nutrition())
	if err != nil {
		s.logger.Warn("Substituted recipe failed construction, keeping original",
			zap.String("dish", rec.DishName()), zap.Error(err))
		return recipe.SubstitutionOutcome{}
	}
	revised = revised.WithTags(rec.Cuisine(), rec.PrepTimeMinutes(), rec.MealType())

	s.logger.Info("Ingredient substitutions applied",
		zap.String("dish", rec.DishName()),
		zap.Int("substitutions", len(subs)),
	)

	return recipe.SubstitutionOutcome{
		ChangesMade:   true,
		Substitutions: subs,
		Revised:       revised,
	}
}

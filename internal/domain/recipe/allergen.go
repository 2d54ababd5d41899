package recipe

import "strings"

// AllergenHit records one ingredient flagged by the allergen scan.
type AllergenHit struct {
	Ingredient string
	Allergen   string
}

// ScanAllergens performs a case-insensitive substring match of each declared
// allergy token against every ingredient name. Both the validator and the
// substitution safety net run this same scan: recipes can reach substitution
// via the best-effort exit path, so the final pass must not rely on a fresh
// validation having happened.
func ScanAllergens(r *Recipe, allergies []string) []AllergenHit {
	if len(allergies) == 0 {
		return nil
	}
	var hits []AllergenHit
	for _, ing := range r.ingredients {
		nameLower := strings.ToLower(ing.Name)
		for _, allergen := range allergies {
			token := strings.ToLower(strings.TrimSpace(allergen))
			if token == "" {
				continue
			}
			if strings.Contains(nameLower, token) {
				hits = append(hits, AllergenHit{Ingredient: ing.Name, Allergen: allergen})
			}
		}
	}
	return hits
}

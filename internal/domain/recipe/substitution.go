package recipe

// Substitution records one ingredient swap made by the safety net.
type Substitution struct {
	Original   string
	Substitute string
	Reason     string
}

// SubstitutionOutcome is the result of the final allergen/preference pass.
// When no changes were made, Revised is nil and the prior recipe is carried
// forward unchanged.
type SubstitutionOutcome struct {
	ChangesMade   bool
	Substitutions []Substitution
	Revised       *Recipe
}

// Final resolves the recipe that is actually surfaced to the user: the
// revised recipe when substitutions were made, otherwise the prior candidate.
func (o SubstitutionOutcome) Final(prior *Recipe) *Recipe {
	if o.ChangesMade && o.Revised != nil {
		return o.Revised
	}
	return prior
}

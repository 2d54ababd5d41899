package profile

// LearnedPreferences accumulates taste signals extracted from session
// feedback. It is loaded at the start of a session and fed into recipe
// generation constraints.
type LearnedPreferences struct {
	LikedIngredients    []string
	DislikedIngredients []string
	PreferredCuisines   []string
	AvoidedCuisines     []string
	SpicePreference     string
	GoalRefinement      string
	SessionInsights     []string
}

// AddLiked appends an ingredient unless already recorded, and removes it from
// the disliked list so the two never contradict.
func (lp *LearnedPreferences) AddLiked(ingredient string) {
	lp.DislikedIngredients = remove(lp.DislikedIngredients, ingredient)
	lp.LikedIngredients = appendUnique(lp.LikedIngredients, ingredient)
}

// AddDisliked appends an ingredient unless already recorded, and removes it
// from the liked list.
func (lp *LearnedPreferences) AddDisliked(ingredient string) {
	lp.LikedIngredients = remove(lp.LikedIngredients, ingredient)
	lp.DislikedIngredients = appendUnique(lp.DislikedIngredients, ingredient)
}

// AddPreferredCuisine appends a cuisine unless already recorded.
func (lp *LearnedPreferences) AddPreferredCuisine(cuisine string) {
	lp.AvoidedCuisines = remove(lp.AvoidedCuisines, cuisine)
	lp.PreferredCuisines = appendUnique(lp.PreferredCuisines, cuisine)
}

// AddAvoidedCuisine appends a cuisine unless already recorded.
func (lp *LearnedPreferences) AddAvoidedCuisine(cuisine string) {
	lp.PreferredCuisines = remove(lp.PreferredCuisines, cuisine)
	lp.AvoidedCuisines = appendUnique(lp.AvoidedCuisines, cuisine)
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}

func remove(list []string, item string) []string {
	out := list[:0]
	for _, existing := range list {
		if existing != item {
			out = append(out, existing)
		}
	}
	return out
}

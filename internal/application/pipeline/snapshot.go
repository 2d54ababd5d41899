package pipeline

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/mealforge/v1/internal/domain/nutrition"
	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
)

// snapshot is the wire form of a SessionState at a committed boundary.
// Domain values with unexported fields are flattened to primitives and
// reconstructed through their constructors on load.
type snapshot struct {
	UserID        string                      `json:"user_id"`
	Goal          string                      `json:"goal"`
	CalorieTarget int                         `json:"calorie_target"`
	ProteinPct    int                         `json:"protein_pct"`
	CarbsPct      int                         `json:"carbs_pct"`
	FatPct        int                         `json:"fat_pct"`
	Status        string                      `json:"status"`
	RetryCount    int                         `json:"retry_count"`
	BestEffort    bool                        `json:"best_effort"`
	FromCache     bool                        `json:"from_cache"`
	AdjustNote    string                      `json:"adjust_note,omitempty"`
	Candidate     *recipeSnapshot             `json:"candidate,omitempty"`
	Validation    *nutrition.ValidationResult `json:"validation,omitempty"`
}

type recipeSnapshot struct {
	DishName     string              `json:"dish_name"`
	Ingredients  []recipe.Ingredient `json:"ingredients"`
	Steps        []string            `json:"steps"`
	Calories     int                 `json:"calories"`
	ProteinG     float64             `json:"protein_g"`
	CarbsG       float64             `json:"carbs_g"`
	FatG         float64             `json:"fat_g"`
	FiberG       *float64            `json:"fiber_g,omitempty"`
	SodiumMg     *float64            `json:"sodium_mg,omitempty"`
	CalciumMg    *float64            `json:"calcium_mg,omitempty"`
	IronMg       *float64            `json:"iron_mg,omitempty"`
	SugarG       *float64            `json:"sugar_g,omitempty"`
	Cuisine      string              `json:"cuisine,omitempty"`
	PrepTimeMins int                 `json:"prep_time_mins,omitempty"`
	MealType     string              `json:"meal_type,omitempty"`
}

// MarshalSnapshot serializes the state for the session store.
func MarshalSnapshot(s SessionState) ([]byte, error) {
	snap := snapshot{
		UserID:        s.UserID.String(),
		Goal:          string(s.Goal),
		CalorieTarget: s.CalorieTarget,
		ProteinPct:    s.Macros.Protein(),
		CarbsPct:      s.Macros.Carbs(),
		FatPct:        s.Macros.Fat(),
		Status:        string(s.Status),
		RetryCount:    s.RetryCount,
		BestEffort:    s.BestEffort,
		FromCache:     s.FromCache,
		AdjustNote:    s.AdjustNote,
		Validation:    s.Validation,
	}
	if s.Candidate != nil {
		snap.Candidate = snapshotRecipe(s.Candidate)
	}
	return json.Marshal(snap)
}

// UnmarshalSnapshot restores a state from the session store. The restored
// candidate carries a fresh identity and generation time; only its content
// survives the round trip.
func UnmarshalSnapshot(data []byte) (SessionState, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return SessionState{}, err
	}
	userID, err := uuid.Parse(snap.UserID)
	if err != nil {
		return SessionState{}, err
	}
	macros, err := nutrition.NewMacroSplit(snap.ProteinPct, snap.CarbsPct, snap.FatPct)
	if err != nil {
		return SessionState{}, err
	}
	state := SessionState{
		UserID:        userID,
		Goal:          profile.Goal(snap.Goal),
		CalorieTarget: snap.CalorieTarget,
		Macros:        macros,
		Status:        Status(snap.Status),
		RetryCount:    snap.RetryCount,
		BestEffort:    snap.BestEffort,
		FromCache:     snap.FromCache,
		AdjustNote:    snap.AdjustNote,
		Validation:    snap.Validation,
	}
	if snap.Candidate != nil {
		rec, err := restoreRecipe(snap.Candidate)
		if err != nil {
			return SessionState{}, err
		}
		state.Candidate = rec
	}
	return state, nil
}

func snapshotRecipe(rec *recipe.Recipe) *recipeSnapshot {
	facts := rec.Nutrition()
	return &recipeSnapshot{
		DishName:     rec.DishName(),
		Ingredients:  rec.Ingredients(),
		Steps:        rec.Steps(),
		Calories:     facts.Calories(),
		ProteinG:     facts.ProteinG(),
		CarbsG:       facts.CarbsG(),
		FatG:         facts.FatG(),
		FiberG:       facts.FiberG(),
		SodiumMg:     facts.SodiumMg(),
		CalciumMg:    facts.CalciumMg(),
		IronMg:       facts.IronMg(),
		SugarG:       facts.SugarG(),
		Cuisine:      rec.Cuisine(),
		PrepTimeMins: rec.PrepTimeMinutes(),
		MealType:     string(rec.MealType()),
	}
}

func restoreRecipe(snap *recipeSnapshot) (*recipe.Recipe, error) {
	facts, err := nutrition.NewFacts(snap.Calories, snap.ProteinG, snap.CarbsG, snap.FatG)
	if err != nil {
		return nil, err
	}
	if snap.FiberG != nil {
		if facts, err = facts.WithFiber(*snap.FiberG); err != nil {
			return nil, err
		}
	}
	if snap.SodiumMg != nil {
		if facts, err = facts.WithSodium(*snap.SodiumMg); err != nil {
			return nil, err
		}
	}
	if snap.CalciumMg != nil {
		if facts, err = facts.WithCalcium(*snap.CalciumMg); err != nil {
			return nil, err
		}
	}
	if snap.IronMg != nil {
		if facts, err = facts.WithIron(*snap.IronMg); err != nil {
			return nil, err
		}
	}
	if snap.SugarG != nil {
		if facts, err = facts.WithSugar(*snap.SugarG); err != nil {
			return nil, err
		}
	}
	rec, err := recipe.New(snap.DishName, snap.Ingredients, snap.Steps, facts)
	if err != nil {
		return nil, err
	}
	return rec.WithTags(snap.Cuisine, snap.PrepTimeMins, recipe.MealType(snap.MealType)), nil
}

package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/domain/nutrition"
	"github.com/mealforge/v1/internal/domain/recipe"
	"github.com/mealforge/v1/internal/ports/outbound"
)

// cachedRecipe is the wire form of a recipe in Redis. Identity and generation
// time do not survive the round trip; a cache hit yields a fresh entity with
// the same content.
type cachedRecipe struct {
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

// RecipeCache implements outbound.RecipeCache on Redis.
type RecipeCache struct {
	client *Client
	logger *zap.Logger
}

// NewRecipeCache creates the recipe cache.
func NewRecipeCache(client *Client, logger *zap.Logger) outbound.RecipeCache {
	return &RecipeCache{client: client, logger: logger.Named("recipe-cache")}
}

// GetCachedRecipe looks up a previously generated recipe. A miss, an
// unreachable Redis and an undecodable entry all report the same not-found.
func (c *RecipeCache) GetCachedRecipe(ctx context.Context, key string) (*recipe.Recipe, bool) {
	if c.client.rdb == nil {
		return nil, false
	}
	data, err := c.client.rdb.Get(ctx, recipeKey(key)).Bytes()
	if err != nil {
		return nil, false
	}
	var doc cachedRecipe
	if err := json.Unmarshal(data, &doc); err != nil {
		c.logger.Warn("Cached recipe undecodable, treating as miss",
			zap.String("key", key), zap.Error(err))
		return nil, false
	}
	rec, err := doc.toDomain()
	if err != nil {
		c.logger.Warn("Cached recipe failed construction, treating as miss",
			zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return rec, true
}

// PutCachedRecipe stores a recipe under key with the given TTL. Failures are
// logged and absorbed.
func (c *RecipeCache) PutCachedRecipe(ctx context.Context, key string, rec *recipe.Recipe, ttl time.Duration) {
	if c.client.rdb == nil {
		return
	}
	data, err := json.Marshal(fromDomain(rec))
	if err != nil {
		c.logger.Warn("Recipe cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.rdb.Set(ctx, recipeKey(key), data, ttl).Err(); err != nil {
		c.logger.Warn("Recipe cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func recipeKey(key string) string {
	return keyPrefix + ":recipe:" + key
}

func fromDomain(rec *recipe.Recipe) cachedRecipe {
	facts := rec.Nutrition()
	return cachedRecipe{
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

func (d cachedRecipe) toDomain() (*recipe.Recipe, error) {
	facts, err := nutrition.NewFacts(d.Calories, d.ProteinG, d.CarbsG, d.FatG)
	if err != nil {
		return nil, err
	}
	if d.FiberG != nil {
		if facts, err = facts.WithFiber(*d.FiberG); err != nil {
			return nil, err
		}
	}
	if d.SodiumMg != nil {
		if facts, err = facts.WithSodium(*d.SodiumMg); err != nil {
			return nil, err
		}
	}
	if d.CalciumMg != nil {
		if facts, err = facts.WithCalcium(*d.CalciumMg); err != nil {
			return nil, err
		}
	}
	if d.IronMg != nil {
		if facts, err = facts.WithIron(*d.IronMg); err != nil {
			return nil, err
		}
	}
	if d.SugarG != nil {
		if facts, err = facts.WithSugar(*d.SugarG); err != nil {
			return nil, err
		}
	}
	rec, err := recipe.New(d.DishName, d.Ingredients, d.Steps, facts)
	if err != nil {
		return nil, err
	}
	return rec.WithTags(d.Cuisine, d.PrepTimeMins, recipe.MealType(d.MealType)), nil
}

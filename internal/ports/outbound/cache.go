package outbound

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
)

// RecipeCacheKey derives the deterministic cache key for a generation
// request: the first 16 hex characters of a SHA-256 over the inputs that
// drive generation. Allergies are sorted so declaration order cannot split
// the cache.
func RecipeCacheKey(userID uuid.UUID, goal profile.Goal, calorieTarget int, cuisine string, allergies []string) string {
	sorted := append([]string(nil), allergies...)
	for i, a := range sorted {
		sorted[i] = strings.ToLower(strings.TrimSpace(a))
	}
	sort.Strings(sorted)

	raw := fmt.Sprintf("%s|%s|%d|%s|%s",
		userID, goal, calorieTarget, strings.ToLower(cuisine), strings.Join(sorted, ","))
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}

// RecipeCache caches generated recipes keyed by the inputs that drive
// generation. Absence of the cache collaborator degrades to "no caching",
// never to a hard failure: a miss and an unavailable cache are
// indistinguishable to the caller.
type RecipeCache interface {
	GetCachedRecipe(ctx context.Context, key string) (*recipe.Recipe, bool)
	PutCachedRecipe(ctx context.Context, key string, rec *recipe.Recipe, ttl time.Duration)
}

// SessionStore snapshots session state at committed step boundaries so an
// interrupted session can replay from the last boundary instead of a
// half-applied adjustment.
type SessionStore interface {
	SaveSession(ctx context.Context, userID uuid.UUID, snapshot []byte, ttl time.Duration)
	LoadSession(ctx context.Context, userID uuid.UUID) ([]byte, bool)
	DeleteSession(ctx context.Context, userID uuid.UUID)
}

// RateLimiter enforces the per-user call-rate cap. CheckAndIncrement is
// atomic per key so concurrent sessions for the same user cannot race past
// the cap. When the backing store is unavailable it fails open: always
// allowed, count zero.
type RateLimiter interface {
	CheckAndIncrement(ctx context.Context, userID uuid.UUID) (allowed bool, count int64)
}

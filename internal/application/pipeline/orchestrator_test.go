package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/application/learning"
	"github.com/mealforge/v1/internal/application/substitution"
	"github.com/mealforge/v1/internal/application/target"
	"github.com/mealforge/v1/internal/application/validation"
	"github.com/mealforge/v1/internal/domain/nutrition"
	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
	"github.com/mealforge/v1/internal/ports/outbound"
	apperrors "github.com/mealforge/v1/pkg/errors"
)

// scriptedGenerator returns queued candidates for Generate and Adjust.
type scriptedGenerator struct {
	generated    []*recipe.Recipe
	generateErrs []error
	adjusted     []*recipe.Recipe
	generateN    int
	adjustN      int
}

func (g *scriptedGenerator) Generate(ctx context.Context, req outbound.GenerationRequest) (*recipe.Recipe, error) {
	i := g.generateN
	g.generateN++
	if i < len(g.generateErrs) && g.generateErrs[i] != nil {
		return nil, g.generateErrs[i]
	}
	if i < len(g.generated) {
		return g.generated[i], nil
	}
	return g.generated[len(g.generated)-1], nil
}

func (g *scriptedGenerator) Adjust(ctx context.Context, req outbound.AdjustmentRequest) (*recipe.Recipe, string, error) {
	i := g.adjustN
	g.adjustN++
	if i < len(g.adjusted) {
		return g.adjusted[i], "revised", nil
	}
	return req.Candidate, "no further revision", nil
}

type memRecipeRepo struct {
	saved      []*recipe.Recipe
	bestEffort []bool
}

func (r *memRecipeRepo) SaveRecipe(ctx context.Context, userID uuid.UUID, rec *recipe.Recipe, bestEffort bool) (uuid.UUID, error) {
	r.saved = append(r.saved, rec)
	r.bestEffort = append(r.bestEffort, bestEffort)
	return rec.ID(), nil
}

func (r *memRecipeRepo) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	return nil, apperrors.NewAppError(apperrors.CodeNotFound, "not found", "")
}

func (r *memRecipeRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*recipe.Recipe, error) {
	return r.saved, nil
}

type memFeedbackRepo struct {
	ratings []recipe.Rating
}

func (r *memFeedbackRepo) SaveFeedback(ctx context.Context, userID, recipeID uuid.UUID, rating recipe.Rating) error {
	r.ratings = append(r.ratings, rating)
	return nil
}

type memPrefRepo struct {
	prefs     map[uuid.UUID]*profile.LearnedPreferences
	snapshots []outbound.GoalSnapshot
}

func newMemPrefRepo() *memPrefRepo {
	return &memPrefRepo{prefs: make(map[uuid.UUID]*profile.LearnedPreferences)}
}

func (r *memPrefRepo) LoadLearnedPreferences(ctx context.Context, userID uuid.UUID) (*profile.LearnedPreferences, error) {
	if p, ok := r.prefs[userID]; ok {
		return p, nil
	}
	return &profile.LearnedPreferences{}, nil
}

func (r *memPrefRepo) SaveLearnedPreferences(ctx context.Context, userID uuid.UUID, prefs *profile.LearnedPreferences) error {
	r.prefs[userID] = prefs
	return nil
}

func (r *memPrefRepo) SaveGoalSnapshot(ctx context.Context, snapshot outbound.GoalSnapshot) error {
	r.snapshots = append(r.snapshots, snapshot)
	return nil
}

type memUserRepo struct{}

func (r *memUserRepo) GetOrCreate(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return uuid.New(), true, nil
}

func (r *memUserRepo) SaveProfile(ctx context.Context, p *profile.UserProfile) error { return nil }

type memRecipeCache struct {
	entries map[string]*recipe.Recipe
}

func newMemRecipeCache() *memRecipeCache {
	return &memRecipeCache{entries: make(map[string]*recipe.Recipe)}
}

func (c *memRecipeCache) GetCachedRecipe(ctx context.Context, key string) (*recipe.Recipe, bool) {
	rec, ok := c.entries[key]
	return rec, ok
}

func (c *memRecipeCache) PutCachedRecipe(ctx context.Context, key string, rec *recipe.Recipe, ttl time.Duration) {
	c.entries[key] = rec
}

type memSessionStore struct {
	snapshots map[uuid.UUID][]byte
	saves     int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{snapshots: make(map[uuid.UUID][]byte)}
}

func (s *memSessionStore) SaveSession(ctx context.Context, userID uuid.UUID, snapshot []byte, ttl time.Duration) {
	s.snapshots[userID] = snapshot
	s.saves++
}

func (s *memSessionStore) LoadSession(ctx context.Context, userID uuid.UUID) ([]byte, bool) {
	data, ok := s.snapshots[userID]
	return data, ok
}

func (s *memSessionStore) DeleteSession(ctx context.Context, userID uuid.UUID) {
	delete(s.snapshots, userID)
}

type stubLimiter struct {
	allowed bool
	count   int64
}

func (l *stubLimiter) CheckAndIncrement(ctx context.Context, userID uuid.UUID) (bool, int64) {
	l.count++
	return l.allowed, l.count
}

type OrchestratorTestSuite struct {
	suite.Suite
	generator *scriptedGenerator
	recipes   *memRecipeRepo
	feedback  *memFeedbackRepo
	prefs     *memPrefRepo
	cache     *memRecipeCache
	sessions  *memSessionStore
	limiter   *stubLimiter
	service   *Orchestrator
}

func (s *OrchestratorTestSuite) SetupTest() {
	logger := zap.NewNop()
	s.generator = &scriptedGenerator{}
	s.recipes = &memRecipeRepo{}
	s.feedback = &memFeedbackRepo{}
	s.prefs = newMemPrefRepo()
	s.cache = newMemRecipeCache()
	s.sessions = newMemSessionStore()
	s.limiter = &stubLimiter{allowed: true}
	s.service = NewOrchestrator(
		target.NewCalculator(logger),
		validation.NewValidator(logger),
		substitution.NewSubstituter(logger),
		learning.NewLearner(logger),
		s.generator,
		s.recipes,
		s.feedback,
		s.prefs,
		&memUserRepo{},
		s.cache,
		s.sessions,
		s.limiter,
		DefaultConfig(),
		logger,
	)
}

// maintenanceProfile has no BMR inputs, so the target is the fixed 2200 kcal
// maintenance default with a 30/40/30 split.
func (s *OrchestratorTestSuite) maintenanceProfile() *profile.UserProfile {
	return &profile.UserProfile{
		ID:          uuid.New(),
		Name:        "test-user",
		FitnessGoal: "stay healthy",
	}
}

// compliantRecipe validates cleanly against the maintenance default target.
func (s *OrchestratorTestSuite) compliantRecipe() *recipe.Recipe {
	facts, err := nutrition.NewFacts(2200, 165, 220, 73.3)
	require.NoError(s.T(), err)
	facts, err = facts.WithFiber(6)
	require.NoError(s.T(), err)
	rec, err := recipe.New("Compliant Bowl",
		[]recipe.Ingredient{{Name: "chicken breast", Quantity: "300g"}},
		[]string{"Cook."}, facts)
	require.NoError(s.T(), err)
	return rec
}

// driftedRecipe misses the calorie band.
func (s *OrchestratorTestSuite) driftedRecipe() *recipe.Recipe {
	facts, err := nutrition.NewFacts(2800, 165, 220, 73.3)
	require.NoError(s.T(), err)
	facts, err = facts.WithFiber(6)
	require.NoError(s.T(), err)
	rec, err := recipe.New("Oversized Bowl",
		[]recipe.Ingredient{{Name: "pasta", Quantity: "500g"}},
		[]string{"Boil."}, facts)
	require.NoError(s.T(), err)
	return rec
}

func (s *OrchestratorTestSuite) TestFirstCandidatePasses() {
	s.generator.generated = []*recipe.Recipe{s.compliantRecipe()}

	result, err := s.service.PlanMeal(context.Background(), s.maintenanceProfile())
	require.NoError(s.T(), err)

	s.Equal("Compliant Bowl", result.FinalRecipe.DishName())
	s.True(result.Validation.Passed)
	s.False(result.BestEffort)
	s.Zero(result.RetryCount)
	s.Equal(2200, result.CalorieTarget)
	s.Len(s.recipes.saved, 1)
	s.False(s.recipes.bestEffort[0])
	s.Len(s.cache.entries, 1)
	s.Positive(s.sessions.saves)
	// A finished session leaves no snapshot to resume from.
	_, ok := s.sessions.snapshots[result.UserID]
	s.False(ok)
}

func (s *OrchestratorTestSuite) TestAdjustmentRecoversFailingCandidate() {
	s.generator.generated = []*recipe.Recipe{s.driftedRecipe()}
	s.generator.adjusted = []*recipe.Recipe{s.compliantRecipe()}

	result, err := s.service.PlanMeal(context.Background(), s.maintenanceProfile())
	require.NoError(s.T(), err)

	s.Equal("Compliant Bowl", result.FinalRecipe.DishName())
	s.True(result.Validation.Passed)
	s.False(result.BestEffort)
	s.Equal(1, result.RetryCount)
	s.Equal(1, s.generator.adjustN)
}

func (s *OrchestratorTestSuite) TestBestEffortAfterExhaustedRetries() {
	// Every candidate misses the calorie band, including the adjustments.
	s.generator.generated = []*recipe.Recipe{s.driftedRecipe()}
	s.generator.adjusted = []*recipe.Recipe{s.driftedRecipe(), s.driftedRecipe()}

	result, err := s.service.PlanMeal(context.Background(), s.maintenanceProfile())
	require.NoError(s.T(), err)

	// The user still gets a recipe: the best effort, flagged as such.
	s.NotNil(result.FinalRecipe)
	s.True(result.BestEffort)
	s.False(result.Validation.Passed)
	s.Equal(MaxRetries, result.RetryCount)
	s.Equal(MaxRetries, s.generator.adjustN)
	// A failing recipe is persisted with the best-effort flag but not cached.
	s.Len(s.recipes.saved, 1)
	s.True(s.recipes.bestEffort[0])
	s.Empty(s.cache.entries)
}

func (s *OrchestratorTestSuite) TestTransientGenerationRetriedOnce() {
	s.generator.generateErrs = []error{apperrors.NewGenerationTransientError(nil)}
	s.generator.generated = []*recipe.Recipe{nil, s.compliantRecipe()}

	result, err := s.service.PlanMeal(context.Background(), s.maintenanceProfile())
	require.NoError(s.T(), err)
	s.Equal(2, s.generator.generateN)
	s.True(result.Validation.Passed)
}

func (s *OrchestratorTestSuite) TestPermanentGenerationFailureAborts() {
	s.generator.generateErrs = []error{apperrors.NewGenerationUnavailableError(nil)}

	_, err := s.service.PlanMeal(context.Background(), s.maintenanceProfile())
	require.Error(s.T(), err)
	s.Equal(apperrors.CodePipelineError, apperrors.GetCode(err))
	s.Equal(1, s.generator.generateN)
	s.Empty(s.recipes.saved)
}

func (s *OrchestratorTestSuite) TestSecondTransientFailureAborts() {
	s.generator.generateErrs = []error{
		apperrors.NewGenerationTransientError(nil),
		apperrors.NewGenerationTransientError(nil),
	}

	_, err := s.service.PlanMeal(context.Background(), s.maintenanceProfile())
	require.Error(s.T(), err)
	s.Equal(2, s.generator.generateN)
}

func (s *OrchestratorTestSuite) TestRateLimitBlocksSession() {
	s.limiter.allowed = false

	_, err := s.service.PlanMeal(context.Background(), s.maintenanceProfile())
	require.Error(s.T(), err)
	s.Equal(apperrors.CodeRateLimited, apperrors.GetCode(err))
	s.Zero(s.generator.generateN)
}

func (s *OrchestratorTestSuite) TestCachedCandidateSkipsGeneration() {
	p := s.maintenanceProfile()
	key := outbound.RecipeCacheKey(p.ID, profile.GoalMaintenance, 2200, "", nil)
	s.cache.entries[key] = s.compliantRecipe()

	result, err := s.service.PlanMeal(context.Background(), p)
	require.NoError(s.T(), err)

	s.Zero(s.generator.generateN)
	s.True(result.Validation.Passed)
}

func (s *OrchestratorTestSuite) TestSubstitutionRunsOnBestEffortExit() {
	// A failing candidate carrying an allergen: the loop exhausts its budget
	// and the final pass still swaps the flagged ingredient.
	facts, err := nutrition.NewFacts(2800, 165, 220, 73.3)
	require.NoError(s.T(), err)
	facts, err = facts.WithFiber(6)
	require.NoError(s.T(), err)
	tainted, err := recipe.New("Milky Pasta",
		[]recipe.Ingredient{
			{Name: "pasta", Quantity: "500g"},
			{Name: "whole milk", Quantity: "200ml"},
		},
		[]string{"Boil."}, facts)
	require.NoError(s.T(), err)

	s.generator.generated = []*recipe.Recipe{tainted}
	s.generator.adjusted = []*recipe.Recipe{tainted, tainted}

	p := s.maintenanceProfile()
	p.Allergies = []string{"milk"}

	result, err := s.service.PlanMeal(context.Background(), p)
	require.NoError(s.T(), err)

	s.True(result.BestEffort)
	require.Len(s.T(), result.Substitutions, 1)
	s.Equal("whole milk", result.Substitutions[0].Original)
	s.Equal("almond milk", result.Substitutions[0].Substitute)
	for _, ing := range result.FinalRecipe.Ingredients() {
		s.NotEqual("whole milk", ing.Name)
	}
}

func (s *OrchestratorTestSuite) TestInterruptedSessionResumesFromSnapshot() {
	p := s.maintenanceProfile()

	// A session cut off after its last validation, retry budget spent.
	interrupted := SessionState{
		UserID:        p.ID,
		Goal:          profile.GoalMaintenance,
		CalorieTarget: 2200,
		Macros:        nutrition.MustMacroSplit(30, 40, 30),
		Candidate:     s.driftedRecipe(),
		RetryCount:    MaxRetries,
		Status:        StatusFailed,
	}
	data, err := MarshalSnapshot(interrupted)
	require.NoError(s.T(), err)
	s.sessions.snapshots[p.ID] = data

	result, err := s.service.PlanMeal(context.Background(), p)
	require.NoError(s.T(), err)

	// The stored candidate replays through the loop: no fresh generation, no
	// further adjustments, and the spent budget finalizes best-effort.
	s.Zero(s.generator.generateN)
	s.Zero(s.generator.adjustN)
	s.True(result.BestEffort)
	s.Equal(MaxRetries, result.RetryCount)
	s.Equal("Oversized Bowl", result.FinalRecipe.DishName())
	_, ok := s.sessions.snapshots[p.ID]
	s.False(ok)
}

func (s *OrchestratorTestSuite) TestStaleSessionSnapshotDiscarded() {
	p := s.maintenanceProfile()

	// The stored session was computed for a different calorie target, so it
	// cannot be replayed against today's profile.
	stale := SessionState{
		UserID:        p.ID,
		Goal:          profile.GoalMaintenance,
		CalorieTarget: 1800,
		Macros:        nutrition.MustMacroSplit(30, 40, 30),
		Candidate:     s.driftedRecipe(),
		Status:        StatusValidating,
	}
	data, err := MarshalSnapshot(stale)
	require.NoError(s.T(), err)
	s.sessions.snapshots[p.ID] = data

	s.generator.generated = []*recipe.Recipe{s.compliantRecipe()}

	result, err := s.service.PlanMeal(context.Background(), p)
	require.NoError(s.T(), err)

	s.Equal(1, s.generator.generateN)
	s.True(result.Validation.Passed)
	s.Zero(result.RetryCount)
}

func (s *OrchestratorTestSuite) TestSubmitFeedbackUpdatesPreferences() {
	served := s.compliantRecipe().WithTags("italian", 25, recipe.MealTypeDinner)
	userID := uuid.New()

	err := s.service.SubmitFeedback(context.Background(), userID, served.ID(),
		recipe.Rating{Value: 5, Comment: "loved it"}, served)
	require.NoError(s.T(), err)

	s.Len(s.feedback.ratings, 1)
	prefs := s.prefs.prefs[userID]
	require.NotNil(s.T(), prefs)
	s.Contains(prefs.LikedIngredients, "chicken breast")
	s.Contains(prefs.PreferredCuisines, "italian")
}

func (s *OrchestratorTestSuite) TestSubmitFeedbackRejectsInvalidRating() {
	served := s.compliantRecipe()
	err := s.service.SubmitFeedback(context.Background(), uuid.New(), served.ID(),
		recipe.Rating{Value: 9}, served)
	require.Error(s.T(), err)
	s.Equal(apperrors.CodeBadRequest, apperrors.GetCode(err))
	s.Empty(s.feedback.ratings)
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

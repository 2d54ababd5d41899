package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/application/learning"
	"github.com/mealforge/v1/internal/application/substitution"
	"github.com/mealforge/v1/internal/application/target"
	"github.com/mealforge/v1/internal/application/validation"
	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
	"github.com/mealforge/v1/internal/ports/inbound"
	"github.com/mealforge/v1/internal/ports/outbound"
	apperrors "github.com/mealforge/v1/pkg/errors"
)

// Config carries the pipeline's cache lifetimes.
type Config struct {
	SessionTTL     time.Duration
	RecipeCacheTTL time.Duration
}

// DefaultConfig returns the standard lifetimes: one hour for session
// snapshots, one day for cached recipes.
func DefaultConfig() Config {
	return Config{
		SessionTTL:     time.Hour,
		RecipeCacheTTL: 24 * time.Hour,
	}
}

// Orchestrator runs one meal-planning session end to end. It implements
// inbound.MealPlannerService.
//
// Failure policy: only rate limiting and a permanently unavailable generator
// abort a session. Validation failures feed the bounded retry loop, cache and
// persistence failures are logged and absorbed, and an adjustment that cannot
// comply still yields a best-effort recipe.
type Orchestrator struct {
	calculator  *target.Calculator
	validator   *validation.Validator
	substituter *substitution.Substituter
	learner     *learning.Learner

	generator outbound.RecipeGenerator
	recipes   outbound.RecipeRepository
	feedback  outbound.FeedbackRepository
	prefs     outbound.PreferenceRepository
	users     outbound.UserRepository
	cache     outbound.RecipeCache
	sessions  outbound.SessionStore
	limiter   outbound.RateLimiter

	cfg    Config
	logger *zap.Logger
}

// NewOrchestrator wires the pipeline from its collaborators.
func NewOrchestrator(
	calculator *target.Calculator,
	validator *validation.Validator,
	substituter *substitution.Substituter,
	learner *learning.Learner,
	generator outbound.RecipeGenerator,
	recipes outbound.RecipeRepository,
	feedback outbound.FeedbackRepository,
	prefs outbound.PreferenceRepository,
	users outbound.UserRepository,
	cache outbound.RecipeCache,
	sessions outbound.SessionStore,
	limiter outbound.RateLimiter,
	cfg Config,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		calculator:  calculator,
		validator:   validator,
		substituter: substituter,
		learner:     learner,
		generator:   generator,
		recipes:     recipes,
		feedback:    feedback,
		prefs:       prefs,
		users:       users,
		cache:       cache,
		sessions:    sessions,
		limiter:     limiter,
		cfg:         cfg,
		logger:      logger.Named("pipeline"),
	}
}

var _ inbound.MealPlannerService = (*Orchestrator)(nil)

// PlanMeal runs the full pipeline for a profile.
func (o *Orchestrator) PlanMeal(ctx context.Context, p *profile.UserProfile) (*inbound.PlanResult, error) {
	allowed, count := o.limiter.CheckAndIncrement(ctx, p.ID)
	if !allowed {
		return nil, apperrors.NewRateLimitedError(p.ID.String(), count)
	}

	if err := o.users.SaveProfile(ctx, p); err != nil {
		o.logger.Warn("Profile save failed, continuing", zap.Error(err))
	}

	learned, err := o.prefs.LoadLearnedPreferences(ctx, p.ID)
	if err != nil {
		o.logger.Warn("Learned preferences unavailable, starting fresh", zap.Error(err))
		learned = &profile.LearnedPreferences{}
	}

	tgt := o.calculator.Compute(p)
	if err := o.prefs.SaveGoalSnapshot(ctx, outbound.GoalSnapshot{
		UserID:        p.ID,
		Goal:          tgt.Goal,
		CalorieTarget: tgt.Calories,
		Macros:        tgt.Macros,
		SetAt:         time.Now(),
	}); err != nil {
		o.logger.Warn("Goal snapshot save failed, continuing", zap.Error(err))
	}

	state := SessionState{
		UserID:        p.ID,
		Goal:          tgt.Goal,
		CalorieTarget: tgt.Calories,
		Macros:        tgt.Macros,
		Status:        StatusGenerated,
	}

	cacheKey := outbound.RecipeCacheKey(p.ID, tgt.Goal, tgt.Calories, p.Preferences.Cuisine, p.Allergies)
	if resumed, ok := o.resumeSession(ctx, p.ID, tgt); ok {
		state = resumed
	} else if cached, ok := o.cache.GetCachedRecipe(ctx, cacheKey); ok {
		o.logger.Info("Serving cached candidate", zap.String("cache_key", cacheKey))
		state = state.Apply(StepDelta{Candidate: cached, FromCache: true})
	} else {
		candidate, err := o.generateWithRetry(ctx, outbound.GenerationRequest{
			CalorieTarget: tgt.Calories,
			Macros:        tgt.Macros,
			Goal:          tgt.Goal,
			Allergies:     p.Allergies,
			Conditions:    p.Conditions,
			Cuisine:       p.Preferences.Cuisine,
			SpiceLevel:    p.Preferences.SpiceLevel,
			Learned:       learned,
		})
		if err != nil {
			return nil, apperrors.NewPipelineError("recipe generation failed", err)
		}
		state = state.Apply(StepDelta{Candidate: candidate})
	}
	o.saveSnapshot(ctx, state)

	state = o.runValidationLoop(ctx, state, tgt, p)

	outcome := o.substituter.Apply(state.Candidate, p.Allergies)
	final := outcome.Final(state.Candidate)

	explanation := buildExplanation(state, final, outcome.Substitutions)

	recipeID := final.ID()
	if savedID, err := o.recipes.SaveRecipe(ctx, p.ID, final, state.BestEffort); err != nil {
		o.logger.Warn("Recipe save failed, continuing", zap.Error(err))
	} else {
		recipeID = savedID
	}

	if state.Validation != nil && state.Validation.Passed && !state.FromCache {
		o.cache.PutCachedRecipe(ctx, cacheKey, final, o.cfg.RecipeCacheTTL)
	}
	o.sessions.DeleteSession(ctx, p.ID)

	o.logger.Info("Session finished",
		zap.String("dish", final.DishName()),
		zap.Bool("best_effort", state.BestEffort),
		zap.Int("retries", state.RetryCount),
	)

	return &inbound.PlanResult{
		UserID:        p.ID,
		RecipeID:      recipeID,
		FinalRecipe:   final,
		Goal:          tgt.Goal,
		CalorieTarget: tgt.Calories,
		Macros:        tgt.Macros,
		Validation:    *state.Validation,
		Substitutions: outcome.Substitutions,
		Explanation:   explanation,
		BestEffort:    state.BestEffort,
		RetryCount:    state.RetryCount,
	}, nil
}

// generateWithRetry calls the generator, retrying exactly once on a transient
// or malformed-candidate failure. Any other failure, or a second consecutive
// one, is permanent.
func (o *Orchestrator) generateWithRetry(ctx context.Context, req outbound.GenerationRequest) (*recipe.Recipe, error) {
	candidate, err := o.generator.Generate(ctx, req)
	if err == nil {
		return candidate, nil
	}
	if !apperrors.IsTransient(err) && !apperrors.Is(err, apperrors.CodeMalformedCandidate) {
		return nil, err
	}
	o.logger.Warn("Generation failed, retrying once", zap.Error(err))
	candidate, err = o.generator.Generate(ctx, req)
	if err != nil {
		return nil, apperrors.NewGenerationUnavailableError(err)
	}
	return candidate, nil
}

// resumeSession restores an interrupted session from its last committed
// snapshot. A snapshot is resumable only when it belongs to this user, still
// carries a candidate, has not finalized, and was computed for the same
// target; anything else is discarded and the session starts fresh. The
// restored state replays from the last committed boundary, keeping the retry
// counter it had when the session was cut off.
func (o *Orchestrator) resumeSession(ctx context.Context, userID uuid.UUID, tgt target.Target) (SessionState, bool) {
	data, ok := o.sessions.LoadSession(ctx, userID)
	if !ok {
		return SessionState{}, false
	}
	state, err := UnmarshalSnapshot(data)
	if err != nil {
		o.logger.Warn("Stored session snapshot unreadable, starting fresh", zap.Error(err))
		o.sessions.DeleteSession(ctx, userID)
		return SessionState{}, false
	}
	if state.UserID != userID || state.Candidate == nil || state.Status == StatusFinalizing {
		o.sessions.DeleteSession(ctx, userID)
		return SessionState{}, false
	}
	if state.Goal != tgt.Goal || state.CalorieTarget != tgt.Calories || state.Macros != tgt.Macros {
		o.logger.Info("Stored session targets are stale, starting fresh",
			zap.String("user_id", userID.String()))
		o.sessions.DeleteSession(ctx, userID)
		return SessionState{}, false
	}

	o.logger.Info("Resuming interrupted session",
		zap.String("user_id", userID.String()),
		zap.String("status", string(state.Status)),
		zap.Int("retries", state.RetryCount),
	)
	return state, true
}

// runValidationLoop drives the bounded validate/adjust loop until the router
// finalizes. State is committed to the session store at each boundary.
func (o *Orchestrator) runValidationLoop(ctx context.Context, state SessionState, tgt target.Target, p *profile.UserProfile) SessionState {
	for {
		state = state.Apply(StepDelta{Status: StatusValidating})
		result := o.validator.Validate(state.Candidate, tgt, p)

		verdict := StatusFailed
		if result.Passed {
			verdict = StatusPassed
		}
		state = state.Apply(StepDelta{Validation: &result, Status: verdict})
		o.saveSnapshot(ctx, state)

		if RouteAfterValidation(state) == StatusFinalizing {
			delta := StepDelta{Status: StatusFinalizing}
			if !result.Passed {
				delta.BestEffort = true
			}
			return state.Apply(delta)
		}

		adjusted, note, err := o.generator.Adjust(ctx, outbound.AdjustmentRequest{
			Candidate:     state.Candidate,
			FailureNotes:  result.Notes(),
			CalorieTarget: tgt.Calories,
			Macros:        tgt.Macros,
			Allergies:     p.Allergies,
			Conditions:    p.Conditions,
		})
		if err != nil || adjusted == nil {
			o.logger.Warn("Adjustment failed, finalizing with current candidate", zap.Error(err))
			return state.Apply(StepDelta{Status: StatusFinalizing, BestEffort: true})
		}

		state = state.Apply(StepDelta{
			Candidate:      adjusted,
			Status:         StatusAdjusting,
			IncrementRetry: true,
			AdjustNote:     note,
		})
		o.saveSnapshot(ctx, state)
	}
}

// SubmitFeedback records a rating and folds it into learned preferences.
func (o *Orchestrator) SubmitFeedback(ctx context.Context, userID, recipeID uuid.UUID, rating recipe.Rating, served *recipe.Recipe) error {
	if err := rating.Validate(); err != nil {
		return apperrors.NewAppError(apperrors.CodeBadRequest, "invalid rating", err.Error()).WithCause(err)
	}

	if err := o.feedback.SaveFeedback(ctx, userID, recipeID, rating); err != nil {
		o.logger.Warn("Feedback save failed, continuing", zap.Error(err))
	}

	learned, err := o.prefs.LoadLearnedPreferences(ctx, userID)
	if err != nil {
		o.logger.Warn("Learned preferences unavailable, starting fresh", zap.Error(err))
		learned = &profile.LearnedPreferences{}
	}
	o.learner.Merge(learned, served, rating)

	if err := o.prefs.SaveLearnedPreferences(ctx, userID, learned); err != nil {
		o.logger.Warn("Learned preferences save failed, continuing", zap.Error(err))
	}
	return nil
}

func (o *Orchestrator) saveSnapshot(ctx context.Context, state SessionState) {
	data, err := MarshalSnapshot(state)
	if err != nil {
		o.logger.Warn("Session snapshot marshal failed", zap.Error(err))
		return
	}
	o.sessions.SaveSession(ctx, state.UserID, data, o.cfg.SessionTTL)
}

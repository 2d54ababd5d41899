package gorm

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
	"github.com/mealforge/v1/internal/ports/outbound"
	apperrors "github.com/mealforge/v1/pkg/errors"
)

// PreferenceRepository implements outbound.PreferenceRepository on GORM.
type PreferenceRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPreferenceRepository creates the preference repository.
func NewPreferenceRepository(db *gorm.DB, logger *zap.Logger) outbound.PreferenceRepository {
	return &PreferenceRepository{db: db, logger: logger.Named("preference-repository")}
}

// LoadLearnedPreferences fetches the user's accumulated preferences. A user
// with no stored preferences gets a fresh empty value, not an error.
func (r *PreferenceRepository) LoadLearnedPreferences(ctx context.Context, userID uuid.UUID) (*profile.LearnedPreferences, error) {
	var model PreferenceModel
	err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &profile.LearnedPreferences{}, nil
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError("load preferences", err)
	}

	data, err := json.Marshal(model.Learned)
	if err != nil {
		return nil, apperrors.NewPersistenceError("decode preferences", err)
	}
	var prefs profile.LearnedPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, apperrors.NewPersistenceError("decode preferences", err)
	}
	return &prefs, nil
}

// SaveLearnedPreferences upserts the user's preferences.
func (r *PreferenceRepository) SaveLearnedPreferences(ctx context.Context, userID uuid.UUID, prefs *profile.LearnedPreferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return apperrors.NewPersistenceError("encode preferences", err)
	}
	var learned JSONField
	if err := json.Unmarshal(data, &learned); err != nil {
		return apperrors.NewPersistenceError("encode preferences", err)
	}

	model := PreferenceModel{UserID: userID, Learned: learned}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"learned", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		return apperrors.NewPersistenceError("save preferences", err)
	}
	return nil
}

// SaveGoalSnapshot appends one session's target to the goal history.
func (r *PreferenceRepository) SaveGoalSnapshot(ctx context.Context, snapshot outbound.GoalSnapshot) error {
	model := GoalModel{
		UserID:        snapshot.UserID,
		Goal:          string(snapshot.Goal),
		CalorieTarget: snapshot.CalorieTarget,
		ProteinPct:    snapshot.Macros.Protein(),
		CarbsPct:      snapshot.Macros.Carbs(),
		FatPct:        snapshot.Macros.Fat(),
		SetAt:         snapshot.SetAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return apperrors.NewPersistenceError("save goal snapshot", err)
	}
	return nil
}

// FeedbackRepository implements outbound.FeedbackRepository on GORM.
type FeedbackRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewFeedbackRepository creates the feedback repository.
func NewFeedbackRepository(db *gorm.DB, logger *zap.Logger) outbound.FeedbackRepository {
	return &FeedbackRepository{db: db, logger: logger.Named("feedback-repository")}
}

// SaveFeedback appends one rating.
func (r *FeedbackRepository) SaveFeedback(ctx context.Context, userID, recipeID uuid.UUID, rating recipe.Rating) error {
	model := FeedbackModel{
		UserID:   userID,
		RecipeID: recipeID,
		Rating:   rating.Value,
		Comment:  rating.Comment,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return apperrors.NewPersistenceError("save feedback", err)
	}
	return nil
}

package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mealforge/v1/internal/domain/recipe"
	"github.com/mealforge/v1/internal/ports/outbound"
	apperrors "github.com/mealforge/v1/pkg/errors"
)

// RecipeRepository implements outbound.RecipeRepository on GORM.
type RecipeRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRecipeRepository creates the recipe repository.
func NewRecipeRepository(db *gorm.DB, logger *zap.Logger) outbound.RecipeRepository {
	return &RecipeRepository{db: db, logger: logger.Named("recipe-repository")}
}

// SaveRecipe stores a served recipe and returns its stored identifier.
func (r *RecipeRepository) SaveRecipe(ctx context.Context, userID uuid.UUID, rec *recipe.Recipe, bestEffort bool) (uuid.UUID, error) {
	model := RecipeToModel(userID, rec, bestEffort)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return uuid.Nil, apperrors.NewPersistenceError("save recipe", err)
	}
	return model.ID, nil
}

// FindByID loads one stored recipe.
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(apperrors.CodeNotFound, "recipe not found", id.String())
		}
		return nil, apperrors.NewPersistenceError("load recipe", err)
	}
	return ModelToRecipe(&model)
}

// FindByUserID loads a user's most recent recipes, newest first.
func (r *RecipeRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*recipe.Recipe, error) {
	var models []RecipeModel
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, apperrors.NewPersistenceError("list recipes", err)
	}

	recipes := make([]*recipe.Recipe, 0, len(models))
	for i := range models {
		rec, err := ModelToRecipe(&models[i])
		if err != nil {
			r.logger.Warn("Stored recipe failed reconstruction, skipping",
				zap.String("recipe_id", models[i].ID.String()), zap.Error(err))
			continue
		}
		recipes = append(recipes, rec)
	}
	return recipes, nil
}

package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/ports/outbound"
	apperrors "github.com/mealforge/v1/pkg/errors"
)

// UserRepository implements outbound.UserRepository on GORM. Users are keyed
// by name, which is how the CLI identifies returning users across sessions.
type UserRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewUserRepository creates the user repository.
func NewUserRepository(db *gorm.DB, logger *zap.Logger) outbound.UserRepository {
	return &UserRepository{db: db, logger: logger.Named("user-repository")}
}

// GetOrCreate resolves a user by name, creating a fresh identity on first
// contact. The bool reports whether the user was newly created.
func (r *UserRepository) GetOrCreate(ctx context.Context, name string) (uuid.UUID, bool, error) {
	var model UserModel
	err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error
	if err == nil {
		return model.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, false, apperrors.NewPersistenceError("look up user", err)
	}

	model = UserModel{ID: uuid.New(), Name: name}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return uuid.Nil, false, apperrors.NewPersistenceError("create user", err)
	}
	r.logger.Info("New user created", zap.String("name", name))
	return model.ID, true, nil
}

// SaveProfile upserts the user's current profile fields.
func (r *UserRepository) SaveProfile(ctx context.Context, p *profile.UserProfile) error {
	model := ProfileToModel(p)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"age", "sex", "weight_kg", "height_cm", "activity", "goal",
			"allergies", "conditions", "cuisine", "spice_level", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return apperrors.NewPersistenceError("save profile", err)
	}
	return nil
}

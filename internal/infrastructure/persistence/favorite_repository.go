package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/moviecatalog/backend/internal/domain/collection"
	"github.com/moviecatalog/backend/internal/domain/shared"
	"github.com/moviecatalog/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFavoriteRepository implements collection.FavoriteRepository using GORM
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new GormFavoriteRepository
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Create inserts a favorite
func (r *GormFavoriteRepository) Create(ctx context.Context, favorite *collection.Favorite) error {
	return r.db.WithContext(ctx).Create(models.FavoriteModelFromDomain(favorite)).Error
}

// FindByID finds a favorite by ID
func (r *GormFavoriteRepository) FindByID(ctx context.Context, id uuid.UUID) (*collection.Favorite, error) {
	var model models.FavoriteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser returns the user's favorites, oldest first
func (r *GormFavoriteRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*collection.Favorite, error) {
	var rows []models.FavoriteModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	favorites := make([]*collection.Favorite, len(rows))
	for i := range rows {
		favorites[i] = rows[i].ToDomain()
	}
	return favorites, nil
}

// Delete removes a favorite by ID
func (r *GormFavoriteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.FavoriteModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ collection.FavoriteRepository = (*GormFavoriteRepository)(nil)

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

// GormWatchlistRepository implements collection.WatchlistRepository using GORM
type GormWatchlistRepository struct {
	db *gorm.DB
}

// NewGormWatchlistRepository creates a new GormWatchlistRepository
func NewGormWatchlistRepository(db *gorm.DB) *GormWatchlistRepository {
	return &GormWatchlistRepository{db: db}
}

// Create inserts a watchlist entry
func (r *GormWatchlistRepository) Create(ctx context.Context, item *collection.WatchlistItem) error {
	return r.db.WithContext(ctx).Create(models.WatchlistItemModelFromDomain(item)).Error
}

// FindByID finds a watchlist entry by ID
func (r *GormWatchlistRepository) FindByID(ctx context.Context, id uuid.UUID) (*collection.WatchlistItem, error) {
	var model models.WatchlistItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser returns the user's watchlist, oldest first
func (r *GormWatchlistRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*collection.WatchlistItem, error) {
	var rows []models.WatchlistItemModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]*collection.WatchlistItem, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

// DeleteByUserAndMovie removes every entry of the user for the external movie id.
// Reviews go with their entries through the foreign key cascade.
func (r *GormWatchlistRepository) DeleteByUserAndMovie(ctx context.Context, userID uuid.UUID, externalID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, externalID).
		Delete(&models.WatchlistItemModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

var _ collection.WatchlistRepository = (*GormWatchlistRepository)(nil)

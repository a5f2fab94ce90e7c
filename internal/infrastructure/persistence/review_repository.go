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

// GormReviewRepository implements collection.ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create inserts a review
func (r *GormReviewRepository) Create(ctx context.Context, review *collection.Review) error {
	return r.db.WithContext(ctx).Create(models.ReviewModelFromDomain(review)).Error
}

// FindByID finds a review by ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*collection.Review, error) {
	var model models.ReviewModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByWatchlistItem returns the reviews of an entry, oldest first, with author emails
func (r *GormReviewRepository) FindByWatchlistItem(ctx context.Context, watchlistID uuid.UUID) ([]*collection.Review, error) {
	var rows []models.ReviewWithEmail
	if err := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.*, users.email AS user_email").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.watchlist_id = ?", watchlistID).
		Order("reviews.created_at ASC, reviews.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	reviews := make([]*collection.Review, len(rows))
	for i := range rows {
		reviews[i] = rows[i].ToDomain()
	}
	return reviews, nil
}

// Delete removes a review by ID
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ReviewModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ collection.ReviewRepository = (*GormReviewRepository)(nil)

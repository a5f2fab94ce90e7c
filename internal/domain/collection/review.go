package collection

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/moviecatalog/backend/internal/domain/shared"
)

// Review rating bounds
const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

// Review is a user's rating and comment on a watchlist entry
type Review struct {
	shared.BaseEntity
	UserID      uuid.UUID
	WatchlistID uuid.UUID
	Rating      int
	Comment     string

	// UserEmail is filled on reads by joining the author
	UserEmail string
}

// NewReview validates and creates a review
func NewReview(userID, watchlistID uuid.UUID, rating int, comment string) (*Review, error) {
	if userID == uuid.Nil || watchlistID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Missing required fields")
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Missing required fields")
	}
	if len(comment) > 5000 {
		return nil, shared.ErrInvalidInput.WithMessage("Comment cannot exceed 5000 characters")
	}
	if rating < MinReviewRating || rating > MaxReviewRating {
		return nil, shared.ErrInvalidInput.WithMessage("Rating must be between 1 and 5")
	}

	return &Review{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		WatchlistID: watchlistID,
		Rating:      rating,
		Comment:     comment,
	}, nil
}

// WrittenBy reports whether the review was written by the given user
func (r *Review) WrittenBy(userID uuid.UUID) bool {
	return r.UserID == userID
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error

	// FindByID returns shared.ErrNotFound when no row matches
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// FindByWatchlistItem returns the reviews of an entry with the author email joined
	FindByWatchlistItem(ctx context.Context, watchlistID uuid.UUID) ([]*Review, error)

	// Delete removes a review by ID. Returns shared.ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id uuid.UUID) error
}

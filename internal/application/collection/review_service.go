package collection

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/moviecatalog/backend/internal/domain/collection"
	"github.com/moviecatalog/backend/internal/domain/shared"
	"github.com/moviecatalog/backend/internal/infrastructure/logger"
	"github.com/moviecatalog/backend/internal/infrastructure/telemetry"
)

// ReviewService manages reviews on watchlist entries
type ReviewService struct {
	reviews   collection.ReviewRepository
	watchlist collection.WatchlistRepository
}

// NewReviewService creates a new review service
func NewReviewService(reviews collection.ReviewRepository, watchlist collection.WatchlistRepository) *ReviewService {
	return &ReviewService{reviews: reviews, watchlist: watchlist}
}

// Add reviews an existing watchlist entry as the actor
func (s *ReviewService) Add(ctx context.Context, actor Actor, input AddReviewInput) (*collection.Review, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "review", "add")
	defer span.End()

	if strings.TrimSpace(input.UserID) == "" || strings.TrimSpace(input.WatchlistID) == "" ||
		input.Rating == nil || strings.TrimSpace(input.Comment) == "" {
		return nil, errMissingFields
	}
	userID, err := resolveOwner(actor, input.UserID, true)
	if err != nil {
		return nil, err
	}
	watchlistID, err := parseID(input.WatchlistID, "WatchlistId")
	if err != nil {
		return nil, err
	}

	review, err := collection.NewReview(userID, watchlistID, *input.Rating, input.Comment)
	if err != nil {
		return nil, err
	}
	if _, err := s.watchlist.FindByID(ctx, watchlistID); err != nil {
		return nil, storeError(ctx, err, "Error adding review")
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, storeError(ctx, err, "Error adding review")
	}
	review.UserEmail = actor.Email

	logger.L(ctx).Info("Review added",
		zap.String("review_id", review.ID.String()),
		zap.String("watchlist_id", watchlistID.String()),
	)
	return review, nil
}

// List returns the reviews of a watchlist entry with their authors' emails
func (s *ReviewService) List(ctx context.Context, watchlistID string) ([]*collection.Review, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "review", "list")
	defer span.End()

	id, err := parseID(watchlistID, "WatchlistId")
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return []*collection.Review{}, nil
		}
		return nil, err
	}
	reviews, err := s.reviews.FindByWatchlistItem(ctx, id)
	if err != nil {
		return nil, storeError(ctx, err, "Error fetching reviews")
	}
	return reviews, nil
}

// Delete removes a review. Only its author may delete it.
func (s *ReviewService) Delete(ctx context.Context, actor Actor, reviewID string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "review", "delete")
	defer span.End()

	id, err := parseID(reviewID, "ReviewId")
	if err != nil {
		return err
	}
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return storeError(ctx, err, "Error deleting review")
	}
	if !review.WrittenBy(actor.ID) {
		logger.L(ctx).Warn("Refused to delete another user's review", zap.String("review_id", id.String()))
		return shared.ErrForbidden
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return storeError(ctx, err, "Error deleting review")
	}

	logger.L(ctx).Info("Review deleted", zap.String("review_id", id.String()))
	return nil
}

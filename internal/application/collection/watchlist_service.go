package collection

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/moviecatalog/backend/internal/domain/collection"
	"github.com/moviecatalog/backend/internal/domain/shared"
	"github.com/moviecatalog/backend/internal/infrastructure/logger"
	"github.com/moviecatalog/backend/internal/infrastructure/telemetry"
)

// WatchlistService manages a user's watchlist
type WatchlistService struct {
	repo collection.WatchlistRepository
}

// NewWatchlistService creates a new watchlist service
func NewWatchlistService(repo collection.WatchlistRepository) *WatchlistService {
	return &WatchlistService{repo: repo}
}

// Add stores a movie in the actor's watchlist. Two identical calls create two entries.
func (s *WatchlistService) Add(ctx context.Context, actor Actor, input AddEntryInput) (*collection.WatchlistItem, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "watchlist", "add")
	defer span.End()

	if input.UserID == "" || input.Movie == nil {
		return nil, errMissingFields
	}
	userID, err := resolveOwner(actor, input.UserID, true)
	if err != nil {
		return nil, err
	}

	item, err := collection.NewWatchlistItem(userID, *input.Movie)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx).Error("Failed to save watchlist item", zap.Error(err))
		return nil, shared.ErrInternal.WithMessage("Error adding movie to watchlist")
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrMovieID, item.ExternalID)
	logger.L(ctx).Info("Watchlist item added",
		zap.String("watchlist_id", item.ID.String()),
		zap.String("movie_id", item.ExternalID),
	)
	return item, nil
}

// List returns the actor's watchlist, oldest first
func (s *WatchlistService) List(ctx context.Context, actor Actor, userID string) ([]*collection.WatchlistItem, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "watchlist", "list")
	defer span.End()

	owner, err := resolveOwner(actor, userID, true)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.FindByUser(ctx, owner)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx).Error("Failed to list watchlist", zap.Error(err))
		return nil, shared.ErrInternal.WithMessage("Error fetching watchlist")
	}
	return items, nil
}

// Remove deletes every entry of the owner for an external movie id and
// returns how many were removed. Their reviews go with them.
func (s *WatchlistService) Remove(ctx context.Context, actor Actor, input RemoveWatchlistInput) (int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "watchlist", "remove")
	defer span.End()

	movieID := strings.TrimSpace(input.MovieID)
	if movieID == "" {
		return 0, shared.ErrInvalidInput.WithMessage("MovieId is required")
	}
	owner, err := resolveOwner(actor, input.UserID, false)
	if err != nil {
		return 0, err
	}

	deleted, err := s.repo.DeleteByUserAndMovie(ctx, owner, movieID)
	if err != nil {
		return 0, storeError(ctx, err, "Error deleting movie from watchlist")
	}
	if deleted == 0 {
		return 0, shared.ErrNotFound.WithMessage("Movie not found in watchlist")
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrMovieID, movieID, "deleted", deleted)
	logger.L(ctx).Info("Watchlist items removed",
		zap.String("movie_id", movieID),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}

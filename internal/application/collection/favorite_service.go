package collection

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/moviecatalog/backend/internal/domain/collection"
	"github.com/moviecatalog/backend/internal/domain/shared"
	"github.com/moviecatalog/backend/internal/infrastructure/logger"
	"github.com/moviecatalog/backend/internal/infrastructure/telemetry"
)

// FavoriteService manages a user's favorite movies
type FavoriteService struct {
	repo collection.FavoriteRepository
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(repo collection.FavoriteRepository) *FavoriteService {
	return &FavoriteService{repo: repo}
}

// Add stores a movie in the actor's favorites. Duplicates are allowed.
func (s *FavoriteService) Add(ctx context.Context, actor Actor, input AddEntryInput) (*collection.Favorite, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "favorite", "add")
	defer span.End()

	if input.UserID == "" || input.Movie == nil {
		return nil, errMissingFields
	}
	userID, err := resolveOwner(actor, input.UserID, true)
	if err != nil {
		return nil, err
	}

	favorite, err := collection.NewFavorite(userID, *input.Movie)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, favorite); err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx).Error("Failed to save favorite", zap.Error(err))
		return nil, shared.ErrInternal.WithMessage("Error adding favorite movie")
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrMovieID, favorite.ExternalID)
	logger.L(ctx).Info("Favorite added",
		zap.String("favorite_id", favorite.ID.String()),
		zap.String("movie_id", favorite.ExternalID),
	)
	return favorite, nil
}

// List returns the actor's favorites, oldest first
func (s *FavoriteService) List(ctx context.Context, actor Actor, userID string) ([]*collection.Favorite, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "favorite", "list")
	defer span.End()

	owner, err := resolveOwner(actor, userID, true)
	if err != nil {
		return nil, err
	}
	favorites, err := s.repo.FindByUser(ctx, owner)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx).Error("Failed to list favorites", zap.Error(err))
		return nil, shared.ErrInternal.WithMessage("Error fetching favorite movies")
	}
	return favorites, nil
}

// Delete removes one favorite by its record id. Only the owner may delete it.
func (s *FavoriteService) Delete(ctx context.Context, actor Actor, favoriteID string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "favorite", "delete")
	defer span.End()

	id, err := parseID(favoriteID, "MovieId")
	if err != nil {
		return err
	}

	favorite, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeError(ctx, err, "Error deleting movie")
	}
	if !favorite.OwnedBy(actor.ID) {
		logger.L(ctx).Warn("Refused to delete another user's favorite", zap.String("favorite_id", id.String()))
		return shared.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(ctx, err, "Error deleting movie")
	}

	logger.L(ctx).Info("Favorite deleted", zap.String("favorite_id", id.String()))
	return nil
}

// storeError passes NotFound through and hides every other store failure.
func storeError(ctx context.Context, err error, message string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.ErrNotFound
	}
	logger.L(ctx).Error(message, zap.Error(err))
	telemetry.RecordError(trace.SpanFromContext(ctx), err)
	return shared.ErrInternal.WithMessage(message)
}

package collection

import (
	"context"

	"github.com/google/uuid"
)

// WatchlistItem is a movie a user wants to watch. Reviews hang off it.
type WatchlistItem struct {
	Entry
}

// NewWatchlistItem creates a watchlist entry for the user
func NewWatchlistItem(userID uuid.UUID, movie Movie) (*WatchlistItem, error) {
	e, err := newEntry(userID, movie)
	if err != nil {
		return nil, err
	}
	return &WatchlistItem{Entry: e}, nil
}

// WatchlistRepository defines the interface for watchlist persistence
type WatchlistRepository interface {
	Create(ctx context.Context, item *WatchlistItem) error

	// FindByID returns shared.ErrNotFound when no row matches
	FindByID(ctx context.Context, id uuid.UUID) (*WatchlistItem, error)

	// FindByUser returns the user's watchlist, oldest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*WatchlistItem, error)

	// DeleteByUserAndMovie removes every entry of the user for an external movie id
	// and returns how many rows were deleted.
	DeleteByUserAndMovie(ctx context.Context, userID uuid.UUID, externalID string) (int64, error)
}

package collection

import (
	"context"

	"github.com/google/uuid"
)

// Favorite is a movie a user marked as favorite. Duplicates per movie are allowed.
type Favorite struct {
	Entry
}

// NewFavorite creates a favorite for the user
func NewFavorite(userID uuid.UUID, movie Movie) (*Favorite, error) {
	e, err := newEntry(userID, movie)
	if err != nil {
		return nil, err
	}
	return &Favorite{Entry: e}, nil
}

// FavoriteRepository defines the interface for favorite persistence
type FavoriteRepository interface {
	Create(ctx context.Context, favorite *Favorite) error

	// FindByID returns shared.ErrNotFound when no row matches
	FindByID(ctx context.Context, id uuid.UUID) (*Favorite, error)

	// FindByUser returns the user's favorites, oldest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Favorite, error)

	// Delete removes a favorite by ID. Returns shared.ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id uuid.UUID) error
}

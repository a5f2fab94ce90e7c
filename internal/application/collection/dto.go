package collection

import (
	"github.com/google/uuid"

	"github.com/moviecatalog/backend/internal/domain/collection"
)

// Actor is the verified session user performing an operation
type Actor struct {
	ID    uuid.UUID
	Email string
}

// AddEntryInput adds a movie to a favorites or watchlist collection
type AddEntryInput struct {
	UserID string            // must name the actor
	Movie  *collection.Movie // nil when the payload carried no movie
}

// RemoveWatchlistInput removes every watchlist entry of a user for a movie
type RemoveWatchlistInput struct {
	UserID  string // optional, defaults to the actor
	MovieID string // external catalog id
}

// AddReviewInput adds a review to a watchlist entry
type AddReviewInput struct {
	UserID      string
	WatchlistID string
	Rating      *int // nil when absent
	Comment     string
}

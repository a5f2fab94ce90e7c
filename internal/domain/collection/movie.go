// Package collection holds the per-user movie collections: favorites,
// watchlist entries, and the reviews attached to watchlist entries.
package collection

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moviecatalog/backend/internal/domain/shared"
)

// Movie is the part of a catalog movie that is copied into a collection entry.
type Movie struct {
	ExternalID  string
	Title       string
	ImageURL    string
	Overview    string
	ReleaseDate *time.Time
	Rating      float64
	Genres      []string
}

// Normalize trims text fields and applies defaults for omitted values
func (m Movie) Normalize() Movie {
	m.ExternalID = strings.TrimSpace(m.ExternalID)
	m.Title = strings.TrimSpace(m.Title)
	m.ImageURL = strings.TrimSpace(m.ImageURL)
	genres := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	m.Genres = genres
	return m
}

// Validate checks the fields every collection entry needs
func (m Movie) Validate() error {
	if m.ExternalID == "" {
		return shared.ErrInvalidInput.WithMessage("Movie id is required")
	}
	if len(m.ExternalID) > 64 {
		return shared.ErrInvalidInput.WithMessage("Movie id cannot exceed 64 characters")
	}
	if m.Title == "" {
		return shared.ErrInvalidInput.WithMessage("Movie title is required")
	}
	if len(m.Title) > 500 {
		return shared.ErrInvalidInput.WithMessage("Movie title cannot exceed 500 characters")
	}
	if m.Rating < 0 {
		return shared.ErrInvalidInput.WithMessage("Movie rating cannot be negative")
	}
	return nil
}

// Entry is the shared shape of favorites and watchlist items
type Entry struct {
	shared.BaseEntity
	UserID uuid.UUID
	Movie
}

func newEntry(userID uuid.UUID, movie Movie) (Entry, error) {
	if userID == uuid.Nil {
		return Entry{}, shared.ErrInvalidInput.WithMessage("UserId is required")
	}
	movie = movie.Normalize()
	if err := movie.Validate(); err != nil {
		return Entry{}, err
	}
	return Entry{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Movie:      movie,
	}, nil
}

// OwnedBy reports whether the entry belongs to the given user
func (e *Entry) OwnedBy(userID uuid.UUID) bool {
	return e.UserID == userID
}

package collection

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/moviecatalog/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFavorite(t *testing.T) {
	userID := uuid.New()

	t.Run("applies defaults for omitted fields", func(t *testing.T) {
		fav, err := NewFavorite(userID, Movie{ExternalID: "42", Title: "Dune"})

		require.NoError(t, err)
		assert.Equal(t, userID, fav.UserID)
		assert.Equal(t, "42", fav.ExternalID)
		assert.Equal(t, "", fav.Overview)
		assert.Nil(t, fav.ReleaseDate)
		assert.Zero(t, fav.Rating)
		assert.NotNil(t, fav.Genres)
		assert.Empty(t, fav.Genres)
		assert.True(t, fav.OwnedBy(userID))
		assert.False(t, fav.OwnedBy(uuid.New()))
	})

	t.Run("drops blank genres and trims text", func(t *testing.T) {
		fav, err := NewFavorite(userID, Movie{ExternalID: " 42 ", Title: " Dune ", Genres: []string{"Drama", " ", "Sci-Fi "}})

		require.NoError(t, err)
		assert.Equal(t, "42", fav.ExternalID)
		assert.Equal(t, "Dune", fav.Title)
		assert.Equal(t, []string{"Drama", "Sci-Fi"}, fav.Genres)
	})

	tests := []struct {
		name   string
		userID uuid.UUID
		movie  Movie
	}{
		{"missing user", uuid.Nil, Movie{ExternalID: "42", Title: "Dune"}},
		{"missing movie id", userID, Movie{Title: "Dune"}},
		{"missing title", userID, Movie{ExternalID: "42"}},
		{"negative rating", userID, Movie{ExternalID: "42", Title: "Dune", Rating: -1}},
	}
	for _, tt := range tests {
		t.Run("fails with "+tt.name, func(t *testing.T) {
			_, err := NewFavorite(tt.userID, tt.movie)
			assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		})
	}
}

func TestNewWatchlistItem(t *testing.T) {
	userID := uuid.New()
	movie := Movie{ExternalID: "42", Title: "Dune"}

	a, err := NewWatchlistItem(userID, movie)
	require.NoError(t, err)
	b, err := NewWatchlistItem(userID, movie)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.ExternalID, b.ExternalID)
}

func TestNewReview(t *testing.T) {
	userID, watchlistID := uuid.New(), uuid.New()

	t.Run("creates review", func(t *testing.T) {
		r, err := NewReview(userID, watchlistID, 5, "  great  ")

		require.NoError(t, err)
		assert.Equal(t, "great", r.Comment)
		assert.Equal(t, 5, r.Rating)
		assert.True(t, r.WrittenBy(userID))
	})

	tests := []struct {
		name        string
		userID      uuid.UUID
		watchlistID uuid.UUID
		rating      int
		comment     string
	}{
		{"missing user", uuid.Nil, watchlistID, 3, "ok"},
		{"missing watchlist item", userID, uuid.Nil, 3, "ok"},
		{"blank comment", userID, watchlistID, 3, "   "},
		{"rating below range", userID, watchlistID, 0, "ok"},
		{"rating above range", userID, watchlistID, 6, "ok"},
		{"comment too long", userID, watchlistID, 3, strings.Repeat("x", 5001)},
	}
	for _, tt := range tests {
		t.Run("fails with "+tt.name, func(t *testing.T) {
			_, err := NewReview(tt.userID, tt.watchlistID, tt.rating, tt.comment)
			assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		})
	}
}

package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/moviecatalog/backend/internal/domain/collection"
	"github.com/moviecatalog/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_Value(t *testing.T) {
	tests := []struct {
		name string
		list StringList
		want string
	}{
		{"nil", nil, "[]"},
		{"empty", StringList{}, "[]"},
		{"ordered", StringList{"Drama", "Sci-Fi"}, `["Drama","Sci-Fi"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.list.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestStringList_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    StringList
		wantErr bool
	}{
		{name: "bytes", src: []byte(`["Action","Drama"]`), want: StringList{"Action", "Drama"}},
		{name: "string", src: `["Comedy"]`, want: StringList{"Comedy"}},
		{name: "nil", src: nil, want: StringList{}},
		{name: "json null", src: "null", want: StringList{}},
		{name: "empty string", src: "", want: StringList{}},
		{name: "invalid json", src: "{", wantErr: true},
		{name: "unsupported type", src: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l StringList
			err := l.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, l)
		})
	}
}

func TestFavoriteModel_DomainMapping(t *testing.T) {
	release := time.Date(2021, 10, 22, 0, 0, 0, 0, time.UTC)
	fav, err := collection.NewFavorite(uuid.New(), collection.Movie{
		ExternalID:  "438631",
		Title:       "Dune",
		ImageURL:    "https://image.tmdb.org/t/p/w500/x.jpg",
		ReleaseDate: &release,
		Rating:      7.8,
		Genres:      []string{"Science Fiction"},
	})
	require.NoError(t, err)

	m := FavoriteModelFromDomain(fav)
	assert.Equal(t, "favorite_movies", m.TableName())
	assert.Equal(t, fav.ID, m.ID)
	assert.Equal(t, "438631", m.MovieID)

	back := m.ToDomain()
	assert.Equal(t, fav.ID, back.ID)
	assert.Equal(t, fav.UserID, back.UserID)
	assert.Equal(t, fav.Movie, back.Movie)
}

func TestWatchlistItemModel_NilGenresBecomeEmpty(t *testing.T) {
	m := &WatchlistItemModel{EntryModel: EntryModel{
		BaseModel: BaseModel{ID: uuid.New()},
		MovieID:   "1",
		Title:     "Alien",
	}}

	item := m.ToDomain()
	assert.NotNil(t, item.Genres)
	assert.Empty(t, item.Genres)
	assert.Equal(t, "watchlist_items", m.TableName())
}

func TestUserModel_DomainMapping(t *testing.T) {
	u, err := identity.NewUser("a@x.com", "pw1")
	require.NoError(t, err)

	m := UserModelFromDomain(u)
	assert.Equal(t, "users", m.TableName())
	assert.Equal(t, u.PasswordHash, m.PasswordHash)

	back := m.ToDomain()
	assert.Equal(t, u.ID, back.ID)
	assert.Equal(t, u.Email, back.Email)
	assert.True(t, back.VerifyPassword("pw1"))
}

func TestReviewWithEmail_ToDomain(t *testing.T) {
	r, err := collection.NewReview(uuid.New(), uuid.New(), 4, "Great")
	require.NoError(t, err)

	row := &ReviewWithEmail{ReviewModel: *ReviewModelFromDomain(r), UserEmail: "a@x.com"}
	back := row.ToDomain()

	assert.Equal(t, r.ID, back.ID)
	assert.Equal(t, 4, back.Rating)
	assert.Equal(t, "a@x.com", back.UserEmail)
	assert.Equal(t, "reviews", row.TableName())
}

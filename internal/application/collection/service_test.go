package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/moviecatalog/backend/internal/domain/collection"
	"github.com/moviecatalog/backend/internal/domain/shared"
)

// MockFavoriteRepository is a mock implementation of collection.FavoriteRepository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Create(ctx context.Context, favorite *collection.Favorite) error {
	return m.Called(ctx, favorite).Error(0)
}

func (m *MockFavoriteRepository) FindByID(ctx context.Context, id uuid.UUID) (*collection.Favorite, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collection.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*collection.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*collection.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockWatchlistRepository is a mock implementation of collection.WatchlistRepository
type MockWatchlistRepository struct {
	mock.Mock
}

func (m *MockWatchlistRepository) Create(ctx context.Context, item *collection.WatchlistItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockWatchlistRepository) FindByID(ctx context.Context, id uuid.UUID) (*collection.WatchlistItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collection.WatchlistItem), args.Error(1)
}

func (m *MockWatchlistRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*collection.WatchlistItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*collection.WatchlistItem), args.Error(1)
}

func (m *MockWatchlistRepository) DeleteByUserAndMovie(ctx context.Context, userID uuid.UUID, externalID string) (int64, error) {
	args := m.Called(ctx, userID, externalID)
	return args.Get(0).(int64), args.Error(1)
}

// MockReviewRepository is a mock implementation of collection.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *collection.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*collection.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collection.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByWatchlistItem(ctx context.Context, watchlistID uuid.UUID) ([]*collection.Review, error) {
	args := m.Called(ctx, watchlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*collection.Review), args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newActor() Actor {
	return Actor{ID: uuid.New(), Email: "viewer@example.com"}
}

func dune() *collection.Movie {
	return &collection.Movie{ExternalID: "42", Title: "Dune", ImageURL: "https://image.tmdb.org/t/p/w500/x.jpg"}
}

func intPtr(v int) *int { return &v }

func TestFavoriteService_Add(t *testing.T) {
	actor := newActor()

	t.Run("applies defaults and saves", func(t *testing.T) {
		repo := new(MockFavoriteRepository)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*collection.Favorite")).Return(nil)

		fav, err := NewFavoriteService(repo).Add(context.Background(), actor,
			AddEntryInput{UserID: actor.ID.String(), Movie: dune()})

		require.NoError(t, err)
		assert.Equal(t, actor.ID, fav.UserID)
		assert.Equal(t, "42", fav.ExternalID)
		assert.Equal(t, "", fav.Overview)
		assert.Zero(t, fav.Rating)
		assert.NotNil(t, fav.Genres)
		assert.Empty(t, fav.Genres)
		repo.AssertExpectations(t)
	})

	tests := []struct {
		name    string
		input   AddEntryInput
		wantErr error
	}{
		{"missing user", AddEntryInput{Movie: dune()}, shared.ErrInvalidInput},
		{"missing movie", AddEntryInput{UserID: actor.ID.String()}, shared.ErrInvalidInput},
		{"other user", AddEntryInput{UserID: uuid.NewString(), Movie: dune()}, shared.ErrForbidden},
		{"malformed user", AddEntryInput{UserID: "not-a-uuid", Movie: dune()}, shared.ErrForbidden},
		{"missing title", AddEntryInput{UserID: actor.ID.String(), Movie: &collection.Movie{ExternalID: "1"}}, shared.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockFavoriteRepository)
			_, err := NewFavoriteService(repo).Add(context.Background(), actor, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("store failure", func(t *testing.T) {
		repo := new(MockFavoriteRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		_, err := NewFavoriteService(repo).Add(context.Background(), actor,
			AddEntryInput{UserID: actor.ID.String(), Movie: dune()})
		assert.ErrorIs(t, err, shared.ErrInternal)
	})
}

func TestFavoriteService_List(t *testing.T) {
	actor := newActor()
	fav, err := collection.NewFavorite(actor.ID, *dune())
	require.NoError(t, err)

	repo := new(MockFavoriteRepository)
	repo.On("FindByUser", mock.Anything, actor.ID).Return([]*collection.Favorite{fav}, nil)
	svc := NewFavoriteService(repo)

	got, err := svc.List(context.Background(), actor, actor.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []*collection.Favorite{fav}, got)

	_, err = svc.List(context.Background(), actor, "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.List(context.Background(), actor, uuid.NewString())
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestFavoriteService_Delete(t *testing.T) {
	actor := newActor()
	own, err := collection.NewFavorite(actor.ID, *dune())
	require.NoError(t, err)
	foreign, err := collection.NewFavorite(uuid.New(), *dune())
	require.NoError(t, err)
	missing := uuid.New()

	repo := new(MockFavoriteRepository)
	repo.On("FindByID", mock.Anything, own.ID).Return(own, nil)
	repo.On("FindByID", mock.Anything, foreign.ID).Return(foreign, nil)
	repo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)
	repo.On("Delete", mock.Anything, own.ID).Return(nil)
	svc := NewFavoriteService(repo)

	assert.NoError(t, svc.Delete(context.Background(), actor, own.ID.String()))
	assert.ErrorIs(t, svc.Delete(context.Background(), actor, foreign.ID.String()), shared.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(context.Background(), actor, missing.String()), shared.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), actor, "garbage"), shared.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), actor, ""), shared.ErrInvalidInput)

	repo.AssertNumberOfCalls(t, "Delete", 1)
}

func TestWatchlistService_AddAllowsDuplicates(t *testing.T) {
	actor := newActor()
	repo := new(MockWatchlistRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := NewWatchlistService(repo)

	input := AddEntryInput{UserID: actor.ID.String(), Movie: dune()}
	first, err := svc.Add(context.Background(), actor, input)
	require.NoError(t, err)
	second, err := svc.Add(context.Background(), actor, input)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.ExternalID, second.ExternalID)
	repo.AssertNumberOfCalls(t, "Create", 2)
}

func TestWatchlistService_Remove(t *testing.T) {
	actor := newActor()

	tests := []struct {
		name     string
		input    RemoveWatchlistInput
		deleted  int64
		repoErr  error
		wantN    int64
		wantErr  error
		wantCall bool
	}{
		{name: "defaults to actor", input: RemoveWatchlistInput{MovieID: "42"}, deleted: 2, wantN: 2, wantCall: true},
		{name: "explicit owner", input: RemoveWatchlistInput{MovieID: "42", UserID: actor.ID.String()}, deleted: 1, wantN: 1, wantCall: true},
		{name: "nothing deleted", input: RemoveWatchlistInput{MovieID: "42"}, deleted: 0, wantErr: shared.ErrNotFound, wantCall: true},
		{name: "store failure", input: RemoveWatchlistInput{MovieID: "42"}, repoErr: errors.New("timeout"), wantErr: shared.ErrInternal, wantCall: true},
		{name: "missing movie id", input: RemoveWatchlistInput{}, wantErr: shared.ErrInvalidInput},
		{name: "other user", input: RemoveWatchlistInput{MovieID: "42", UserID: uuid.NewString()}, wantErr: shared.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockWatchlistRepository)
			repo.On("DeleteByUserAndMovie", mock.Anything, actor.ID, "42").Return(tt.deleted, tt.repoErr)

			n, err := NewWatchlistService(repo).Remove(context.Background(), actor, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantN, n)
			}
			if tt.wantCall {
				repo.AssertExpectations(t)
			} else {
				repo.AssertNotCalled(t, "DeleteByUserAndMovie", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestReviewService_Add(t *testing.T) {
	actor := newActor()
	item, err := collection.NewWatchlistItem(actor.ID, *dune())
	require.NoError(t, err)

	t.Run("creates review with author email", func(t *testing.T) {
		reviews := new(MockReviewRepository)
		watchlist := new(MockWatchlistRepository)
		watchlist.On("FindByID", mock.Anything, item.ID).Return(item, nil)
		reviews.On("Create", mock.Anything, mock.Anything).Return(nil)

		review, err := NewReviewService(reviews, watchlist).Add(context.Background(), actor, AddReviewInput{
			UserID:      actor.ID.String(),
			WatchlistID: item.ID.String(),
			Rating:      intPtr(4),
			Comment:     "  Great sand.  ",
		})

		require.NoError(t, err)
		assert.Equal(t, 4, review.Rating)
		assert.Equal(t, "Great sand.", review.Comment)
		assert.Equal(t, "viewer@example.com", review.UserEmail)
		assert.Equal(t, item.ID, review.WatchlistID)
	})

	tests := []struct {
		name    string
		input   AddReviewInput
		wantErr error
	}{
		{"missing rating", AddReviewInput{UserID: actor.ID.String(), WatchlistID: item.ID.String(), Comment: "ok"}, shared.ErrInvalidInput},
		{"blank comment", AddReviewInput{UserID: actor.ID.String(), WatchlistID: item.ID.String(), Rating: intPtr(3), Comment: "  "}, shared.ErrInvalidInput},
		{"missing watchlist", AddReviewInput{UserID: actor.ID.String(), Rating: intPtr(3), Comment: "ok"}, shared.ErrInvalidInput},
		{"rating too high", AddReviewInput{UserID: actor.ID.String(), WatchlistID: item.ID.String(), Rating: intPtr(6), Comment: "ok"}, shared.ErrInvalidInput},
		{"rating zero", AddReviewInput{UserID: actor.ID.String(), WatchlistID: item.ID.String(), Rating: intPtr(0), Comment: "ok"}, shared.ErrInvalidInput},
		{"other user", AddReviewInput{UserID: uuid.NewString(), WatchlistID: item.ID.String(), Rating: intPtr(3), Comment: "ok"}, shared.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := new(MockReviewRepository)
			_, err := NewReviewService(reviews, new(MockWatchlistRepository)).Add(context.Background(), actor, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("unknown watchlist item", func(t *testing.T) {
		reviews := new(MockReviewRepository)
		watchlist := new(MockWatchlistRepository)
		missing := uuid.New()
		watchlist.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

		_, err := NewReviewService(reviews, watchlist).Add(context.Background(), actor, AddReviewInput{
			UserID: actor.ID.String(), WatchlistID: missing.String(), Rating: intPtr(5), Comment: "ok",
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestReviewService_List(t *testing.T) {
	watchlistID := uuid.New()
	review := &collection.Review{BaseEntity: shared.NewBaseEntity(), WatchlistID: watchlistID, Rating: 5, Comment: "x", UserEmail: "a@x.com"}

	reviews := new(MockReviewRepository)
	reviews.On("FindByWatchlistItem", mock.Anything, watchlistID).Return([]*collection.Review{review}, nil)
	svc := NewReviewService(reviews, new(MockWatchlistRepository))

	got, err := svc.List(context.Background(), watchlistID.String())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a@x.com", got[0].UserEmail)

	_, err = svc.List(context.Background(), "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	got, err = svc.List(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReviewService_Delete(t *testing.T) {
	actor := newActor()
	own, err := collection.NewReview(actor.ID, uuid.New(), 3, "fine")
	require.NoError(t, err)
	foreign, err := collection.NewReview(uuid.New(), uuid.New(), 3, "fine")
	require.NoError(t, err)

	reviews := new(MockReviewRepository)
	reviews.On("FindByID", mock.Anything, own.ID).Return(own, nil)
	reviews.On("FindByID", mock.Anything, foreign.ID).Return(foreign, nil)
	reviews.On("Delete", mock.Anything, own.ID).Return(nil)
	svc := NewReviewService(reviews, new(MockWatchlistRepository))

	assert.NoError(t, svc.Delete(context.Background(), actor, own.ID.String()))
	assert.ErrorIs(t, svc.Delete(context.Background(), actor, foreign.ID.String()), shared.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(context.Background(), actor, ""), shared.ErrInvalidInput)
	reviews.AssertNumberOfCalls(t, "Delete", 1)
}

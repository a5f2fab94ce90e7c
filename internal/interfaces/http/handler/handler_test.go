package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/moviecatalog/backend/internal/domain/catalog"
	"github.com/moviecatalog/backend/internal/domain/collection"
	"github.com/moviecatalog/backend/internal/domain/identity"
	"github.com/moviecatalog/backend/internal/infrastructure/auth"
	"github.com/moviecatalog/backend/internal/infrastructure/config"
	"github.com/moviecatalog/backend/internal/interfaces/http/dto"
	"github.com/moviecatalog/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	// before any test binds a request type
	middleware.SetupValidator()
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockFavoriteRepository is a mock implementation of collection.FavoriteRepository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Create(ctx context.Context, favorite *collection.Favorite) error {
	args := m.Called(ctx, favorite)
	return args.Error(0)
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
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCatalogClient is a mock implementation of catalog.Client
type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) Search(ctx context.Context, query string, page int) (*catalog.Page, error) {
	args := m.Called(ctx, query, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Page), args.Error(1)
}

func (m *MockCatalogClient) ListByCategory(ctx context.Context, category catalog.Category, page int) (*catalog.Page, error) {
	args := m.Called(ctx, category, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Page), args.Error(1)
}

func (m *MockCatalogClient) GetDetail(ctx context.Context, id string) (*catalog.MovieDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.MovieDetail), args.Error(1)
}

const testCookieName = "session"

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-that-is-at-least-32-chars",
		Expiration: time.Hour,
		Issuer:     "movie-catalog",
	})
}

// sessionFixture issues a token for a fresh user and returns the middleware
// that accepts it.
type sessionFixture struct {
	userID    uuid.UUID
	email     string
	token     string
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	jwtService := newTestJWTService()
	userID := uuid.New()
	issued, err := jwtService.Issue(userID, "viewer@example.com")
	require.NoError(t, err)
	return &sessionFixture{
		userID:    userID,
		email:     "viewer@example.com",
		token:     issued.Token,
		jwt:       jwtService,
		blacklist: auth.NewInMemoryTokenBlacklist(),
	}
}

func (f *sessionFixture) middleware() gin.HandlerFunc {
	return middleware.SessionAuth(middleware.SessionConfig{
		JWTService: f.jwt,
		Blacklist:  f.blacklist,
		CookieName: testCookieName,
	})
}

func newTestEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	return r
}

// performRequest sends body as JSON when it is not a string
func performRequest(r http.Handler, method, target string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

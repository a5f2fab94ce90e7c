package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviecatalog/backend/internal/infrastructure/auth"
	"github.com/moviecatalog/backend/internal/infrastructure/config"
	"github.com/moviecatalog/backend/internal/interfaces/http/dto"
)

const testSecret = "test-secret-key-that-is-long-enough-for-hs256"

func newTestJWT(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     testSecret,
		Expiration: expiration,
		Issuer:     "movie-catalog",
	})
}

func newSessionRouter(cfg SessionConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/api/private", SessionAuth(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": GetSessionClaims(c).UserID})
	})
	r.GET("/profile", PageGuard(cfg, "/login"), func(c *gin.Context) {
		c.String(http.StatusOK, "profile")
	})
	return r
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.False(t, resp.Success)
	return resp.Error.Code
}

func TestSessionAuth(t *testing.T) {
	jwtService := newTestJWT(time.Hour)
	blacklist := auth.NewInMemoryTokenBlacklist()
	cfg := SessionConfig{JWTService: jwtService, Blacklist: blacklist, CookieName: "session"}
	router := newSessionRouter(cfg)

	userID := uuid.New()
	issued, err := jwtService.Issue(userID, "a@b.com")
	require.NoError(t, err)

	t.Run("session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/private", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: issued.Token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/private", nil)
		req.Header.Set("Authorization", "Bearer "+issued.Token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("raw userId cookie does not authenticate", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/private", nil)
		req.AddCookie(&http.Cookie{Name: "userId", Value: userID.String()})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, w))
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/private", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: issued.Token + "x"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := newTestJWT(-time.Minute).Issue(userID, "a@b.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/private", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: expired.Token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenExpired, errorCode(t, w))
	})

	t.Run("revoked token", func(t *testing.T) {
		revoked, err := jwtService.Issue(userID, "a@b.com")
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), revoked.ID, time.Hour))

		req := httptest.NewRequest(http.MethodGet, "/api/private", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: revoked.Token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, w))
	})
}

func TestPageGuard(t *testing.T) {
	jwtService := newTestJWT(time.Hour)
	router := newSessionRouter(SessionConfig{JWTService: jwtService, CookieName: "session"})

	t.Run("redirects without session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile?tab=reviews", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?next=%2Fprofile%3Ftab%3Dreviews", w.Header().Get("Location"))
	})

	t.Run("serves page with session", func(t *testing.T) {
		issued, err := jwtService.Issue(uuid.New(), "a@b.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: issued.Token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "profile", w.Body.String())
	})
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviecatalog/backend/internal/domain/catalog"
	"github.com/moviecatalog/backend/internal/domain/identity"
	"github.com/moviecatalog/backend/internal/domain/shared"
	"github.com/moviecatalog/backend/internal/interfaces/http/dto"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"email taken", identity.ErrEmailTaken, http.StatusBadRequest, dto.ErrCodeAlreadyExists, identity.ErrEmailTaken.Message},
		{"unknown user", identity.ErrUserNotFound, http.StatusUnauthorized, dto.ErrCodeUserNotFound, identity.ErrUserNotFound.Message},
		{"bad password", identity.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrCodeInvalidCredentials, identity.ErrInvalidCredentials.Message},
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound, shared.ErrNotFound.Message},
		{"movie not found", catalog.ErrMovieNotFound, http.StatusNotFound, dto.ErrCodeNotFound, catalog.ErrMovieNotFound.Message},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden, shared.ErrForbidden.Message},
		{"validation", shared.ErrInvalidInput.WithMessage("Rating is required"), http.StatusBadRequest, dto.ErrCodeValidation, "Rating is required"},
		{"upstream", catalog.ErrUpstream, http.StatusInternalServerError, dto.ErrCodeCatalogUnavailable, catalog.ErrUpstream.Message},
		{"internal keeps message", shared.ErrInternal.WithMessage("Error adding favorite movie"), http.StatusInternalServerError, dto.ErrCodeInternal, "Error adding favorite movie"},
		{"unknown domain code", shared.NewDomainError("SOMETHING_ODD", "leaky detail"), http.StatusInternalServerError, dto.ErrCodeInternal, shared.ErrInternal.Message},
		{"wrapped domain error", fmt.Errorf("service: %w", shared.ErrForbidden), http.StatusForbidden, dto.ErrCodeForbidden, shared.ErrForbidden.Message},
		{"plain error", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrCodeInternal, shared.ErrInternal.Message},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			r := newTestEngine()
			r.GET("/", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := performRequest(r, http.MethodGet, "/", nil, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			info := decodeError(t, w)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.Equal(t, tt.wantMessage, info.Message)
			assert.NotEmpty(t, info.RequestID)
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestBaseHandler_BindJSON(t *testing.T) {
	type request struct {
		Email string     `json:"email" binding:"required"`
		ID    FlexibleID `json:"id"`
	}

	tests := []struct {
		name       string
		body       string
		limit      int64
		wantOK     bool
		wantStatus int
		wantCode   string
	}{
		{name: "valid", body: `{"email":"a@b.com","id":42}`, wantOK: true},
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest, wantCode: dto.ErrCodeValidation},
		{name: "missing field", body: `{}`, wantStatus: http.StatusBadRequest, wantCode: dto.ErrCodeValidation},
		{name: "malformed", body: `{"email":`, wantStatus: http.StatusBadRequest, wantCode: dto.ErrCodeInvalidJSON},
		{name: "truncated string", body: `{"email":"a@b`, wantStatus: http.StatusBadRequest, wantCode: dto.ErrCodeInvalidJSON},
		{name: "not json", body: `email=a@b.com`, wantStatus: http.StatusBadRequest, wantCode: dto.ErrCodeInvalidJSON},
		{name: "wrong type", body: `{"email":7}`, wantStatus: http.StatusBadRequest, wantCode: dto.ErrCodeInvalidJSON},
		{name: "bad id type", body: `{"email":"a@b.com","id":true}`, wantStatus: http.StatusBadRequest, wantCode: dto.ErrCodeValidation},
		{name: "too large", body: `{"email":"` + strings.Repeat("a", 200) + `"}`, limit: 64, wantStatus: http.StatusRequestEntityTooLarge, wantCode: dto.ErrCodeRequestTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			var ok bool
			r := newTestEngine()
			if tt.limit > 0 {
				r.Use(func(c *gin.Context) {
					// no Content-Length check, only the reader limit
					c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, tt.limit)
					c.Next()
				})
			}
			r.POST("/", func(c *gin.Context) {
				var req request
				if ok = h.BindJSON(c, &req); ok {
					c.Status(http.StatusNoContent)
				}
			})

			w := performRequest(r, http.MethodPost, "/", tt.body, "")

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, http.StatusNoContent, w.Code)
				return
			}
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestBaseHandler_BindJSON_ValidationDetails(t *testing.T) {
	h := &BaseHandler{}
	r := newTestEngine()
	r.POST("/", func(c *gin.Context) {
		var req CredentialsRequest
		h.BindJSON(c, &req)
	})

	w := performRequest(r, http.MethodPost, "/", `{"email":"a@b.com"}`, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	info := decodeError(t, w)
	assert.Equal(t, "Missing required fields", info.Message)
	require.Len(t, info.Details, 1)
	assert.Equal(t, "password", info.Details[0].Field)
}

func TestBaseHandler_Actor(t *testing.T) {
	session := newSessionFixture(t)
	h := &BaseHandler{}

	t.Run("without session", func(t *testing.T) {
		r := newTestEngine()
		r.GET("/", func(c *gin.Context) {
			_, ok := h.Actor(c)
			assert.False(t, ok)
		})
		w := performRequest(r, http.MethodGet, "/", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, decodeError(t, w).Code)
	})

	t.Run("with session", func(t *testing.T) {
		r := newTestEngine()
		r.GET("/", session.middleware(), func(c *gin.Context) {
			actor, ok := h.Actor(c)
			require.True(t, ok)
			assert.Equal(t, session.userID, actor.ID)
			assert.Equal(t, session.email, actor.Email)
			c.Status(http.StatusNoContent)
		})
		w := performRequest(r, http.MethodGet, "/", nil, session.token)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

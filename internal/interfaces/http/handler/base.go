// Package handler implements the HTTP handlers of the movie catalog API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appcollection "github.com/moviecatalog/backend/internal/application/collection"
	"github.com/moviecatalog/backend/internal/domain/shared"
	"github.com/moviecatalog/backend/internal/infrastructure/logger"
	"github.com/moviecatalog/backend/internal/interfaces/http/dto"
	"github.com/moviecatalog/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 validation error
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts domain errors to HTTP responses. Anything else is
// logged and reported as a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		message := domainErr.Message
		if code == dto.ErrCodeInternal && domainErr.Code != shared.ErrInternal.Code {
			message = shared.ErrInternal.Message
		}
		h.Error(c, dto.GetHTTPStatus(code), code, message)
		return
	}

	logger.L(c.Request.Context()).Error("Unhandled error", zap.Error(err))
	h.InternalError(c, shared.ErrInternal.Message)
}

// BindJSON decodes the request body into req and answers 400 itself when
// the body is unreadable or fails validation. It reports whether the
// handler may continue.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
	case errors.Is(err, io.EOF):
		h.BadRequest(c, "Missing required fields")
	default:
		if details := middleware.ValidationDetails(err); details != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
				"Missing required fields",
				middleware.GetRequestID(c),
				details,
			))
			return false
		}
		var fieldErr *fieldError
		if errors.As(err, &fieldErr) {
			h.BadRequest(c, fieldErr.Error())
			return false
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		// truncated input surfaces as io.ErrUnexpectedEOF rather than a syntax error
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body is not valid JSON")
			return false
		}
		h.BadRequest(c, "Invalid request body")
	}
	return false
}

// Actor returns the verified session user. It answers 401 itself and
// returns false when the request carries no session.
func (h *BaseHandler) Actor(c *gin.Context) (appcollection.Actor, bool) {
	claims := middleware.GetSessionClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return appcollection.Actor{}, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		h.Unauthorized(c, "Invalid session")
		return appcollection.Actor{}, false
	}
	return appcollection.Actor{ID: id, Email: claims.Email}, true
}

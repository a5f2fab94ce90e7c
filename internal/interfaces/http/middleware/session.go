package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moviecatalog/backend/internal/infrastructure/auth"
	"github.com/moviecatalog/backend/internal/infrastructure/logger"
	"github.com/moviecatalog/backend/internal/interfaces/http/dto"
)

// Session context keys
const (
	SessionClaimsKey = "session_claims"
	AuthHeaderKey    = "Authorization"
	BearerPrefix     = "Bearer "
)

var errNoSession = errors.New("no session token")

// SessionConfig holds what the session middlewares need to verify a token
type SessionConfig struct {
	JWTService *auth.JWTService
	// Blacklist is optional; without it logout cannot revoke tokens
	Blacklist  auth.TokenBlacklist
	CookieName string
	Logger     *zap.Logger
}

// SessionAuth requires a valid session token from the session cookie or an
// Authorization bearer header and stores its claims in the context.
func SessionAuth(cfg SessionConfig) gin.HandlerFunc {
	log := cfg.logger()
	return func(c *gin.Context) {
		claims, err := cfg.authenticate(c)
		if err != nil {
			log.Debug("Session rejected",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", GetRequestID(c)),
			)
			code, message := sessionErrorCode(err)
			abortWithError(c, code, message)
			return
		}

		c.Set(SessionClaimsKey, claims)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// PageGuard redirects requests without a valid session to the login page,
// keeping the requested path in the next parameter.
func PageGuard(cfg SessionConfig, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := cfg.authenticate(c)
		if err != nil {
			target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Set(SessionClaimsKey, claims)
		c.Next()
	}
}

// GetSessionClaims retrieves the verified session claims from gin.Context
func GetSessionClaims(c *gin.Context) *auth.SessionClaims {
	if v, ok := c.Get(SessionClaimsKey); ok {
		if claims, ok := v.(*auth.SessionClaims); ok {
			return claims
		}
	}
	return nil
}

func (cfg SessionConfig) authenticate(c *gin.Context) (*auth.SessionClaims, error) {
	token := extractToken(c, cfg.CookieName)
	if token == "" {
		return nil, errNoSession
	}

	claims, err := cfg.JWTService.Validate(token)
	if err != nil {
		return nil, err
	}

	if cfg.Blacklist != nil && claims.ID != "" {
		revoked, err := cfg.Blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
		if err != nil {
			// fail open: a blacklist outage must not log everyone out
			cfg.logger().Error("Failed to check token blacklist",
				zap.String("jti", claims.ID),
				zap.Error(err),
			)
		} else if revoked {
			return nil, auth.ErrTokenBlacklisted
		}
	}
	return claims, nil
}

func (cfg SessionConfig) logger() *zap.Logger {
	if cfg.Logger == nil {
		return zap.NewNop()
	}
	return cfg.Logger
}

// extractToken prefers the bearer header over the cookie
func extractToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader(AuthHeaderKey); strings.HasPrefix(header, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	}
	if cookieName == "" {
		return ""
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

func sessionErrorCode(err error) (string, string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired, "Session has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return dto.ErrCodeTokenRevoked, "Session has been revoked"
	case errors.Is(err, errNoSession):
		return dto.ErrCodeUnauthorized, "Authentication required"
	default:
		return dto.ErrCodeUnauthorized, "Invalid session"
	}
}

package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moviecatalog/backend/internal/application/identity"
	"github.com/moviecatalog/backend/internal/infrastructure/config"
	"github.com/moviecatalog/backend/internal/interfaces/http/dto"
	"github.com/moviecatalog/backend/internal/interfaces/http/middleware"
)

// UserIDCookie is readable by the front-end for display only. The server
// never authenticates with it.
const UserIDCookie = "userId"

// AuthHandler handles registration, login and the session cookies
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	cookie      config.CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Register creates an account and signs the new user in
//
// @ID           registerUser
// @Summary      Register
// @Description  Create an account and open a session. Sets the session and userId cookies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Email and password"
// @Success      201 {object} SessionResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identity.CredentialsInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookies(c, result)
	c.JSON(http.StatusCreated, SessionResponse{
		Message:   "User registered successfully",
		UserID:    result.UserID.String(),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

// Login verifies credentials and opens a session
//
// @ID           loginUser
// @Summary      Login
// @Description  Verify credentials and open a session. Sets the session and userId cookies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Email and password"
// @Success      200 {object} SessionResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.CredentialsInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookies(c, result)
	c.JSON(http.StatusOK, SessionResponse{
		Message:   "Login successful",
		UserID:    result.UserID.String(),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

// Logout revokes the session token and clears the cookies
//
// @ID           logoutUser
// @Summary      Logout
// @Description  Revoke the session token and clear the cookies
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.MessageResponse
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetSessionClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, _ := claims.GetUserUUID()

	err := h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		UserID:   userID,
		TokenJTI: claims.ID,
		TokenTTL: claims.GetRemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// Me returns the session user
//
// @ID           getCurrentUser
// @Summary      Current user
// @Description  Return the id and email of the session user
// @Tags         auth
// @Produce      json
// @Success      200 {object} CurrentUserResponse
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, CurrentUserResponse{UserID: user.UserID.String(), Email: user.Email})
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, result *identity.AuthResult) {
	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	http.SetCookie(c.Writer, h.newCookie(h.cookie.Name, result.Token, maxAge, true))
	http.SetCookie(c.Writer, h.newCookie(UserIDCookie, result.UserID.String(), maxAge, false))
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	http.SetCookie(c.Writer, h.newCookie(h.cookie.Name, "", -1, true))
	http.SetCookie(c.Writer, h.newCookie(UserIDCookie, "", -1, false))
}

func (h *AuthHandler) newCookie(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	path := h.cookie.Path
	if path == "" {
		path = "/"
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   h.cookie.Domain,
		MaxAge:   maxAge,
		Secure:   h.cookie.Secure,
		HttpOnly: httpOnly,
		SameSite: parseSameSite(h.cookie.SameSite),
	}
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

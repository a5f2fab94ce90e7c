package identity

import (
	"time"

	"github.com/google/uuid"
)

// CredentialsInput carries the email and password of register and login
type CredentialsInput struct {
	Email    string
	Password string
}

// AuthResult is returned after a successful register or login
type AuthResult struct {
	UserID    uuid.UUID
	Email     string
	Token     string
	TokenID   string // jti, needed to revoke the session
	ExpiresAt time.Time
}

// LogoutInput identifies the session token to revoke
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration // remaining lifetime of the token
}

// CurrentUser is the identity behind a verified session
type CurrentUser struct {
	UserID uuid.UUID
	Email  string
}

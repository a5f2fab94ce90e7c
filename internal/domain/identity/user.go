package identity

import (
	"regexp"
	"strings"

	"github.com/moviecatalog/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 10

// bcrypt ignores everything past 72 bytes
const maxPasswordBytes = 72

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Identity errors
var (
	ErrEmailTaken         = shared.NewDomainError("EMAIL_TAKEN", "User already exists")
	ErrUserNotFound       = shared.NewDomainError("USER_NOT_FOUND", "User not found")
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid credentials")
)

// User is a registered account. Only the bcrypt hash of the password is kept.
type User struct {
	shared.BaseEntity
	Email        string
	PasswordHash string
}

// NewUser validates the credentials and returns a user with a hashed password
func NewUser(email, password string) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: passwordHash,
	}, nil
}

// VerifyPassword checks if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.ErrInvalidInput.WithMessage("Email and password are required")
	}
	if len(email) > 254 {
		return shared.ErrInvalidInput.WithMessage("Email cannot exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.ErrInvalidInput.WithMessage("Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.ErrInvalidInput.WithMessage("Email and password are required")
	}
	if len(password) > maxPasswordBytes {
		return shared.ErrInvalidInput.WithMessage("Password cannot exceed 72 bytes")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

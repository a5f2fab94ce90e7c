// Package identity implements account registration and session handling.
package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moviecatalog/backend/internal/domain/identity"
	"github.com/moviecatalog/backend/internal/domain/shared"
	"github.com/moviecatalog/backend/internal/infrastructure/auth"
	"github.com/moviecatalog/backend/internal/infrastructure/logger"
	"github.com/moviecatalog/backend/internal/infrastructure/telemetry"
)

var errMissingCredentials = shared.ErrInvalidInput.WithMessage("Email and password are required")

// AuthService handles registration, login and session revocation
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Register creates an account and opens a session for it
func (s *AuthService) Register(ctx context.Context, input CredentialsInput) (*AuthResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "register")
	defer span.End()
	log := s.log(ctx)

	if identity.NormalizeEmail(input.Email) == "" || input.Password == "" {
		return nil, errMissingCredentials
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		telemetry.RecordError(span, err)
		log.Error("Failed to check email availability", zap.Error(err))
		return nil, shared.ErrInternal.WithMessage("Error registering user")
	}
	if exists {
		log.Info("Registration with existing email")
		return nil, identity.ErrEmailTaken
	}

	user, err := identity.NewUser(input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return nil, identity.ErrEmailTaken
		}
		telemetry.RecordError(span, err)
		log.Error("Failed to create user", zap.Error(err))
		return nil, shared.ErrInternal.WithMessage("Error registering user")
	}

	log.Info("User registered", zap.String("user_id", user.ID.String()))
	return s.openSession(ctx, user)
}

// Login verifies the credentials and opens a session
func (s *AuthService) Login(ctx context.Context, input CredentialsInput) (*AuthResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer span.End()
	log := s.log(ctx)

	if identity.NormalizeEmail(input.Email) == "" || input.Password == "" {
		return nil, errMissingCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			log.Info("Login for unknown email")
			return nil, identity.ErrUserNotFound
		}
		telemetry.RecordError(span, err)
		log.Error("Failed to load user for login", zap.Error(err))
		return nil, shared.ErrInternal.WithMessage("Error logging in")
	}

	if !user.VerifyPassword(input.Password) {
		log.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, identity.ErrInvalidCredentials
	}

	log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.openSession(ctx, user)
}

// Logout revokes the session token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "logout")
	defer span.End()

	if input.TokenJTI == "" {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenTTL); err != nil {
		telemetry.RecordError(span, err)
		s.log(ctx).Error("Failed to revoke session token", zap.Error(err))
		return shared.ErrInternal.WithMessage("Error logging out")
	}
	s.log(ctx).Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// Me returns the account behind a verified session
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*CurrentUser, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "me")
	defer span.End()

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, identity.ErrUserNotFound
		}
		telemetry.RecordError(span, err)
		return nil, shared.ErrInternal
	}
	return &CurrentUser{UserID: user.ID, Email: user.Email}, nil
}

func (s *AuthService) openSession(ctx context.Context, user *identity.User) (*AuthResult, error) {
	token, err := s.jwtService.Issue(user.ID, user.Email)
	if err != nil {
		s.log(ctx).Error("Failed to sign session token", zap.Error(err))
		return nil, shared.ErrInternal.WithMessage("Failed to create session")
	}
	return &AuthResult{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     token.Token,
		TokenID:   token.ID,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

func (s *AuthService) log(ctx context.Context) *zap.Logger {
	if id := logger.GetRequestID(ctx); id != "" {
		return s.logger.With(zap.String("request_id", id))
	}
	return s.logger
}

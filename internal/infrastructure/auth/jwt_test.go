package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/moviecatalog/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars!!"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     testSecret,
		Expiration: time.Hour,
		Issuer:     "movie-catalog",
	})
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	issued, err := svc.Issue(userID, "a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.NotEmpty(t, issued.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.ExpiresAt, 5*time.Second)

	claims, err := svc.Validate(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, issued.ID, claims.ID)

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
	assert.Greater(t, claims.GetRemainingTTL(), 59*time.Minute)
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	first, err := svc.Issue(userID, "a@x.com")
	require.NoError(t, err)
	second, err := svc.Issue(userID, "a@x.com")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Token, second.Token)
}

func TestValidate_Expired(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	issued, err := svc.Issue(uuid.New(), "a@x.com")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Validate(issued.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_NotYetValid(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(10 * time.Minute) }

	issued, err := svc.Issue(uuid.New(), "a@x.com")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Validate(issued.Token)
	assert.ErrorIs(t, err, ErrTokenNotYetValid)
}

func TestValidate_Rejects(t *testing.T) {
	svc := newTestJWTService()
	issued, err := svc.Issue(uuid.New(), "a@x.com")
	require.NoError(t, err)

	otherKey := NewJWTService(config.JWTConfig{Secret: "another-secret-key-of-32-characters", Expiration: time.Hour, Issuer: "movie-catalog"})
	otherIssued, err := otherKey.Issue(uuid.New(), "b@x.com")
	require.NoError(t, err)

	otherIssuer := NewJWTService(config.JWTConfig{Secret: testSecret, Expiration: time.Hour, Issuer: "someone-else"})
	foreign, err := otherIssuer.Issue(uuid.New(), "c@x.com")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "movie-catalog",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: uuid.NewString(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"empty", ""},
		{"tampered", issued.Token + "x"},
		{"wrong key", otherIssued.Token},
		{"wrong issuer", foreign.Token},
		{"none algorithm", noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidate_MissingUserID(t *testing.T) {
	svc := newTestJWTService()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "movie-catalog",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestValidate_MalformedUserID(t *testing.T) {
	svc := newTestJWTService()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "movie-catalog",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "42",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestGetRemainingTTL_Expired(t *testing.T) {
	claims := &SessionClaims{}
	assert.Zero(t, claims.GetRemainingTTL())

	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	assert.Zero(t, claims.GetRemainingTTL())
}

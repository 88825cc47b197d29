package service

import (
	"context"
	"testing"
	"time"

	"massimino/fitness-platform/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func newAuthFixture() (AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewAuthService(repo, testJWTSecret, time.Hour), repo
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	svc, repo := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Athlete", "a@example.com", "secret123", domain.RoleAthlete)
	require.NoError(t, err)
	require.Empty(t, user.PasswordHash)

	// The stored hash is not the plaintext password.
	stored, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, stored.PasswordHash)
	require.NotEqual(t, "secret123", stored.PasswordHash)

	token, loggedIn, err := svc.Login(ctx, "a@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)
	require.Empty(t, loggedIn.PasswordHash)

	// The token carries the user id and role as uid/role claims.
	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	require.Equal(t, user.ID.Hex(), claims.UserID)
	require.Equal(t, domain.RoleAthlete, claims.Role)
}

func TestAuth_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "First", "a@example.com", "secret123", domain.RoleAthlete)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Second", "a@example.com", "other456", domain.RoleTrainer)
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuth_LoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Athlete", "a@example.com", "secret123", domain.RoleAthlete)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@example.com", "wrong")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuth_LoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuth_RegisterDeviceToken(t *testing.T) {
	svc, repo := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Athlete", "a@example.com", "secret123", domain.RoleAthlete)
	require.NoError(t, err)

	require.NoError(t, svc.RegisterDeviceToken(ctx, user.ID.Hex(), "device-token-1"))
	require.Error(t, svc.RegisterDeviceToken(ctx, "not-a-hex-id", "device-token-2"))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"device-token-1"}, stored.DeviceTokens)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *ProfileService) {
	t.Helper()
	db := setupTestDB(t)
	profiles := NewProfileService(db, nil)
	return NewAuthService(profiles, nil, "test-secret"), profiles
}

func TestRegisterCreatesPendingProfile(t *testing.T) {
	auth, profiles := newAuthService(t)
	ctx := context.Background()

	token, profile, err := auth.Register(ctx, "Asha", "asha@x.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, profile.IsVerified)
	assert.False(t, profile.IsAdmin)
	assert.NotEqual(t, "password123", profile.PasswordHash)

	stored, err := profiles.GetProfileByEmail(ctx, "asha@x.com")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, stored.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := auth.Register(ctx, "Asha", "asha@x.com", "password123")
	require.NoError(t, err)

	_, _, err = auth.Register(ctx, "Other", "asha@x.com", "different456")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestLogin(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := auth.Register(ctx, "Asha", "asha@x.com", "password123")
	require.NoError(t, err)

	token, err := auth.Login(ctx, "asha@x.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = auth.Login(ctx, "asha@x.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody@x.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	_, profile, err := auth.Register(ctx, "Asha", "asha@x.com", "password123")
	require.NoError(t, err)

	profile.IsAdmin = true
	token, err := auth.GenerateToken(profile)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, claims.UserID)
	assert.Equal(t, "asha@x.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestValidateTokenInvalid(t *testing.T) {
	auth, _ := newAuthService(t)

	claims, err := auth.ValidateToken("not.a.token")
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

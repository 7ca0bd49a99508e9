package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gradeplanner/backend/internal/config"
	"github.com/gradeplanner/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  time.Minute,
			RefreshExpiry: time.Hour,
		},
		Argon2: config.Argon2Config{
			Memory:      1024,
			Iterations:  1,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
	}
}

func TestAuthService_Passwords(t *testing.T) {
	svc := NewAuthService(nil, testAuthConfig())

	hash, err := svc.HashPassword("Study@123")
	require.NoError(t, err)

	ok, err := svc.VerifyPassword(hash, "Study@123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthService_AccessToken(t *testing.T) {
	svc := NewAuthService(nil, testAuthConfig())
	user := &models.User{BaseModel: models.BaseModel{ID: uuid.New()}, Email: "s@uni.test", Role: models.RoleStudent}

	token, err := svc.SignAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)

	other := NewAuthService(nil, &config.Config{JWT: config.JWTConfig{Secret: "different", AccessExpiry: time.Minute}})
	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

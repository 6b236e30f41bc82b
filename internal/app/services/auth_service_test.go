package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schedulepro/internal/pkg/apperrors"
	"github.com/yigit/schedulepro/internal/pkg/auth"
)

func TestAuthServiceLogin(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: 15 * time.Minute,
		TokenIssuer:    "schedulepro-test",
	})
	svc := NewAuthService(jwtService, "admin", hash)

	resp, err := svc.Login("admin", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 900, resp.ExpiresIn)

	claims, err := jwtService.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, auth.RoleAdmin, claims.RoleType)

	_, err = svc.Login("admin", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login("root", "correct-horse")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

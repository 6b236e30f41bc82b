package services

import (
	"github.com/yigit/schedulepro/internal/app/models/dto"
	"github.com/yigit/schedulepro/internal/pkg/apperrors"
	"github.com/yigit/schedulepro/internal/pkg/auth"
	"github.com/yigit/schedulepro/internal/pkg/logger"
)

// AuthService defines the interface for admin authentication
type AuthService interface {
	Login(username, password string) (*dto.TokenResponse, error)
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	jwtService        *auth.JWTService
	adminUsername     string
	adminPasswordHash string
}

// NewAuthService creates a new auth service instance
func NewAuthService(jwtService *auth.JWTService, adminUsername, adminPasswordHash string) AuthService {
	return &authServiceImpl{
		jwtService:        jwtService,
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
	}
}

// Login verifies the admin credentials and issues an access token.
func (s *authServiceImpl) Login(username, password string) (*dto.TokenResponse, error) {
	if username != s.adminUsername || !auth.CheckPassword(s.adminPasswordHash, password) {
		logger.Warn().Str("username", username).Msg("Failed admin login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, expiresIn, err := s.jwtService.GenerateToken(username)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("username", username).Msg("Admin logged in")

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}, nil
}

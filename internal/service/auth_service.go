package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hiresync/validation-queue-api/internal/models"
	"github.com/hiresync/validation-queue-api/pkg/config"
	appErrors "github.com/hiresync/validation-queue-api/pkg/errors"
)

// AuthService validates access tokens issued by the external identity
// provider. Login, credential storage and role administration live there,
// not here; this service only reads the validator identity off the token.
type AuthService struct {
	cfg config.JWTConfig
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.JWTConfig) *AuthService {
	return &AuthService{cfg: cfg}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

package auth

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"famtree/internal/config"
	"famtree/internal/domain"
	"famtree/internal/domain/models"
)

// HMACTokenService issues and verifies HS256 tokens with a shared secret.
type HMACTokenService struct {
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
}

// NewHMACTokenService creates a token service signing with the given secret.
func NewHMACTokenService(secret string, logger *slog.Logger) *HMACTokenService {
	return &HMACTokenService{
		secret: []byte(secret),
		ttl:    config.TokenTTL,
		logger: logger,
	}
}

// IssueToken signs a token carrying the principal's identity and role.
func (s *HMACTokenService) IssueToken(user *models.AuthUser) (string, error) {
	now := time.Now()
	claims := &models.TokenClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		TenantID: user.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken validates a token and extracts its claims.
func (s *HMACTokenService) VerifyToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Prevent algorithm confusion attacks - allow only HS256
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		s.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}

	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if claims.UserID == "" {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

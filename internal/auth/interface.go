package auth

import "famtree/internal/domain/models"

// TokenVerifier validates bearer tokens. The abstraction keeps the
// middleware agnostic to how tokens are signed.
type TokenVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.TokenClaims, error)
}

// TokenIssuer signs tokens for authenticated principals.
type TokenIssuer interface {
	IssueToken(user *models.AuthUser) (string, error)
}

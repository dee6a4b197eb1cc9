package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/inkvault/inkvault-backend/pkg/enums"
)

// AccessTokenClaims represents the typed JWT minted by the identity provider.
// This service only verifies tokens; it never issues them.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"user_id"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

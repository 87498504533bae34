package types

import "github.com/google/uuid"

// TokenClaims holds the identity extracted from a validated JWT.
type TokenClaims struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}

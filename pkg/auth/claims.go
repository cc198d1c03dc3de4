package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/praveen037/agriconnect/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    string
	SessionID string
	Role      enums.Role
}

// AccessTokenClaims represents the typed JWT issued to clients. The token is
// a pointer into the session store; the identity itself lives server-side.
type AccessTokenClaims struct {
	UserID string     `json:"user_id"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}

package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims carry the authenticated identity inside a signed JWT.
type AccessTokenClaims struct {
	UserID  uuid.UUID `json:"uid"`
	Name    string    `json:"name,omitempty"`
	IsAdmin bool      `json:"adm,omitempty"`
	jwt.RegisteredClaims
}

package auth

import (
	"time"
)

// AccessClaims are the claims carried by a PASETO v4.local access token
// minted by the identity provider. The only application claim is user_id;
// older tokens omit it, in which case the subject claim is the user id.
type AccessClaims struct {
	// Registered PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`

	UserID string `json:"user_id"`
}

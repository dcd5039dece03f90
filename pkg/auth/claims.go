package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// IDTokenClaims mirrors the payload of a Firebase Authentication ID token.
type IDTokenClaims struct {
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
	Picture       string `json:"picture,omitempty"`
	AuthTime      int64  `json:"auth_time,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// UID returns the Firebase user id, which Firebase stores in sub.
func (c *IDTokenClaims) UID() string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Subject)
}

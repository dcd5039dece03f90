package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuerPrefix = "https://securetoken.google.com/"

var jwtSigningMethod = jwt.SigningMethodRS256

var (
	ErrMissingKeyID   = errors.New("id token has no kid header")
	ErrMissingSubject = errors.New("id token has no subject")
)

// KeySource resolves the public key that signed a token.
type KeySource interface {
	PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// Issuer returns the expected iss claim for a Firebase project.
func Issuer(projectID string) string {
	return issuerPrefix + projectID
}

// ParseIDToken validates a Firebase ID token and returns typed claims.
// The token must be RS256, carry a kid known to keys, target projectID as
// audience, be issued by the project's securetoken issuer, and not be expired.
func ParseIDToken(ctx context.Context, keys KeySource, projectID, tokenString string, now func() time.Time) (*IDTokenClaims, error) {
	if keys == nil {
		return nil, fmt.Errorf("key source is required")
	}
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("project id is required")
	}
	if now == nil {
		now = time.Now
	}

	claims := &IDTokenClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithAudience(projectID),
		jwt.WithIssuer(Issuer(projectID)),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(now),
	)
	_, err := parser.ParseWithClaims(
		strings.TrimSpace(tokenString),
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			kid, _ := token.Header["kid"].(string)
			if kid == "" {
				return nil, ErrMissingKeyID
			}
			return keys.PublicKey(ctx, kid)
		},
	)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testProject = "storefront-test"

type staticKeys map[string]*rsa.PublicKey

func (s staticKeys) PublicKey(_ context.Context, kid string) (*rsa.PublicKey, error) {
	key, ok := s[kid]
	if !ok {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	return key, nil
}

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func sign(t *testing.T, key *rsa.PrivateKey, kid string, claims IDTokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims(now time.Time) IDTokenClaims {
	return IDTokenClaims{
		Email: "jane@example.com",
		Name:  "Jane Doe",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "uid-123",
			Audience:  jwt.ClaimStrings{testProject},
			Issuer:    Issuer(testProject),
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestParseIDToken(t *testing.T) {
	key := newKey(t)
	keys := staticKeys{"k1": &key.PublicKey}
	now := time.Now().UTC()

	raw := sign(t, key, "k1", validClaims(now))
	claims, err := ParseIDToken(context.Background(), keys, testProject, raw, func() time.Time { return now })
	if err != nil {
		t.Fatalf("parse id token: %v", err)
	}
	if claims.UID() != "uid-123" {
		t.Fatalf("unexpected uid %q", claims.UID())
	}
	if claims.Email != "jane@example.com" || claims.Name != "Jane Doe" {
		t.Fatalf("unexpected profile claims %+v", claims)
	}
}

func TestParseIDTokenRejects(t *testing.T) {
	key := newKey(t)
	other := newKey(t)
	keys := staticKeys{"k1": &key.PublicKey}
	now := time.Now().UTC()
	clock := func() time.Time { return now }

	wrongAudience := validClaims(now)
	wrongAudience.Audience = jwt.ClaimStrings{"other-project"}

	wrongIssuer := validClaims(now)
	wrongIssuer.Issuer = "https://accounts.google.com"

	expired := validClaims(now)
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))

	noSubject := validClaims(now)
	noSubject.Subject = ""

	cases := []struct {
		name string
		raw  string
		want error
	}{
		{name: "wrong audience", raw: sign(t, key, "k1", wrongAudience)},
		{name: "wrong issuer", raw: sign(t, key, "k1", wrongIssuer)},
		{name: "expired", raw: sign(t, key, "k1", expired), want: jwt.ErrTokenExpired},
		{name: "missing subject", raw: sign(t, key, "k1", noSubject), want: ErrMissingSubject},
		{name: "missing kid", raw: sign(t, key, "", validClaims(now)), want: ErrMissingKeyID},
		{name: "unknown kid", raw: sign(t, key, "k2", validClaims(now))},
		{name: "wrong key", raw: sign(t, other, "k1", validClaims(now)), want: jwt.ErrTokenSignatureInvalid},
		{name: "garbage", raw: "not-a-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseIDToken(context.Background(), keys, testProject, tc.raw, clock)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseIDTokenRejectsHS256(t *testing.T) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims(now))
	token.Header["kid"] = "k1"
	raw, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	key := newKey(t)
	if _, err := ParseIDToken(context.Background(), staticKeys{"k1": &key.PublicKey}, testProject, raw, nil); err == nil {
		t.Fatal("expected HS256 token to be rejected")
	}
}

func TestParseIDTokenRequiresProject(t *testing.T) {
	if _, err := ParseIDToken(context.Background(), staticKeys{}, "", "x", nil); err == nil {
		t.Fatal("expected error without project id")
	}
}

package identity

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNoCredential is returned when an authenticated identity has no usable token.
var ErrNoCredential = errors.New("no credential available")

// Identity is the authenticated shopper. A nil *Identity means a guest.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// IsGuest reports whether id represents an unauthenticated shopper.
func (id *Identity) IsGuest() bool {
	return id == nil || strings.TrimSpace(id.UID) == ""
}

// Credential is the bearer token attached to outbound order requests.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// CredentialFetcher yields the credential for the current request.
type CredentialFetcher interface {
	Fetch(ctx context.Context) (string, error)
}

type ctxKey int

const (
	ctxIdentity ctxKey = iota
	ctxCredential
)

// WithIdentity stores the authenticated identity and its credential.
func WithIdentity(ctx context.Context, id *Identity, cred Credential) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxIdentity, id)
	return context.WithValue(ctx, ctxCredential, cred)
}

// FromContext returns the identity on ctx, or nil for guests.
func FromContext(ctx context.Context) *Identity {
	if ctx == nil {
		return nil
	}
	if id, ok := ctx.Value(ctxIdentity).(*Identity); ok && !id.IsGuest() {
		return id
	}
	return nil
}

// ContextCredentials fetches the bearer token the caller authenticated with.
type ContextCredentials struct {
	Now func() time.Time
}

// Fetch returns the request credential, failing when it is absent or expired.
func (c ContextCredentials) Fetch(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", ErrNoCredential
	}
	cred, ok := ctx.Value(ctxCredential).(Credential)
	if !ok || strings.TrimSpace(cred.Token) == "" {
		return "", ErrNoCredential
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	if !cred.ExpiresAt.IsZero() && !now().Before(cred.ExpiresAt) {
		return "", errors.New("credential expired")
	}
	return cred.Token, nil
}

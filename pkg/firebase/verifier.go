package firebase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-checkout/pkg/auth"
	"github.com/angelmondragon/storefront-checkout/pkg/config"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
)

var (
	ErrProjectIDRequired = errors.New("firebase project id is required")
	ErrInvalidToken      = errors.New("invalid firebase id token")
)

// Token is the verified identity carried by a Firebase ID token.
type Token struct {
	UID         string
	Email       string
	DisplayName string
	ExpiresAt   time.Time
}

// Verifier validates Firebase ID tokens for one project.
type Verifier struct {
	projectID string
	keys      auth.KeySource
	now       func() time.Time
}

// Option configures optional verifier behavior.
type Option func(*options)

type options struct {
	httpClient *http.Client
	keys       auth.KeySource
	now        func() time.Time
}

// WithHTTPClient overrides the client used to fetch signing certificates.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithKeySource replaces the certificate fetcher.
func WithKeySource(keys auth.KeySource) Option {
	return func(o *options) {
		if keys != nil {
			o.keys = keys
		}
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New bootstraps the Firebase verifier. Every unset Firebase variable is
// reported at error level; only a missing project id is fatal.
func New(ctx context.Context, cfg config.FirebaseConfig, logg *logger.Logger, opts ...Option) (*Verifier, error) {
	if missing := Missing(cfg); len(missing) > 0 && logg != nil {
		logg.Error(
			logg.WithField(ctx, "missing", missing),
			"missing firebase env variables",
			fmt.Errorf("%d firebase variables unset", len(missing)),
		)
	}

	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, ErrProjectIDRequired
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.keys == nil {
		o.keys = NewCertSource(o.httpClient, cfg.CertsURL)
	}

	return &Verifier{projectID: projectID, keys: o.keys, now: o.now}, nil
}

// ProjectID returns the Firebase project tokens must be issued for.
func (v *Verifier) ProjectID() string {
	return v.projectID
}

// Verify checks idToken and returns the identity it carries. Every failure
// wraps ErrInvalidToken.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*Token, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	claims, err := auth.ParseIDToken(ctx, v.keys, v.projectID, idToken, v.now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	token := &Token{
		UID:         claims.UID(),
		Email:       strings.TrimSpace(claims.Email),
		DisplayName: strings.TrimSpace(claims.Name),
	}
	if claims.ExpiresAt != nil {
		token.ExpiresAt = claims.ExpiresAt.Time
	}
	return token, nil
}

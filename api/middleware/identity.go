package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-checkout/api/responses"
	"github.com/angelmondragon/storefront-checkout/api/validators"
	"github.com/angelmondragon/storefront-checkout/internal/identity"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/firebase"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
)

// TokenVerifier validates Firebase ID tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*firebase.Token, error)
}

// Identity resolves the optional bearer token into the request identity.
// Requests without a token continue as guests; invalid tokens get a 401.
func Identity(verifier TokenVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid credentials"))
				return
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			if verifier == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign-in is not available"))
				return
			}

			verified, err := verifier.Verify(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := identity.WithIdentity(r.Context(), &identity.Identity{
				UID:         verified.UID,
				Email:       verified.Email,
				DisplayName: verified.DisplayName,
			}, identity.Credential{Token: token, ExpiresAt: verified.ExpiresAt})
			if logg != nil {
				ctx = logg.WithUserID(ctx, verified.UID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects guests.
func RequireUser(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity.FromContext(r.Context()) == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

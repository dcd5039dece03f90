package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-checkout/api/responses"
	"github.com/angelmondragon/storefront-checkout/internal/cart"
	"github.com/angelmondragon/storefront-checkout/internal/identity"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
)

const cartSessionHeader = "X-Cart-Session"

// CartOwner resolves whose cart the request addresses: the signed-in user, or
// the guest session named by X-Cart-Session. Must run after Identity.
func CartOwner(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var owner cart.Owner
			if id := identity.FromContext(r.Context()); id != nil {
				owner = cart.UserOwner(id.UID)
			} else {
				session := strings.TrimSpace(r.Header.Get(cartSessionHeader))
				if session == "" {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session required").
						WithDetails(map[string]any{"field": cartSessionHeader}))
					return
				}
				guest, err := cart.GuestOwner(session)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				owner = guest
			}

			ctx := WithCartOwner(r.Context(), owner)
			if logg != nil {
				ctx = logg.WithCartOwner(ctx, owner.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-checkout/api/middleware"
	"github.com/angelmondragon/storefront-checkout/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
)

func cartOwnerFromRequest(r *http.Request) (cart.Owner, error) {
	owner, ok := middleware.CartOwnerFromContext(r.Context())
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart session required")
	}
	return owner, nil
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-checkout/api/responses"
	"github.com/angelmondragon/storefront-checkout/api/validators"
	cartsvc "github.com/angelmondragon/storefront-checkout/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
)

const maxProductIDLength = 128

type addCartItemRequest struct {
	ProductID string `json:"productId" validate:"required,max=128"`
	Quantity  int    `json:"quantity" validate:"gt=0,max=999"`
}

// CartView returns the projected cart of the request owner.
func CartView(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, owner cartsvc.Owner) (*cartsvc.View, error) {
		return svc.View(r.Context(), owner)
	})
}

// CartAddItem adds quantity units of a catalog product.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, owner cartsvc.Owner) (*cartsvc.View, error) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.Add(r.Context(), owner, validators.SanitizeString(payload.ProductID, maxProductIDLength), payload.Quantity)
	})
}

// CartDecrementItem lowers a line by one unit; a single unit stays.
func CartDecrementItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, owner cartsvc.Owner) (*cartsvc.View, error) {
		productID, err := productIDParam(r)
		if err != nil {
			return nil, err
		}
		return svc.Decrement(r.Context(), owner, productID)
	})
}

// CartRemoveItem drops a line from the cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, owner cartsvc.Owner) (*cartsvc.View, error) {
		productID, err := productIDParam(r)
		if err != nil {
			return nil, err
		}
		return svc.Remove(r.Context(), owner, productID)
	})
}

func cartHandler(svc cartsvc.Service, logg *logger.Logger, fn func(*http.Request, cartsvc.Owner) (*cartsvc.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwnerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := fn(r, owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func productIDParam(r *http.Request) (string, error) {
	productID := validators.SanitizeString(chi.URLParam(r, "productId"), maxProductIDLength)
	if productID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product id required").
			WithDetails(map[string]any{"field": "productId"})
	}
	return productID, nil
}

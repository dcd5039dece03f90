package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-checkout/api/responses"
	"github.com/angelmondragon/storefront-checkout/api/validators"
	"github.com/angelmondragon/storefront-checkout/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
)

var productLimit = validators.IntRange{Default: 100, Min: 1, Max: 500}

type productLister interface {
	List(ctx context.Context) ([]catalog.Product, error)
}

// ProductsList returns the active catalog, up to ?limit= products.
func ProductsList(svc productLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		limit, err := validators.QueryInt(r, "limit", productLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(products) > limit {
			products = products[:limit]
		}
		responses.WriteSuccess(w, products)
	}
}

package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-checkout/api/responses"
	"github.com/angelmondragon/storefront-checkout/internal/shipping"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
)

type shippingResponse struct {
	Configured    bool              `json:"configured"`
	Setting       *shipping.Setting `json:"setting,omitempty"`
	EstimatedDays string            `json:"estimatedDays"`
}

// ShippingSettings returns the current shipping rules.
func ShippingSettings(provider shipping.Provider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping unavailable"))
			return
		}

		setting, err := provider.Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shippingResponse{
			Configured:    setting != nil,
			Setting:       setting,
			EstimatedDays: shipping.EstimatedDays(setting),
		})
	}
}

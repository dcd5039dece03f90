package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-checkout/api/responses"
	"github.com/angelmondragon/storefront-checkout/api/validators"
	checkoutsvc "github.com/angelmondragon/storefront-checkout/internal/checkout"
	"github.com/angelmondragon/storefront-checkout/internal/identity"
	"github.com/angelmondragon/storefront-checkout/internal/orders"
	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
)

// CheckoutSummary returns the projected cart, shipping and saved addresses.
func CheckoutSummary(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		owner, err := cartOwnerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), owner, identity.FromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// CheckoutSubmit places the order for the current cart.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		owner, err := cartOwnerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload submitOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := svc.Submit(r.Context(), owner, identity.FromContext(r.Context()), payload.toForm())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, outcome)
	}
}

type submitOrderRequest struct {
	Name      string  `json:"name" validate:"max=200"`
	Email     string  `json:"email" validate:"max=320"`
	Phone     string  `json:"phone" validate:"max=40"`
	PhoneCode string  `json:"phoneCode" validate:"max=10"`
	Street    string  `json:"street" validate:"max=300"`
	City      string  `json:"city" validate:"max=120"`
	District  string  `json:"district" validate:"max=120"`
	State     string  `json:"state" validate:"max=120"`
	Country   string  `json:"country" validate:"max=120"`
	Zip       string  `json:"zip" validate:"max=20"`
	Pincode   string  `json:"pincode" validate:"max=20"`
	Note      string  `json:"note" validate:"max=1000"`
	Payment   *string `json:"payment"`
	AddressID string  `json:"addressId" validate:"max=64"`
}

// toForm applies the page default: an omitted payment method is cash on delivery.
func (p submitOrderRequest) toForm() orders.OrderForm {
	payment := string(enums.PaymentMethodCOD)
	if p.Payment != nil {
		payment = *p.Payment
	}
	return orders.OrderForm{
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		PhoneCode: p.PhoneCode,
		Street:    p.Street,
		City:      p.City,
		District:  p.District,
		State:     p.State,
		Country:   p.Country,
		Zip:       p.Zip,
		Pincode:   p.Pincode,
		Note:      p.Note,
		Payment:   payment,
		AddressID: p.AddressID,
	}
}

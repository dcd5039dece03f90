package shipping

import (
	"github.com/angelmondragon/storefront-checkout/internal/cart"
	"github.com/shopspring/decimal"
)

const (
	LabelFree     = "Free Shipping"
	LabelStandard = "Standard Shipping"

	DefaultEstimatedDays = "2-5"
)

// Setting is the delivery fee rule set.
type Setting struct {
	Enabled               bool            `json:"enabled"`
	FlatFee               decimal.Decimal `json:"flatFee"`
	PerItemFee            decimal.Decimal `json:"perItemFee"`
	FreeShippingThreshold decimal.Decimal `json:"freeShippingThreshold"`
	MaxFee                decimal.Decimal `json:"maxFee"`
	EstimatedDays         string          `json:"estimatedDays"`
}

// Calculate returns the shipping fee for items under setting. It is zero for
// an empty cart, an absent or disabled setting, or a subtotal at or above a
// positive free-shipping threshold. Otherwise it is the flat fee plus the
// per-item fee for every unit, capped at a positive MaxFee and never negative.
func Calculate(items []cart.LineItem, setting *Setting) decimal.Decimal {
	if len(items) == 0 || setting == nil || !setting.Enabled {
		return decimal.Zero
	}

	subtotal := cart.Subtotal(items)
	if setting.FreeShippingThreshold.IsPositive() && subtotal.GreaterThanOrEqual(setting.FreeShippingThreshold) {
		return decimal.Zero
	}

	units := decimal.NewFromInt(int64(cart.Quantity(items)))
	fee := setting.FlatFee.Add(setting.PerItemFee.Mul(units))
	if setting.MaxFee.IsPositive() && fee.GreaterThan(setting.MaxFee) {
		fee = setting.MaxFee
	}
	if fee.IsNegative() {
		return decimal.Zero
	}
	return fee
}

// Label returns the display name for a fee.
func Label(fee decimal.Decimal) string {
	if fee.IsZero() {
		return LabelFree
	}
	return LabelStandard
}

// EstimatedDays returns the delivery window advertised by setting.
func EstimatedDays(setting *Setting) string {
	if setting == nil || setting.EstimatedDays == "" {
		return DefaultEstimatedDays
	}
	return setting.EstimatedDays
}

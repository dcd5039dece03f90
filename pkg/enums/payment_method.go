package enums

import "strings"

// PaymentMethod is the payment option picked on the checkout form.
type PaymentMethod string

// PaymentMethodCOD is the form value for cash on delivery, preselected on the page.
const PaymentMethodCOD PaymentMethod = "cod"

// PaymentCodeCOD is the wire code the order API expects for cash on delivery.
const PaymentCodeCOD = "COD"

// Code returns the value sent to the order API: cash on delivery maps to
// "COD" and anything else is upper-cased verbatim.
func (p PaymentMethod) Code() string {
	if strings.EqualFold(strings.TrimSpace(string(p)), string(PaymentMethodCOD)) {
		return PaymentCodeCOD
	}
	return strings.ToUpper(string(p))
}

package orders

import (
	"errors"
	"fmt"

	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
)

// Validation sentinels, matched with errors.Is.
var (
	ErrEmptyCart                 = errors.New("empty cart")
	ErrMissingPaymentMethod      = errors.New("missing payment method")
	ErrIncompleteShippingDetails = errors.New("incomplete shipping details")
)

const (
	MessageEmptyCart       = "Your cart is empty."
	MessageMissingPayment  = "Please select a payment method."
	MessageIncompleteGuest = "Please fill all required shipping details."
	MessageOrderFailed     = "Order failed. Please try again."
)

func validationError(sentinel error, message string) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, sentinel, message)
}

// NetworkError is a transport failure reaching the order API.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("order api unreachable: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// ServerRejectionError is a non-2xx answer from the order API.
type ServerRejectionError struct {
	Status  int
	Message string
}

func (e *ServerRejectionError) Error() string {
	return fmt.Sprintf("order api rejected order: status %d: %s", e.Status, e.Message)
}

// UnparsableResponseError is a 2xx answer without a readable order id.
type UnparsableResponseError struct {
	Status int
	Body   string
	Err    error
}

func (e *UnparsableResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("order api response unparsable: %v", e.Err)
	}
	return "order api response has no order id"
}

func (e *UnparsableResponseError) Unwrap() error { return e.Err }

// rejectionMessage picks the user-facing text of a rejected order: the JSON
// message field, else the JSON error field, else the raw body, else the
// generic failure message.
func rejectionMessage(body []byte) string {
	if msg := messageFromBody(body); msg != "" {
		return msg
	}
	return MessageOrderFailed
}

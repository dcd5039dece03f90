package checkout

import (
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-checkout/internal/orders"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
)

// ErrSubmissionInFlight is returned when the owner already has a submission running.
var ErrSubmissionInFlight = errors.New("order submission already in flight")

const (
	MessageInFlight   = "Your order is already being placed."
	MessageCredential = "Please sign in again to place your order."
)

const (
	reasonValidation = "validation"
	reasonCredential = "credential"
	reasonNetwork    = "network"
	reasonRejected   = "rejected"
	reasonUnparsable = "unparsable"
	reasonUnknown    = "error"
	reasonSucceeded  = "succeeded"
)

// CredentialFetchError wraps a failure to obtain the bearer token of an
// authenticated shopper.
type CredentialFetchError struct {
	Err error
}

func (e *CredentialFetchError) Error() string {
	return fmt.Sprintf("fetch credential: %v", e.Err)
}

func (e *CredentialFetchError) Unwrap() error { return e.Err }

func inFlightError() error {
	return pkgerrors.Wrap(pkgerrors.CodeConflict, ErrSubmissionInFlight, MessageInFlight)
}

// classify maps a submission failure to its metric reason and the typed error
// whose message is shown to the shopper.
func classify(err error) (string, *pkgerrors.Error) {
	var (
		rejected   *orders.ServerRejectionError
		network    *orders.NetworkError
		unparsable *orders.UnparsableResponseError
		credential *CredentialFetchError
	)
	switch {
	case errors.As(err, &credential):
		return reasonCredential, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, MessageCredential)
	case errors.As(err, &rejected):
		msg := rejected.Message
		if msg == "" {
			msg = orders.MessageOrderFailed
		}
		return reasonRejected, pkgerrors.Wrap(pkgerrors.CodeOrderRejected, err, msg)
	case errors.As(err, &network):
		return reasonNetwork, pkgerrors.Wrap(pkgerrors.CodeDependency, err, orders.MessageOrderFailed)
	case errors.As(err, &unparsable):
		return reasonUnparsable, pkgerrors.Wrap(pkgerrors.CodeDependency, err, orders.MessageOrderFailed)
	}
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
		return reasonValidation, typed
	}
	return reasonUnknown, pkgerrors.Wrap(pkgerrors.CodeDependency, err, orders.MessageOrderFailed)
}

package checkout

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-checkout/internal/cart"
)

// State is a step of the submission workflow.
type State string

const (
	StateIdle               State = "idle"
	StateValidating         State = "validating"
	StateSubmitting         State = "submitting"
	StateConfirmingVisually State = "confirming_visually"
	StateSucceeded          State = "succeeded"
	StateFailed             State = "failed"
)

// InFlight reports whether a submission in s blocks new submissions.
func (s State) InFlight() bool {
	switch s {
	case StateValidating, StateSubmitting, StateConfirmingVisually:
		return true
	default:
		return false
	}
}

// Transition describes one state change of an owner's submission.
type Transition struct {
	Owner   cart.Owner
	From    State
	To      State
	OrderID string
	// Reason classifies failures: validation, credential, network, rejected, unparsable, error.
	Reason  string
	Message string
	Err     error
	Elapsed time.Duration
}

// Observer is notified of every transition, after it happened.
type Observer interface {
	OnTransition(ctx context.Context, t Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, t Transition)

func (f ObserverFunc) OnTransition(ctx context.Context, t Transition) {
	f(ctx, t)
}

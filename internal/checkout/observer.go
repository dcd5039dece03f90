package checkout

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-checkout/pkg/logger"
	"github.com/angelmondragon/storefront-checkout/pkg/metrics"
)

type transitionRecorder interface {
	IncTransition(state string)
	ObserveSubmission(outcome string, elapsed time.Duration)
}

// NewObserver logs transitions and records them on the checkout metrics.
// Either argument may be nil.
func NewObserver(logg *logger.Logger, recorder *metrics.CheckoutMetrics) Observer {
	o := &logObserver{logg: logg}
	if recorder != nil {
		o.recorder = recorder
	}
	return o
}

type logObserver struct {
	logg     *logger.Logger
	recorder transitionRecorder
}

func (o *logObserver) OnTransition(ctx context.Context, t Transition) {
	if o.recorder != nil {
		o.recorder.IncTransition(string(t.To))
		if t.To == StateSucceeded || t.To == StateFailed {
			o.recorder.ObserveSubmission(t.Reason, t.Elapsed)
		}
	}
	if o.logg == nil {
		return
	}

	fields := map[string]any{
		"cart_owner": t.Owner.String(),
		"from":       string(t.From),
		"to":         string(t.To),
	}
	if t.OrderID != "" {
		fields["order_id"] = t.OrderID
	}
	if t.Reason != "" {
		fields["reason"] = t.Reason
	}
	if t.Elapsed > 0 {
		fields["elapsed_ms"] = t.Elapsed.Milliseconds()
	}
	ctx = o.logg.WithFields(ctx, fields)

	switch t.To {
	case StateFailed:
		if t.Reason == reasonValidation {
			o.logg.Warn(ctx, "checkout.submission_rejected")
			return
		}
		o.logg.Error(ctx, "checkout.submission_failed", t.Err)
	case StateSucceeded:
		o.logg.Info(ctx, "checkout.order_placed")
	default:
		o.logg.Debug(ctx, "checkout.transition")
	}
}

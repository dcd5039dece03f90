package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-checkout/internal/address"
	"github.com/angelmondragon/storefront-checkout/internal/cart"
	"github.com/angelmondragon/storefront-checkout/internal/identity"
	"github.com/angelmondragon/storefront-checkout/internal/orders"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
	"github.com/angelmondragon/storefront-checkout/pkg/redis"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultConfirmDelay = 1200 * time.Millisecond
	DefaultInFlightTTL  = time.Minute
	DefaultSuccessPath  = "/order-success"
)

type orderCreator interface {
	Create(ctx context.Context, req *orders.OrderRequest, token string) (*orders.Created, error)
}

type cartClearer interface {
	Clear(ctx context.Context, owner cart.Owner) error
}

// Submission is everything one order attempt is built from. Items and
// ShippingFee must be derived from current inputs by the caller.
type Submission struct {
	Owner          cart.Owner
	Identity       *identity.Identity
	Items          []cart.LineItem
	Form           orders.OrderForm
	SavedAddresses []address.Address
	ShippingFee    decimal.Decimal
}

// Outcome is a placed order and where the shopper goes next.
type Outcome struct {
	OrderID  string `json:"orderId"`
	Redirect string `json:"redirect"`
}

// WorkflowConfig tunes the workflow. Zero values fall back to the defaults.
type WorkflowConfig struct {
	ConfirmDelay    time.Duration
	InFlightTTL     time.Duration
	SuccessPath     string
	FallbackCountry string
}

// WorkflowDeps are the workflow collaborators. Orders and Carts are required.
type WorkflowDeps struct {
	Orders      orderCreator
	Carts       cartClearer
	Credentials identity.CredentialFetcher
	Locks       redis.LockStore
	Observer    Observer
	Logger      *logger.Logger
}

// Workflow runs order submissions: Idle, Validating, Submitting,
// ConfirmingVisually, then Succeeded or Failed. At most one submission per
// cart owner is in flight, guarded in-process and, when Locks is set, across
// instances.
type Workflow struct {
	orders      orderCreator
	carts       cartClearer
	credentials identity.CredentialFetcher
	locks       redis.LockStore
	observer    Observer
	logg        *logger.Logger
	cfg         WorkflowConfig

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time

	mu     sync.Mutex
	states map[cart.Owner]State
}

// NewWorkflow builds the submission workflow.
func NewWorkflow(deps WorkflowDeps, cfg WorkflowConfig) (*Workflow, error) {
	if deps.Orders == nil {
		return nil, fmt.Errorf("order client required")
	}
	if deps.Carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if deps.Credentials == nil {
		deps.Credentials = identity.ContextCredentials{}
	}
	if cfg.ConfirmDelay < 0 {
		cfg.ConfirmDelay = 0
	}
	if cfg.InFlightTTL <= 0 {
		cfg.InFlightTTL = DefaultInFlightTTL
	}
	if strings.TrimSpace(cfg.SuccessPath) == "" {
		cfg.SuccessPath = DefaultSuccessPath
	}
	if strings.TrimSpace(cfg.FallbackCountry) == "" {
		cfg.FallbackCountry = orders.DefaultFallbackCountry
	}
	return &Workflow{
		orders:      deps.Orders,
		carts:       deps.Carts,
		credentials: deps.Credentials,
		locks:       deps.Locks,
		observer:    deps.Observer,
		logg:        deps.Logger,
		cfg:         cfg,
		sleep:       sleepContext,
		now:         time.Now,
		states:      make(map[cart.Owner]State),
	}, nil
}

// State returns the current state of owner's submission.
func (w *Workflow) State(owner cart.Owner) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	if state, ok := w.states[owner]; ok {
		return state
	}
	return StateIdle
}

// Submit places one order. A submission already in flight for the owner makes
// this call a no-op returning ErrSubmissionInFlight. Every failure returns the
// owner to Idle and yields a typed error carrying the message for the shopper.
func (w *Workflow) Submit(ctx context.Context, sub Submission) (*Outcome, error) {
	ctx, span := otel.Tracer("checkout").Start(ctx, "checkout.Submit")
	defer span.End()
	span.SetAttributes(
		attribute.Bool("checkout.guest", sub.Identity.IsGuest()),
		attribute.Int("checkout.line_items", len(sub.Items)),
	)

	owner := sub.Owner
	if !w.claim(owner) {
		span.AddEvent("submission in flight")
		return nil, inFlightError()
	}
	release, err := w.acquire(ctx, owner)
	if err != nil {
		w.unclaim(owner)
		if errors.Is(err, ErrSubmissionInFlight) {
			span.AddEvent("submission in flight")
			return nil, inFlightError()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, reasonUnknown)
		_, typed := classify(err)
		return nil, typed
	}
	defer release()

	start := w.now()
	w.notify(ctx, Transition{Owner: owner, From: StateIdle, To: StateValidating})

	req, err := orders.Build(orders.BuildInput{
		Identity:        sub.Identity,
		Items:           sub.Items,
		Form:            sub.Form,
		SavedAddresses:  sub.SavedAddresses,
		ShippingFee:     sub.ShippingFee,
		FallbackCountry: w.cfg.FallbackCountry,
	})
	if err != nil {
		return nil, w.fail(ctx, owner, StateValidating, start, err)
	}
	if !sub.Identity.IsGuest() {
		resolved := orders.ResolveAddress(orders.BuildInput{
			Identity:        sub.Identity,
			Form:            sub.Form,
			SavedAddresses:  sub.SavedAddresses,
			FallbackCountry: w.cfg.FallbackCountry,
		})
		span.SetAttributes(attribute.String("checkout.address_source", string(resolved.Source)))
		if resolved.Source == orders.AddressSourceNone && w.logg != nil {
			w.logg.Warn(w.logg.WithCartOwner(ctx, owner.String()), "checkout.order_without_address")
		}
	}

	var token string
	if !sub.Identity.IsGuest() {
		token, err = w.credentials.Fetch(ctx)
		if err != nil {
			return nil, w.fail(ctx, owner, StateValidating, start, &CredentialFetchError{Err: err})
		}
	}

	w.notify(ctx, Transition{Owner: owner, From: StateValidating, To: StateSubmitting})
	created, err := w.orders.Create(ctx, req, token)
	if err != nil {
		return nil, w.fail(ctx, owner, StateSubmitting, start, err)
	}
	span.SetAttributes(attribute.String("checkout.order_id", created.OrderID))

	w.notify(ctx, Transition{Owner: owner, From: StateSubmitting, To: StateConfirmingVisually, OrderID: created.OrderID})
	if err := w.sleep(ctx, w.cfg.ConfirmDelay); err != nil {
		span.AddEvent("confirmation delay interrupted")
	}

	// The order exists upstream; the cart is cleared even if the caller went away.
	if err := w.carts.Clear(context.WithoutCancel(ctx), owner); err != nil {
		span.RecordError(err)
		if w.logg != nil {
			w.logg.Error(w.logg.WithCartOwner(ctx, owner.String()), "checkout.cart_clear_failed", err)
		}
	}

	w.notify(ctx, Transition{
		Owner:   owner,
		From:    StateConfirmingVisually,
		To:      StateSucceeded,
		OrderID: created.OrderID,
		Reason:  reasonSucceeded,
		Elapsed: w.now().Sub(start),
	})
	w.unclaim(owner)

	return &Outcome{
		OrderID:  created.OrderID,
		Redirect: w.redirect(created.OrderID),
	}, nil
}

func (w *Workflow) fail(ctx context.Context, owner cart.Owner, from State, start time.Time, cause error) error {
	reason, typed := classify(cause)

	span := trace.SpanFromContext(ctx)
	span.RecordError(cause)
	span.SetStatus(codes.Error, reason)

	w.notify(ctx, Transition{
		Owner:   owner,
		From:    from,
		To:      StateFailed,
		Reason:  reason,
		Message: typed.Message(),
		Err:     cause,
		Elapsed: w.now().Sub(start),
	})
	w.notify(ctx, Transition{Owner: owner, From: StateFailed, To: StateIdle})
	w.unclaim(owner)
	return typed
}

func (w *Workflow) notify(ctx context.Context, t Transition) {
	w.mu.Lock()
	w.states[t.Owner] = t.To
	w.mu.Unlock()
	if w.observer != nil {
		w.observer.OnTransition(ctx, t)
	}
}

func (w *Workflow) claim(owner cart.Owner) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.states[owner].InFlight() {
		return false
	}
	w.states[owner] = StateValidating
	return true
}

// unclaim forgets owner; an absent entry reads as Idle.
func (w *Workflow) unclaim(owner cart.Owner) {
	w.mu.Lock()
	delete(w.states, owner)
	w.mu.Unlock()
}

func (w *Workflow) acquire(ctx context.Context, owner cart.Owner) (func(), error) {
	if w.locks == nil {
		return func() {}, nil
	}
	key := w.locks.InFlightKey(owner.String())
	token := uuid.NewString()
	ok, err := w.locks.SetNX(ctx, key, token, w.cfg.InFlightTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire in-flight guard: %w", err)
	}
	if !ok {
		return nil, ErrSubmissionInFlight
	}
	return func() {
		released, err := w.locks.ReleaseIfOwner(context.WithoutCancel(ctx), key, token)
		if w.logg == nil {
			return
		}
		switch {
		case err != nil:
			w.logg.Warn(w.logg.WithField(ctx, "error", err.Error()), "checkout.release_guard_failed")
		case !released:
			w.logg.Warn(w.logg.WithCartOwner(ctx, owner.String()), "checkout.guard_expired_before_release")
		}
	}, nil
}

func (w *Workflow) redirect(orderID string) string {
	return w.cfg.SuccessPath + "?orderId=" + url.QueryEscape(orderID)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

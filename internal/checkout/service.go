package checkout

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-checkout/internal/address"
	"github.com/angelmondragon/storefront-checkout/internal/cart"
	"github.com/angelmondragon/storefront-checkout/internal/catalog"
	"github.com/angelmondragon/storefront-checkout/internal/identity"
	"github.com/angelmondragon/storefront-checkout/internal/orders"
	"github.com/angelmondragon/storefront-checkout/internal/shipping"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
	"github.com/shopspring/decimal"
)

type quantityReader interface {
	Quantities(ctx context.Context, owner cart.Owner) (map[string]int, error)
}

type productFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]catalog.Product, error)
}

type addressLister interface {
	List(ctx context.Context, userID string) ([]address.Address, error)
}

type submitter interface {
	Submit(ctx context.Context, sub Submission) (*Outcome, error)
}

// Summary is the checkout page state for one owner.
type Summary struct {
	Items             []cart.LineItem   `json:"items"`
	Unavailable       []string          `json:"unavailable"`
	Count             int               `json:"count"`
	Subtotal          decimal.Decimal   `json:"subtotal"`
	ShippingFee       decimal.Decimal   `json:"shippingFee"`
	ShippingLabel     string            `json:"shippingLabel"`
	EstimatedDays     string            `json:"estimatedDays"`
	Total             decimal.Decimal   `json:"total"`
	Addresses         []address.Address `json:"addresses"`
	SelectedAddressID string            `json:"selectedAddressId,omitempty"`
}

// Service composes the cart, catalog, shipping and address collaborators
// around the submission workflow.
type Service interface {
	Summary(ctx context.Context, owner cart.Owner, id *identity.Identity) (*Summary, error)
	Submit(ctx context.Context, owner cart.Owner, id *identity.Identity, form orders.OrderForm) (*Outcome, error)
}

// ServiceDeps are the checkout service collaborators; all are required.
type ServiceDeps struct {
	Carts     quantityReader
	Catalog   productFinder
	Shipping  shipping.Provider
	Addresses addressLister
	Workflow  submitter
	Logger    *logger.Logger
}

type service struct {
	carts     quantityReader
	catalog   productFinder
	shipping  shipping.Provider
	addresses addressLister
	workflow  submitter
	logg      *logger.Logger
}

// NewService builds the checkout service.
func NewService(deps ServiceDeps) (Service, error) {
	if deps.Carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if deps.Shipping == nil {
		return nil, fmt.Errorf("shipping provider required")
	}
	if deps.Addresses == nil {
		return nil, fmt.Errorf("address book required")
	}
	if deps.Workflow == nil {
		return nil, fmt.Errorf("submission workflow required")
	}
	return &service{
		carts:     deps.Carts,
		catalog:   deps.Catalog,
		shipping:  deps.Shipping,
		addresses: deps.Addresses,
		workflow:  deps.Workflow,
		logg:      deps.Logger,
	}, nil
}

type projection struct {
	items       []cart.LineItem
	unavailable []string
	setting     *shipping.Setting
	fee         decimal.Decimal
}

// project derives line items and the shipping fee from the current cart,
// catalog and shipping setting. Nothing is reused between calls.
func (s *service) project(ctx context.Context, owner cart.Owner) (*projection, error) {
	quantities, err := s.carts.Quantities(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart unavailable")
	}
	ids := make([]string, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	products, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	setting, err := s.shipping.Current(ctx)
	if err != nil {
		// Shipping falls back to free, as when no setting is configured.
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "checkout.shipping_setting_unavailable")
		}
		setting = nil
	}

	items := cart.Project(quantities, products)
	return &projection{
		items:       items,
		unavailable: cart.Unavailable(quantities, products),
		setting:     setting,
		fee:         shipping.Calculate(items, setting),
	}, nil
}

func (s *service) savedAddresses(ctx context.Context, id *identity.Identity) ([]address.Address, error) {
	if id.IsGuest() {
		return nil, nil
	}
	return s.addresses.List(ctx, id.UID)
}

func (s *service) Summary(ctx context.Context, owner cart.Owner, id *identity.Identity) (*Summary, error) {
	p, err := s.project(ctx, owner)
	if err != nil {
		return nil, err
	}
	saved, err := s.savedAddresses(ctx, id)
	if err != nil {
		return nil, err
	}

	subtotal := cart.Subtotal(p.items)
	summary := &Summary{
		Items:         p.items,
		Unavailable:   p.unavailable,
		Count:         cart.Quantity(p.items),
		Subtotal:      subtotal,
		ShippingFee:   p.fee,
		ShippingLabel: shipping.Label(p.fee),
		EstimatedDays: shipping.EstimatedDays(p.setting),
		Total:         subtotal.Add(p.fee),
		Addresses:     saved,
	}
	if summary.Addresses == nil {
		summary.Addresses = []address.Address{}
	}
	if len(saved) > 0 {
		summary.SelectedAddressID = saved[0].ID
	}
	return summary, nil
}

func (s *service) Submit(ctx context.Context, owner cart.Owner, id *identity.Identity, form orders.OrderForm) (*Outcome, error) {
	p, err := s.project(ctx, owner)
	if err != nil {
		return nil, err
	}
	saved, err := s.savedAddresses(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.workflow.Submit(ctx, Submission{
		Owner:          owner,
		Identity:       id,
		Items:          p.items,
		Form:           form,
		SavedAddresses: saved,
		ShippingFee:    p.fee,
	})
}

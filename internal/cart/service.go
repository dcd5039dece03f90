package cart

import (
	"context"

	"github.com/angelmondragon/storefront-checkout/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/shopspring/decimal"
)

type quantityStore interface {
	Quantities(ctx context.Context, owner Owner) (map[string]int, error)
	Add(ctx context.Context, owner Owner, productID string, qty int) (int, error)
	Decrement(ctx context.Context, owner Owner, productID string) (int, error)
	Remove(ctx context.Context, owner Owner, productID string) error
}

type productFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]catalog.Product, error)
}

// View is the projected cart of one owner.
type View struct {
	Items       []LineItem      `json:"items"`
	Unavailable []string        `json:"unavailable"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Count       int             `json:"count"`
}

// Service projects carts against the live catalog and applies quantity edits.
type Service interface {
	View(ctx context.Context, owner Owner) (*View, error)
	Add(ctx context.Context, owner Owner, productID string, qty int) (*View, error)
	Decrement(ctx context.Context, owner Owner, productID string) (*View, error)
	Remove(ctx context.Context, owner Owner, productID string) (*View, error)
}

type service struct {
	store   quantityStore
	catalog productFinder
}

func NewService(store quantityStore, catalog productFinder) Service {
	return &service{store: store, catalog: catalog}
}

func (s *service) View(ctx context.Context, owner Owner) (*View, error) {
	quantities, err := s.store.Quantities(ctx, owner)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	products, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := Project(quantities, products)
	return &View{
		Items:       items,
		Unavailable: Unavailable(quantities, products),
		Subtotal:    Subtotal(items),
		Count:       Quantity(items),
	}, nil
}

func (s *service) Add(ctx context.Context, owner Owner, productID string, qty int) (*View, error) {
	products, err := s.catalog.FindByIDs(ctx, []string{productID})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if _, err := s.store.Add(ctx, owner, productID, qty); err != nil {
		return nil, err
	}
	return s.View(ctx, owner)
}

func (s *service) Decrement(ctx context.Context, owner Owner, productID string) (*View, error) {
	if _, err := s.store.Decrement(ctx, owner, productID); err != nil {
		return nil, err
	}
	return s.View(ctx, owner)
}

func (s *service) Remove(ctx context.Context, owner Owner, productID string) (*View, error) {
	if err := s.store.Remove(ctx, owner, productID); err != nil {
		return nil, err
	}
	return s.View(ctx, owner)
}

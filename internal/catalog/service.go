package catalog

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/shopspring/decimal"
)

// Product is the catalog view the checkout consumes.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
	Brand string          `json:"brand,omitempty"`
}

type repository interface {
	ListActive(ctx context.Context) ([]models.Product, error)
	FindActiveByIDs(ctx context.Context, ids []string) ([]models.Product, error)
}

// Service yields the current product list on demand.
type Service interface {
	List(ctx context.Context) ([]Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]Product, error)
}

type service struct {
	repo repository
}

func NewService(repo repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]Product, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return toProducts(rows), nil
}

func (s *service) FindByIDs(ctx context.Context, ids []string) ([]Product, error) {
	clean := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		clean = append(clean, id)
	}
	rows, err := s.repo.FindActiveByIDs(ctx, clean)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	return toProducts(rows), nil
}

func toProducts(rows []models.Product) []Product {
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, Product{
			ID:    row.ID,
			Name:  row.Name,
			Price: row.Price,
			Image: row.Image,
			Brand: row.Brand,
		})
	}
	return out
}

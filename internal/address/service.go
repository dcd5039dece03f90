package address

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a saved delivery address.
type Address struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone"`
	PhoneCode string `json:"phoneCode,omitempty"`
	Street    string `json:"street"`
	City      string `json:"city"`
	District  string `json:"district,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
	Zip       string `json:"zip,omitempty"`
}

// CreateInput is the "add new address" form.
type CreateInput struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"required"`
	PhoneCode string `json:"phoneCode"`
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	District  string `json:"district"`
	State     string `json:"state"`
	Country   string `json:"country"`
	Zip       string `json:"zip"`
}

type repository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Address, error)
	FindByID(ctx context.Context, userID string, id uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, row *models.Address) error
}

// Service yields and records saved addresses for authenticated shoppers.
type Service interface {
	List(ctx context.Context, userID string) ([]Address, error)
	Get(ctx context.Context, userID, id string) (*Address, error)
	Create(ctx context.Context, userID string, input CreateInput) (*Address, error)
}

type service struct {
	repo  repository
	newID func() uuid.UUID
}

func NewService(repo repository) Service {
	return &service{repo: repo, newID: uuid.New}
}

func (s *service) List(ctx context.Context, userID string) ([]Address, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to use saved addresses")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	out := make([]Address, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAddress(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, userID, id string) (*Address, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	row, err := s.repo.FindByID(ctx, userID, parsed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	addr := toAddress(*row)
	return &addr, nil
}

func (s *service) Create(ctx context.Context, userID string, input CreateInput) (*Address, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to save addresses")
	}
	row := &models.Address{
		ID:        s.newID(),
		UserID:    userID,
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		PhoneCode: strings.TrimSpace(input.PhoneCode),
		Street:    strings.TrimSpace(input.Street),
		City:      strings.TrimSpace(input.City),
		District:  strings.TrimSpace(input.District),
		State:     strings.TrimSpace(input.State),
		Country:   strings.TrimSpace(input.Country),
		Zip:       strings.TrimSpace(input.Zip),
	}
	if row.Name == "" || row.Phone == "" || row.Street == "" || row.City == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, phone, street and city are required")
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save address")
	}
	addr := toAddress(*row)
	return &addr, nil
}

func toAddress(row models.Address) Address {
	return Address{
		ID:        row.ID.String(),
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		PhoneCode: row.PhoneCode,
		Street:    row.Street,
		City:      row.City,
		District:  row.District,
		State:     row.State,
		Country:   row.Country,
		Zip:       row.Zip,
	}
}

package orders

import (
	"encoding/json"
	"strings"

	"github.com/angelmondragon/storefront-checkout/internal/address"
	"github.com/angelmondragon/storefront-checkout/internal/cart"
	"github.com/angelmondragon/storefront-checkout/internal/identity"
	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	"github.com/shopspring/decimal"
)

const (
	DefaultFallbackCountry = "UAE"
	defaultZip             = "000000"
)

// OrderForm is the shopper-entered checkout state.
type OrderForm struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	PhoneCode string `json:"phoneCode"`
	Street    string `json:"street"`
	City      string `json:"city"`
	District  string `json:"district"`
	State     string `json:"state"`
	Country   string `json:"country"`
	Zip       string `json:"zip"`
	Pincode   string `json:"pincode"`
	Note      string `json:"note"`
	Payment   string `json:"payment"`
	AddressID string `json:"addressId"`
}

// Item is one ordered line.
type Item struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// GuestInfo carries the contact and delivery details of a guest order.
type GuestInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	District string `json:"district"`
	Street   string `json:"street"`
	Note     string `json:"note"`
}

// AddressData is an inline delivery address for an authenticated order.
type AddressData struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
	Zip      string `json:"zip"`
	District string `json:"district"`
}

// OrderRequest is the body of POST /api/orders. Guest orders set IsGuest and
// GuestInfo; authenticated orders carry at most one of AddressID and AddressData.
type OrderRequest struct {
	IsGuest       bool         `json:"isGuest,omitempty"`
	GuestInfo     *GuestInfo   `json:"guestInfo,omitempty"`
	Items         []Item       `json:"items"`
	PaymentMethod string       `json:"paymentMethod"`
	ShippingFee   json.Number  `json:"shippingFee"`
	AddressID     string       `json:"addressId,omitempty"`
	AddressData   *AddressData `json:"addressData,omitempty"`
}

// AddressSource names where an authenticated order's address came from.
type AddressSource string

const (
	AddressSourceExplicit AddressSource = "explicit"
	AddressSourceSaved    AddressSource = "saved"
	AddressSourceInline   AddressSource = "inline"
	AddressSourceNone     AddressSource = "none"
)

// AddressResolution is the outcome of ResolveAddress.
type AddressResolution struct {
	Source    AddressSource
	AddressID string
	Data      *AddressData
}

// BuildInput gathers everything the payload depends on. A nil Identity is a guest.
type BuildInput struct {
	Identity        *identity.Identity
	Items           []cart.LineItem
	Form            OrderForm
	SavedAddresses  []address.Address
	ShippingFee     decimal.Decimal
	FallbackCountry string
}

// Build validates in and produces the order payload. Validation stops at the
// first failure: empty cart, then missing payment method, then (guests only)
// incomplete shipping details.
func Build(in BuildInput) (*OrderRequest, error) {
	if len(in.Items) == 0 {
		return nil, validationError(ErrEmptyCart, MessageEmptyCart)
	}
	payment := strings.TrimSpace(in.Form.Payment)
	if payment == "" {
		return nil, validationError(ErrMissingPaymentMethod, MessageMissingPayment)
	}

	req := &OrderRequest{
		Items:         toItems(in.Items),
		PaymentMethod: enums.PaymentMethod(payment).Code(),
		ShippingFee:   json.Number(in.ShippingFee.String()),
	}

	if in.Identity.IsGuest() {
		guest, ok := guestInfo(in.Form)
		if !ok {
			return nil, validationError(ErrIncompleteShippingDetails, MessageIncompleteGuest)
		}
		req.IsGuest = true
		req.GuestInfo = guest
		return req, nil
	}

	resolved := ResolveAddress(in)
	req.AddressID = resolved.AddressID
	req.AddressData = resolved.Data
	return req, nil
}

// ResolveAddress picks the delivery address of an authenticated order: the
// explicitly chosen id, else the first saved address, else complete inline
// form fields, else nothing.
func ResolveAddress(in BuildInput) AddressResolution {
	if id := strings.TrimSpace(in.Form.AddressID); id != "" {
		return AddressResolution{Source: AddressSourceExplicit, AddressID: id}
	}
	if len(in.SavedAddresses) > 0 && strings.TrimSpace(in.SavedAddresses[0].ID) != "" {
		return AddressResolution{Source: AddressSourceSaved, AddressID: strings.TrimSpace(in.SavedAddresses[0].ID)}
	}
	if data := inlineAddress(in); data != nil {
		return AddressResolution{Source: AddressSourceInline, Data: data}
	}
	return AddressResolution{Source: AddressSourceNone}
}

func inlineAddress(in BuildInput) *AddressData {
	f := in.Form
	data := &AddressData{
		Name:     firstNonEmpty(f.Name, displayName(in.Identity)),
		Email:    firstNonEmpty(f.Email, identityEmail(in.Identity)),
		Phone:    strings.TrimSpace(f.Phone),
		Street:   strings.TrimSpace(f.Street),
		City:     strings.TrimSpace(f.City),
		State:    strings.TrimSpace(f.State),
		Country:  firstNonEmpty(f.Country, in.FallbackCountry, DefaultFallbackCountry),
		Zip:      firstNonEmpty(f.Zip, f.Pincode, defaultZip),
		District: strings.TrimSpace(f.District),
	}
	if data.Street == "" || data.City == "" || data.State == "" || strings.TrimSpace(f.Country) == "" {
		return nil
	}
	return data
}

func guestInfo(f OrderForm) (*GuestInfo, bool) {
	info := &GuestInfo{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Phone:    strings.TrimSpace(f.Phone),
		City:     strings.TrimSpace(f.City),
		District: strings.TrimSpace(f.District),
		Street:   strings.TrimSpace(f.Street),
		Note:     strings.TrimSpace(f.Note),
	}
	for _, v := range []string{info.Name, info.Email, info.Phone, info.Street, info.City, info.District} {
		if v == "" {
			return nil, false
		}
	}
	return info, true
}

func toItems(lines []cart.LineItem) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, Item{ID: line.ID, Quantity: line.Quantity})
	}
	return items
}

func displayName(id *identity.Identity) string {
	if id == nil {
		return ""
	}
	return id.DisplayName
}

func identityEmail(id *identity.Identity) string {
	if id == nil {
		return ""
	}
	return id.Email
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

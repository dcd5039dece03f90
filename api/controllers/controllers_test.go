package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-checkout/api/middleware"
	"github.com/angelmondragon/storefront-checkout/api/responses"
	"github.com/angelmondragon/storefront-checkout/internal/address"
	"github.com/angelmondragon/storefront-checkout/internal/cart"
	"github.com/angelmondragon/storefront-checkout/internal/catalog"
	checkoutsvc "github.com/angelmondragon/storefront-checkout/internal/checkout"
	"github.com/angelmondragon/storefront-checkout/internal/identity"
	"github.com/angelmondragon/storefront-checkout/internal/orders"
	"github.com/angelmondragon/storefront-checkout/internal/shipping"
	"github.com/angelmondragon/storefront-checkout/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
)

type stubCheckout struct {
	summary  *checkoutsvc.Summary
	outcome  *checkoutsvc.Outcome
	err      error
	gotOwner cart.Owner
	gotID    *identity.Identity
	gotForm  orders.OrderForm
}

func (s *stubCheckout) Summary(_ context.Context, owner cart.Owner, id *identity.Identity) (*checkoutsvc.Summary, error) {
	s.gotOwner, s.gotID = owner, id
	return s.summary, s.err
}

func (s *stubCheckout) Submit(_ context.Context, owner cart.Owner, id *identity.Identity, form orders.OrderForm) (*checkoutsvc.Outcome, error) {
	s.gotOwner, s.gotID, s.gotForm = owner, id, form
	return s.outcome, s.err
}

type stubCart struct {
	view    *cart.View
	err     error
	calls   []string
	product string
	qty     int
}

func (s *stubCart) View(context.Context, cart.Owner) (*cart.View, error) {
	s.calls = append(s.calls, "view")
	return s.view, s.err
}

func (s *stubCart) Add(_ context.Context, _ cart.Owner, productID string, qty int) (*cart.View, error) {
	s.calls = append(s.calls, "add")
	s.product, s.qty = productID, qty
	return s.view, s.err
}

func (s *stubCart) Decrement(_ context.Context, _ cart.Owner, productID string) (*cart.View, error) {
	s.calls = append(s.calls, "decrement")
	s.product = productID
	return s.view, s.err
}

func (s *stubCart) Remove(_ context.Context, _ cart.Owner, productID string) (*cart.View, error) {
	s.calls = append(s.calls, "remove")
	s.product = productID
	return s.view, s.err
}

type stubAddresses struct {
	list    []address.Address
	created *address.Address
	gotUser string
	gotIn   address.CreateInput
}

func (s *stubAddresses) List(_ context.Context, userID string) ([]address.Address, error) {
	s.gotUser = userID
	return s.list, nil
}

func (s *stubAddresses) Get(context.Context, string, string) (*address.Address, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
}

func (s *stubAddresses) Create(_ context.Context, userID string, in address.CreateInput) (*address.Address, error) {
	s.gotUser, s.gotIn = userID, in
	return s.created, nil
}

type stubProducts []catalog.Product

func (s stubProducts) List(context.Context) ([]catalog.Product, error) { return s, nil }

type stubShipping struct {
	setting *shipping.Setting
	err     error
}

func (s stubShipping) Current(context.Context) (*shipping.Setting, error) { return s.setting, s.err }

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func guestRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithCartOwner(req.Context(), cart.Owner("guest:s-1")))
}

func userRequest(method, target, body string) *http.Request {
	req := guestRequest(method, target, body)
	ctx := identity.WithIdentity(req.Context(), &identity.Identity{UID: "uid-1"}, identity.Credential{Token: "t"})
	return req.WithContext(middleware.WithCartOwner(ctx, cart.UserOwner("uid-1")))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeEnvelopeError(t *testing.T, resp *httptest.ResponseRecorder) responses.APIError {
	t.Helper()
	var env responses.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env.Error
}

func TestCheckoutSummary(t *testing.T) {
	svc := &stubCheckout{summary: &checkoutsvc.Summary{Subtotal: decimal.NewFromInt(20), Total: decimal.NewFromInt(25)}}
	resp := httptest.NewRecorder()
	CheckoutSummary(svc, nil).ServeHTTP(resp, guestRequest(http.MethodGet, "/api/v1/checkout", ""))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, cart.Owner("guest:s-1"), svc.gotOwner)
	assert.Nil(t, svc.gotID)

	var env struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "25", env.Data["total"])
}

func TestCheckoutSubmitCreatesOrder(t *testing.T) {
	svc := &stubCheckout{outcome: &checkoutsvc.Outcome{OrderID: "o-1", Redirect: "/order-success?orderId=o-1"}}
	body := `{"name":"Jane","email":"jane@example.com","phone":"050","street":"1 Palm St","city":"Dubai","district":"Marina"}`
	resp := httptest.NewRecorder()
	CheckoutSubmit(svc, nil).ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/checkout/orders", body))

	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "cod", svc.gotForm.Payment, "omitted payment defaults to cash on delivery")
	assert.Equal(t, "Marina", svc.gotForm.District)

	var env struct {
		Data checkoutsvc.Outcome `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "o-1", env.Data.OrderID)
	assert.Equal(t, "/order-success?orderId=o-1", env.Data.Redirect)
}

func TestCheckoutSubmitKeepsExplicitEmptyPayment(t *testing.T) {
	svc := &stubCheckout{outcome: &checkoutsvc.Outcome{}}
	resp := httptest.NewRecorder()
	CheckoutSubmit(svc, nil).ServeHTTP(resp, userRequest(http.MethodPost, "/api/v1/checkout/orders", `{"payment":""}`))

	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "", svc.gotForm.Payment)
	require.NotNil(t, svc.gotID)
	assert.Equal(t, "uid-1", svc.gotID.UID)
}

func TestCheckoutSubmitErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"rejected", pkgerrors.New(pkgerrors.CodeOrderRejected, "Out of stock"), http.StatusUnprocessableEntity, "Out of stock"},
		{"in flight", pkgerrors.Wrap(pkgerrors.CodeConflict, checkoutsvc.ErrSubmissionInFlight, checkoutsvc.MessageInFlight), http.StatusConflict, checkoutsvc.MessageInFlight},
		{"validation", pkgerrors.Wrap(pkgerrors.CodeValidation, orders.ErrEmptyCart, orders.MessageEmptyCart), http.StatusBadRequest, orders.MessageEmptyCart},
		{"network", pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial"), orders.MessageOrderFailed), http.StatusServiceUnavailable, orders.MessageOrderFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			CheckoutSubmit(&stubCheckout{err: tc.err}, nil).ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/checkout/orders", `{"payment":"cod"}`))
			assert.Equal(t, tc.status, resp.Code)
			assert.Equal(t, tc.message, decodeEnvelopeError(t, resp).Message)
		})
	}
}

func TestCheckoutSubmitRejectsUnknownFields(t *testing.T) {
	svc := &stubCheckout{}
	resp := httptest.NewRecorder()
	CheckoutSubmit(svc, nil).ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/checkout/orders", `{"coupon":"X"}`))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCheckoutRequiresCartOwner(t *testing.T) {
	resp := httptest.NewRecorder()
	CheckoutSummary(&stubCheckout{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCartEndpoints(t *testing.T) {
	svc := &stubCart{view: &cart.View{Count: 3}}

	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/cart/items", `{"productId":" p1 ","quantity":3}`))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "p1", svc.product)
	assert.Equal(t, 3, svc.qty)

	resp = httptest.NewRecorder()
	req := withURLParam(guestRequest(http.MethodPost, "/api/v1/cart/items/p2/decrement", ""), "productId", "p2")
	CartDecrementItem(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "p2", svc.product)

	resp = httptest.NewRecorder()
	req = withURLParam(guestRequest(http.MethodDelete, "/api/v1/cart/items/p3", ""), "productId", "p3")
	CartRemoveItem(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "p3", svc.product)

	resp = httptest.NewRecorder()
	CartView(svc, nil).ServeHTTP(resp, guestRequest(http.MethodGet, "/api/v1/cart", ""))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"add", "decrement", "remove", "view"}, svc.calls)
}

func TestCartAddRejectsNonPositiveQuantity(t *testing.T) {
	svc := &stubCart{}
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/cart/items", `{"productId":"p1","quantity":0}`))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, svc.calls)
}

func TestCartRemoveRequiresProductID(t *testing.T) {
	svc := &stubCart{}
	resp := httptest.NewRecorder()
	req := withURLParam(guestRequest(http.MethodDelete, "/api/v1/cart/items/", ""), "productId", "  ")
	CartRemoveItem(svc, nil).ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestProductsListHonorsLimit(t *testing.T) {
	svc := stubProducts{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}
	resp := httptest.NewRecorder()
	ProductsList(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=2", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	var env struct {
		Data []catalog.Product `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Len(t, env.Data, 2)

	resp = httptest.NewRecorder()
	ProductsList(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAddressEndpoints(t *testing.T) {
	svc := &stubAddresses{
		list:    []address.Address{{ID: "a1"}},
		created: &address.Address{ID: "a2", Name: "Home"},
	}

	resp := httptest.NewRecorder()
	AddressList(svc, nil).ServeHTTP(resp, userRequest(http.MethodGet, "/api/v1/addresses", ""))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "uid-1", svc.gotUser)

	body := `{"name":"Home","phone":"050","street":"1 Palm St","city":"Dubai"}`
	resp = httptest.NewRecorder()
	AddressCreate(svc, nil).ServeHTTP(resp, userRequest(http.MethodPost, "/api/v1/addresses", body))
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "Home", svc.gotIn.Name)

	resp = httptest.NewRecorder()
	AddressCreate(svc, nil).ServeHTTP(resp, userRequest(http.MethodPost, "/api/v1/addresses", `{"name":"Home"}`))
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = httptest.NewRecorder()
	AddressList(svc, nil).ServeHTTP(resp, guestRequest(http.MethodGet, "/api/v1/addresses", ""))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestShippingSettings(t *testing.T) {
	resp := httptest.NewRecorder()
	ShippingSettings(stubShipping{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/shipping", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var env struct {
		Data shippingResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.False(t, env.Data.Configured)
	assert.Equal(t, shipping.DefaultEstimatedDays, env.Data.EstimatedDays)

	resp = httptest.NewRecorder()
	ShippingSettings(stubShipping{err: pkgerrors.New(pkgerrors.CodeDependency, "shipping settings unavailable")}, nil).
		ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/shipping", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestHealthEndpoints(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	resp := httptest.NewRecorder()
	HealthLive(cfg).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "test", resp.Header().Get(envHeader))

	healthy := pingFunc(func(context.Context) error { return nil })
	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": healthy, "redis": healthy}).
		ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })
	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": healthy, "redis": down}).
		ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	apiErr := decodeEnvelopeError(t, resp)
	assert.Equal(t, "redis unavailable", apiErr.Message)
	assert.Equal(t, map[string]any{"db": "up", "redis": "down"}, apiErr.Details)
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-checkout/api/controllers"
	"github.com/angelmondragon/storefront-checkout/api/middleware"
	"github.com/angelmondragon/storefront-checkout/internal/address"
	"github.com/angelmondragon/storefront-checkout/internal/cart"
	"github.com/angelmondragon/storefront-checkout/internal/catalog"
	checkoutsvc "github.com/angelmondragon/storefront-checkout/internal/checkout"
	"github.com/angelmondragon/storefront-checkout/internal/shipping"
	"github.com/angelmondragon/storefront-checkout/pkg/config"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
)

// Deps are the collaborators mounted on the router. Nil services answer 500.
type Deps struct {
	DB    controllers.Pinger
	Redis controllers.Pinger

	Verifier    middleware.TokenVerifier
	HTTPMetrics middleware.RequestObserver
	Gatherer    prometheus.Gatherer

	Catalog   catalog.Service
	Cart      cart.Service
	Shipping  shipping.Provider
	Addresses address.Service
	Checkout  checkoutsvc.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": deps.Redis,
		}))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(deps.Verifier, logg))

		r.Get("/products", controllers.ProductsList(deps.Catalog, logg))
		r.Get("/shipping", controllers.ShippingSettings(deps.Shipping, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartOwner(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartView(deps.Cart, logg))
				r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
				r.Post("/items/{productId}/decrement", controllers.CartDecrementItem(deps.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.Cart, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", controllers.CheckoutSummary(deps.Checkout, logg))
				r.Post("/orders", controllers.CheckoutSubmit(deps.Checkout, logg))
			})
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Use(middleware.RequireUser(logg))
			r.Get("/", controllers.AddressList(deps.Addresses, logg))
			r.Post("/", controllers.AddressCreate(deps.Addresses, logg))
		})
	})

	return r
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/praveen037/agriconnect/api/controllers"
	"github.com/praveen037/agriconnect/api/middleware"
	"github.com/praveen037/agriconnect/internal/approvals"
	cartsvc "github.com/praveen037/agriconnect/internal/cart"
	checkoutsvc "github.com/praveen037/agriconnect/internal/checkout"
	"github.com/praveen037/agriconnect/internal/catalog"
	"github.com/praveen037/agriconnect/internal/experts"
	"github.com/praveen037/agriconnect/internal/orders"
	"github.com/praveen037/agriconnect/internal/session"
	"github.com/praveen037/agriconnect/internal/vendors"
	"github.com/praveen037/agriconnect/pkg/config"
	"github.com/praveen037/agriconnect/pkg/enums"
	"github.com/praveen037/agriconnect/pkg/logger"
	"github.com/praveen037/agriconnect/pkg/upstream"
)

// Deps collects everything the router wires into handlers.
type Deps struct {
	Cfg      *config.Config
	Logg     *logger.Logger
	Upstream *upstream.Client
	Sessions *session.Store
	Carts    *cartsvc.Store
	Checkout *checkoutsvc.Orchestrator
	Catalog  *catalog.Service
	Orders   *orders.Service
	Experts  *experts.Service
	Vendors  *vendors.Service
	Admin    *approvals.Service

	Registry *prometheus.Registry
	Probes   map[string]controllers.Pinger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(d.Logg),
		middleware.RequestID(d.Logg),
		middleware.Logging(d.Logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Cfg))
		r.Get("/ready", controllers.HealthReady(d.Cfg, d.Logg, d.Probes))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	// Public surface: browse and sign in without a session.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.Products(d.Catalog, d.Logg))
		r.Get("/products/{productId}", controllers.ProductByID(d.Catalog, d.Logg))
		r.Get("/categories", controllers.Categories(d.Catalog, d.Logg))

		r.Route("/auth/{role}", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(d.Upstream, d.Sessions, d.Cfg.JWT, d.Logg))
			r.Post("/register", controllers.AuthRegister(d.Upstream, d.Logg))
		})
	})

	// Authenticated surface. Every route below resolves the bearer token to
	// a live server-side session.
	r.Route("/api/v1/me", func(r chi.Router) {
		r.Use(middleware.Auth(d.Cfg.JWT, d.Sessions, d.Logg))

		r.Get("/", controllers.SessionMe(d.Sessions, d.Logg))
		r.Put("/", controllers.ProfileUpdate(d.Upstream, d.Sessions, d.Logg))
		r.Post("/logout", controllers.AuthLogout(d.Sessions, d.Logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleBuyer, d.Logg))
			r.Get("/", controllers.CartView(d.Carts, d.Logg))
			r.Post("/items", controllers.CartAdd(d.Carts, d.Logg))
			r.Put("/items/{productId}", controllers.CartSetQuantity(d.Carts, d.Logg))
			r.Delete("/items/{productId}", controllers.CartRemove(d.Carts, d.Logg))
			r.Delete("/", controllers.CartClear(d.Carts, d.Logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleBuyer, d.Logg))
			r.Post("/", controllers.CheckoutBegin(d.Checkout, d.Logg))
			r.Post("/confirm", controllers.CheckoutConfirm(d.Checkout, d.Logg))
			r.Post("/cancel", controllers.CheckoutCancel(d.Checkout, d.Logg))
			r.Post("/reset", controllers.CheckoutReset(d.Checkout, d.Logg))
			r.Get("/state", controllers.CheckoutState(d.Checkout, d.Logg))
			r.Get("/confirmation", controllers.CheckoutConfirmation(d.Orders.Repo(), d.Logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleBuyer, d.Logg))
			r.Get("/", controllers.MyOrders(d.Orders, d.Logg))
		})

		r.Route("/queries", func(r chi.Router) {
			r.With(middleware.RequireRole(enums.RoleBuyer, d.Logg)).Post("/", controllers.QuerySubmit(d.Experts, d.Logg))
			r.With(middleware.RequireRole(enums.RoleBuyer, d.Logg)).Get("/", controllers.QueryHistory(d.Experts, d.Logg))
			r.With(middleware.RequireRole(enums.RoleExpert, d.Logg)).Post("/{queryId}/answer", controllers.QueryAnswer(d.Experts, d.Logg))
		})

		r.Route("/vendor/products", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleVendor, d.Logg))
			r.Post("/", controllers.VendorCreateProduct(d.Vendors, d.Logg))
			r.Put("/{productId}", controllers.VendorUpdateProduct(d.Vendors, d.Logg))
			r.Delete("/{productId}", controllers.VendorDeleteProduct(d.Vendors, d.Logg))
		})

		r.Route("/admin/approvals", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleAdmin, d.Logg))
			r.Get("/{kind}", controllers.AdminPending(d.Admin, d.Logg))
			r.Post("/{kind}/{accountId}", controllers.AdminDecide(d.Admin, d.Logg))
		})
	})

	return r
}

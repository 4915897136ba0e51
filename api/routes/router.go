package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kartik48/sunitas-creations/api/controllers"
	"github.com/kartik48/sunitas-creations/api/middleware"
	authsvc "github.com/kartik48/sunitas-creations/internal/auth"
	"github.com/kartik48/sunitas-creations/internal/cart"
	"github.com/kartik48/sunitas-creations/internal/catalog"
	checkoutsvc "github.com/kartik48/sunitas-creations/internal/checkout"
	"github.com/kartik48/sunitas-creations/internal/orders"
	"github.com/kartik48/sunitas-creations/pkg/auth/session"
	"github.com/kartik48/sunitas-creations/pkg/config"
	"github.com/kartik48/sunitas-creations/pkg/logger"
	"github.com/kartik48/sunitas-creations/pkg/metrics"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	Database        pinger
	Cache           pinger
	Sessions        session.AccessSessionChecker
	Metrics         *metrics.HTTPMetrics
	AuthService     authsvc.Service
	CatalogService  catalog.Service
	CartService     cart.Service
	CheckoutService checkoutsvc.Service
	OrdersService   orders.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.Database, deps.Cache, logg))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(deps.AuthService, logg))
			r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
				Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/home", controllers.CatalogHome(deps.CatalogService, logg))
			r.Get("/products", controllers.ShopProducts(deps.CatalogService, logg))
			r.Get("/products/{slug}", controllers.ProductBySlug(deps.CatalogService, logg))
			r.Get("/categories", controllers.Categories(deps.CatalogService, logg))
			r.Get("/tags", controllers.Tags(deps.CatalogService, logg))
		})

		// Cart routes serve both guests and signed-in users. A guest cookie
		// is always present; a valid bearer token takes precedence.
		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.CartSession(cfg.Cart))

			r.Get("/", controllers.CartGet(deps.CartService, logg))
			r.Get("/count", controllers.CartCount(deps.CartService, logg))
			r.Post("/items", controllers.CartAdd(deps.CartService, logg))
			r.Patch("/items/{itemID}", controllers.CartUpdateItem(deps.CartService, logg))
			r.Delete("/items/{itemID}", controllers.CartRemoveItem(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Get("/checkout", controllers.CheckoutSummary(deps.CheckoutService, logg))
			r.Post("/checkout", controllers.CheckoutSubmit(deps.CheckoutService, deps.Metrics, logg))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(deps.OrdersService, logg))
				r.Get("/{orderID}", controllers.OrderGet(deps.OrdersService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(deps.CatalogService, logg))
			r.Post("/", controllers.AdminCreateProduct(deps.CatalogService, logg))
			r.Get("/{productID}", controllers.AdminGetProduct(deps.CatalogService, logg))
			r.Put("/{productID}", controllers.AdminUpdateProduct(deps.CatalogService, logg))
			r.Delete("/{productID}", controllers.AdminDeleteProduct(deps.CatalogService, logg))
		})
	})

	return r
}

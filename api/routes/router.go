package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lmorales/shopworks-backend/api/controllers"
	"github.com/lmorales/shopworks-backend/api/middleware"
	authsvc "github.com/lmorales/shopworks-backend/internal/auth"
	cartsvc "github.com/lmorales/shopworks-backend/internal/cart"
	"github.com/lmorales/shopworks-backend/internal/catalog"
	checkoutsvc "github.com/lmorales/shopworks-backend/internal/checkout"
	dashboardsvc "github.com/lmorales/shopworks-backend/internal/dashboard"
	orderssvc "github.com/lmorales/shopworks-backend/internal/orders"
	settingssvc "github.com/lmorales/shopworks-backend/internal/settings"
	userssvc "github.com/lmorales/shopworks-backend/internal/users"
	"github.com/lmorales/shopworks-backend/pkg/auth/session"
	"github.com/lmorales/shopworks-backend/pkg/config"
	"github.com/lmorales/shopworks-backend/pkg/db"
	"github.com/lmorales/shopworks-backend/pkg/logger"
	"github.com/lmorales/shopworks-backend/pkg/metrics"
	"github.com/lmorales/shopworks-backend/pkg/redis"
)

// Deps collects everything the router needs wired in.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redis.Client
	Sessions     session.AccessSessionChecker
	Registry     *prometheus.Registry
	HTTPMetrics  *metrics.HTTPMetrics
	AuthService  authsvc.Service
	UsersService userssvc.Service
	Catalog      catalog.Service
	Cart         cartsvc.Service
	Checkout     checkoutsvc.Service
	Orders       orderssvc.Service
	Dashboard    dashboardsvc.Service
	Settings     settingssvc.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if d.HTTPMetrics != nil {
		r.Use(middleware.Metrics(d.HTTPMetrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(d.AuthService, logg))
			r.Post("/login", controllers.AuthLogin(d.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, d.Sessions, logg)).Post("/logout", controllers.AuthLogout(d.AuthService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(d.Catalog, logg))
			r.Get("/{slug}", controllers.ProductGetBySlug(d.Catalog, logg))
		})
		r.Get("/categories", controllers.CategoriesList(d.Catalog, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(d.Cart, logg))
				r.Post("/items", controllers.CartAddItems(d.Cart, logg))
				r.Patch("/items", controllers.CartUpdateItem(d.Cart, logg))
			})
			r.Post("/checkout", controllers.CheckoutPlaceOrder(d.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersListMine(d.Orders, logg))
				r.Get("/{orderId}", controllers.OrderGetMine(d.Orders, logg))
			})

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", controllers.UsersMe(d.UsersService, logg))
				r.Patch("/", controllers.UsersUpdateMe(d.UsersService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductsList(d.Catalog, logg))
			r.Post("/", controllers.AdminProductCreate(d.Catalog, logg))
			r.Get("/{productId}", controllers.AdminProductGet(d.Catalog, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(d.Catalog, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(d.Catalog, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.AdminCategoryCreate(d.Catalog, logg))
			r.Patch("/{categoryId}", controllers.AdminCategoryUpdate(d.Catalog, logg))
			r.Delete("/{categoryId}", controllers.AdminCategoryDelete(d.Catalog, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(d.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(d.Orders, logg))
		})

		r.Get("/dashboard/summary", controllers.AdminDashboardSummary(d.Dashboard, logg))

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.AdminSettingsGet(d.Settings, logg))
			r.Put("/", controllers.AdminSettingsUpdate(d.Settings, logg))
		})
	})

	return r
}

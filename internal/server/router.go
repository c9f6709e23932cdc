package server

import (
	"net/http"
	"time"

	"acai-backend/internal/config"
	"acai-backend/internal/domain"
	"acai-backend/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health     handler.HealthHandler
	Auth       handler.AuthHandler
	Settings   handler.SettingsHandler
	Docs       handler.DocsHandler
	Menu       handler.MenuHandler
	Delivery   handler.DeliveryHandler
	Checkout   handler.CheckoutHandler
	Uploads    handler.UploadHandler
	Products   handler.ProductHandler
	Items      handler.ItemHandler
	Lists      handler.ListHandler
	Categories handler.CategoryHandler
	Customers  handler.CustomerHandler
	Supplies   handler.SupplyHandler
	Recipes    handler.RecipeHandler
	Channels   handler.ChannelHandler
	Pricing    handler.PricingHandler
}

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config, logger *slog.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	h.Health.RegisterRoutes(r)
	h.Docs.RegisterRoutes(r)
	h.Settings.RegisterRoutes(r)
	h.Menu.RegisterRoutes(r)
	h.Delivery.RegisterRoutes(r)
	h.Uploads.RegisterPublicRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	// Order hand-off and sign-in are the endpoints worth hammering.
	r.Group(func(lr chi.Router) {
		lr.Use(httprate.LimitByIP(20, 1*time.Minute))
		h.Auth.RegisterRoutes(lr)
		h.Checkout.RegisterRoutes(lr)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(cfg.JWTSecret))
		pr.Use(RequireRole(domain.RoleAdmin, domain.RoleManager))
		h.Auth.RegisterProtectedRoutes(pr)
		h.Uploads.RegisterRoutes(pr)
		h.Products.RegisterRoutes(pr)
		h.Items.RegisterRoutes(pr)
		h.Lists.RegisterRoutes(pr)
		h.Categories.RegisterRoutes(pr)
		h.Customers.RegisterRoutes(pr)
		h.Supplies.RegisterRoutes(pr)
		h.Recipes.RegisterRoutes(pr)
		h.Channels.RegisterRoutes(pr)
		h.Pricing.RegisterRoutes(pr)
	})

	return r
}

package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tajirhq/tajir/internal/alerts"
	"github.com/tajirhq/tajir/internal/auth"
	"github.com/tajirhq/tajir/internal/bulk"
	"github.com/tajirhq/tajir/internal/catalog/products"
	"github.com/tajirhq/tajir/internal/catalog/shippers"
	"github.com/tajirhq/tajir/internal/expenses"
	"github.com/tajirhq/tajir/internal/finance"
	"github.com/tajirhq/tajir/internal/observability"
	"github.com/tajirhq/tajir/internal/orders"
	"github.com/tajirhq/tajir/internal/platform/httpx"
	"github.com/tajirhq/tajir/internal/settings"
	"github.com/tajirhq/tajir/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Config          *Config
	AuthService     *auth.Service
	AuthHandler     *auth.Handler
	ProductHandler  *products.Handler
	ShipperHandler  *shippers.Handler
	OrderHandler    *orders.Handler
	ExpenseHandler  *expenses.Handler
	FinanceHandler  *finance.Handler
	SettingsHandler *settings.Handler
	AlertHandler    *alerts.Handler
	BulkHandler     *bulk.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
	Middleware      []func(http.Handler) http.Handler
}

// NewRouter constructs the API router. Everything except login, health and
// metrics sits behind bearer-token auth.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(params.Middleware...)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", params.AuthHandler.MountPublicRoutes)

		api.Group(func(private chi.Router) {
			private.Use(params.AuthService.RequireAuth)

			private.Route("/account", params.AuthHandler.MountRoutes)
			private.Route("/products", params.ProductHandler.MountRoutes)
			private.Route("/shippers", params.ShipperHandler.MountRoutes)
			private.Route("/orders", params.OrderHandler.MountRoutes)
			private.Route("/expenses", params.ExpenseHandler.MountRoutes)
			private.Route("/finance", params.FinanceHandler.MountRoutes)
			private.Route("/settings", params.SettingsHandler.MountRoutes)
			private.Route("/alerts", params.AlertHandler.MountRoutes)
			private.Route("/bulk", params.BulkHandler.MountRoutes)
		})
	})

	return r
}

package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/expense-insight/internal/analytics"
	"github.com/frahmantamala/expense-insight/internal/assistant"
	"github.com/frahmantamala/expense-insight/internal/auth"
	"github.com/frahmantamala/expense-insight/internal/category"
	"github.com/frahmantamala/expense-insight/internal/expense"
	"github.com/frahmantamala/expense-insight/internal/transport/middleware"
	"github.com/frahmantamala/expense-insight/internal/transport/swagger"
	"github.com/frahmantamala/expense-insight/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups the HTTP handlers mounted by RegisterAllRoutes. A nil entry
// leaves its routes unmounted.
type Handlers struct {
	Health    *HealthHandler
	Auth      *auth.Handler
	User      *user.Handler
	Expense   *expense.Handler
	Analytics *analytics.Handler
	Assistant *assistant.Handler
	Category  *category.Handler
}

type RouterOptions struct {
	AllowedOrigins string
	OpenAPIPath    string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts RouterOptions, logger *slog.Logger) {
	// Apply global middleware
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if opts.OpenAPIPath != "" {
		// Serve OpenAPI spec at root (outside API prefix)
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, opts.OpenAPIPath)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", h.Auth.Register)
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
				pr.Patch("/settings/name", h.User.UpdateName)
				pr.Post("/profile/image", h.User.SetImage)
				pr.Delete("/profile/image", h.User.DeleteImage)
			}

			if h.Category != nil {
				pr.Get("/categories", h.Category.GetCategories)
			}

			if h.Expense != nil {
				pr.Route("/expenses", func(er chi.Router) {
					er.Post("/", h.Expense.CreateExpense)
					er.Get("/", h.Expense.ListExpenses)
				})
			}

			if h.Analytics != nil {
				pr.Get("/dashboard", h.Analytics.GetDashboard)
				pr.Get("/breakdown", h.Analytics.GetBreakdown)
				pr.Get("/analytics", h.Analytics.GetAnalytics)
			}

			if h.Assistant != nil {
				pr.Post("/nl-query", h.Assistant.Query)
				pr.Post("/recommendations", h.Assistant.Recommendations)
			}
		})
	})
}

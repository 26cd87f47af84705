// Package ignews registers the route table of the main application.
package ignews

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/ignews-app/ignews-backend/internal/http/handlers/auth/callback"
	"github.com/ignews-app/ignews-backend/internal/http/handlers/billing/webhook"
	"github.com/ignews-app/ignews-backend/internal/http/handlers/checkout/price"
	"github.com/ignews-app/ignews-backend/internal/http/handlers/checkout/subscribe"
	"github.com/ignews-app/ignews-backend/internal/http/handlers/health"
	"github.com/ignews-app/ignews-backend/internal/http/handlers/posts/list"
	"github.com/ignews-app/ignews-backend/internal/http/handlers/posts/preview"
	"github.com/ignews-app/ignews-backend/internal/http/handlers/posts/read"
	"github.com/ignews-app/ignews-backend/internal/http/middlewarectx"
	"github.com/ignews-app/ignews-backend/internal/lib/jwt"
	authservice "github.com/ignews-app/ignews-backend/internal/services/auth"
	checkoutservice "github.com/ignews-app/ignews-backend/internal/services/checkout"
	contentservice "github.com/ignews-app/ignews-backend/internal/services/content"
	syncservice "github.com/ignews-app/ignews-backend/internal/services/sync"
	"github.com/ignews-app/ignews-backend/internal/storage/repository"
)

// Services bundles everything the route table needs.
type Services struct {
	Auth     *authservice.Service
	Checkout *checkoutservice.Service
	Sync     *syncservice.Service
	Content  *contentservice.Service
	Maker    jwt.Maker
	DB       *repository.Storage
}

// RegisterRoutes registers all application routes.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services, webhookSecret string) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(50, 100)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/callback", callback.New(logger, s.Auth).ServeHTTP)
		r.Get("/price", price.New(logger, s.Checkout).ServeHTTP)
		r.Get("/posts", list.New(logger, s.Content).ServeHTTP)
		r.Get("/posts/preview/{slug}", preview.New(logger, s.Content).ServeHTTP)

		// Subscribe does its own method and session checks so a wrong
		// verb answers 405 with an Allow header instead of 401.
		r.HandleFunc("/subscribe", subscribe.New(logger, s.Checkout, s.Maker).ServeHTTP)

		// Paid content behind the session and entitlement gate
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Maker, logger))
			r.Use(middlewarectx.EntitlementMiddleware("/", logger))
			r.Use(middlewarectx.RateLimitMiddleware(limiter, logger))
			r.Get("/posts/{slug}", read.New(logger, s.Content).ServeHTTP)
		})

		// Webhook endpoint, authenticated by signature
		r.Post("/billing/webhook", webhook.New(logger, s.Sync, webhookSecret).ServeHTTP)
	})

	r.Get("/health", health.New(logger, s.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

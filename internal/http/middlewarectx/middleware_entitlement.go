package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
)

// EntitlementMiddleware guards paid content. Sessions without an active
// subscription are redirected to redirectURL with 302 Found instead of
// receiving the protected resource. Runs after JWTMiddleware.
func EntitlementMiddleware(redirectURL string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.EntitlementMiddleware"

			if !Entitled(r.Context()) {
				log.Info("session without active subscription, redirecting",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
				)
				http.Redirect(w, r, redirectURL, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

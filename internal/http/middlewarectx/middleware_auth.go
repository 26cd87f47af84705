// Package middlewarectx contains the HTTP middleware for session
// validation, entitlement gating and rate limiting.
//
// JWTMiddleware checks the Authorization header for a valid session
// token and puts the reader identity and the entitlement flag into the
// request context for the handlers downstream.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ignews-app/ignews-backend/internal/http/response"
	"github.com/ignews-app/ignews-backend/internal/lib/jwt"
	"github.com/ignews-app/ignews-backend/internal/lib/sl"
)

// Key is the type for request context keys.
type Key string

const (
	// Email is the context key for the reader email.
	Email Key = "email"
	// UserUID is the context key for the internal user id.
	UserUID Key = "user_uid"
	// ActiveSubscription is the context key for the entitlement flag.
	ActiveSubscription Key = "active_subscription"
)

// Entitled reports whether the session in ctx carries an active
// subscription.
func Entitled(ctx context.Context) bool {
	active, ok := ctx.Value(ActiveSubscription).(bool)
	return ok && active
}

// JWTMiddleware returns middleware that validates the session token in
// the Authorization header. On success the reader identity and the
// entitlement flag land in the request context; otherwise the request is
// rejected with 401 Unauthorized.
func JWTMiddleware(maker jwt.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := maker.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), Email, claims.Email)
			ctx = context.WithValue(ctx, UserUID, claims.UserUID)
			ctx = context.WithValue(ctx, ActiveSubscription, claims.ActiveSubscription)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

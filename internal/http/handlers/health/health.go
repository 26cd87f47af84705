// Package health implements the liveness probe endpoint.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/ignews-app/ignews-backend/internal/http/response"
	"github.com/ignews-app/ignews-backend/internal/lib/sl"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	CheckDatabaseReady(ctx context.Context) error
}

// Handler answers health checks.
type Handler struct {
	log    *slog.Logger
	pinger Pinger
}

// New creates a Handler.
func New(log *slog.Logger, pinger Pinger) *Handler {
	return &Handler{
		log:    log,
		pinger: pinger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := h.pinger.CheckDatabaseReady(r.Context()); err != nil {
		h.log.Error("database not ready", slog.String("op", op), sl.Err(err))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database not ready"))
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}

// Package read implements the HTTP handler for the full article body.
// The route is mounted behind the session and entitlement middleware, so
// every request reaching the handler belongs to an entitled reader.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ignews-app/ignews-backend/internal/http/response"
	"github.com/ignews-app/ignews-backend/internal/lib/sl"
	"github.com/ignews-app/ignews-backend/internal/models"
	"github.com/ignews-app/ignews-backend/internal/services/content"
)

// Handler serves full articles.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the article lookup used by the handler.
type Service interface {
	GetPost(ctx context.Context, slug string) (*models.Post, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP handles the article request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posts.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		log.Error("missing slug in url")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing slug in url"))
		return
	}

	post, err := h.service.GetPost(r.Context(), slug)
	if err != nil {
		if errors.Is(err, content.ErrPostNotFound) {
			log.Error("post not found", slog.String("slug", slug))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("post not found"))
			return
		}
		log.Error("failed to read post", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not load post"))
		return
	}

	log.Info("post served", slog.String("slug", slug))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"post": post,
	}))
}

// Package preview implements the public HTTP handler for truncated
// article previews shown to readers without an active subscription.
package preview

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

// Handler serves article previews.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the preview lookup used by the handler.
type Service interface {
	GetPostPreview(ctx context.Context, slug string) (*models.Post, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP handles the preview request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posts.preview"

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

	post, err := h.service.GetPostPreview(r.Context(), slug)
	if err != nil {
		if errors.Is(err, content.ErrPostNotFound) {
			log.Error("post not found", slog.String("slug", slug))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("post not found"))
			return
		}
		log.Error("failed to read post preview", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not load post"))
		return
	}

	log.Info("post preview served", slog.String("slug", slug))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"post": post,
	}))
}

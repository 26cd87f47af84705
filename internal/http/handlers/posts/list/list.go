// Package list implements the public HTTP handler for the article
// listing. Entries carry title, excerpt and update date only.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ignews-app/ignews-backend/internal/http/response"
	"github.com/ignews-app/ignews-backend/internal/lib/sl"
	"github.com/ignews-app/ignews-backend/internal/models"
)

// Handler serves the article listing.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the content listing used by the handler.
type Service interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP handles the listing request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posts.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not load posts"))
		return
	}

	log.Info("posts listed", slog.Int("count", len(posts)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"posts": posts,
	}))
}

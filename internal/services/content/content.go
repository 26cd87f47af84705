// Package content serves the article catalogue: public listings and
// excerpts for everyone, full article bodies for entitled readers, and
// truncated previews for everyone else.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ignews-app/ignews-backend/internal/cache"
	"github.com/ignews-app/ignews-backend/internal/contentprovider"
	"github.com/ignews-app/ignews-backend/internal/lib/sl"
	"github.com/ignews-app/ignews-backend/internal/models"
)

// ErrPostNotFound is returned when no article exists for the slug.
var ErrPostNotFound = errors.New("post not found")

const postDocType = "post"

// previewBlocks is how many rich text blocks a non-subscriber sees.
const previewBlocks = 3

// Provider defines the CMS reads used by the content service.
type Provider interface {
	QueryByType(ctx context.Context, docType string) ([]contentprovider.Document, error)
	GetByUID(ctx context.Context, docType, uid string) (*contentprovider.Document, error)
}

// Service is the content catalogue, backed by the CMS with a cache-aside
// layer in front of it.
type Service struct {
	provider Provider
	cache    *cache.Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

// New creates a content service. cache may be nil; every read then goes
// straight to the CMS.
func New(provider Provider, c *cache.Cache, cacheTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		provider: provider,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (s *Service) fromCache(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, out)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", key), sl.Err(err))
		return false
	}
	return found
}

func (s *Service) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.log.Warn("cache write failed", slog.String("key", key), sl.Err(err))
	}
}

// ListPosts returns all articles as listing entries: title, excerpt and
// update date, no body.
func (s *Service) ListPosts(ctx context.Context) ([]models.Post, error) {
	const op = "services.content.ListPosts"
	const key = "posts:list"

	var posts []models.Post
	if s.fromCache(ctx, key, &posts) {
		return posts, nil
	}

	docs, err := s.provider.QueryByType(ctx, postDocType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	posts = make([]models.Post, 0, len(docs))
	for _, doc := range docs {
		posts = append(posts, models.Post{
			Slug:      doc.UID,
			Title:     contentprovider.AsText(doc.Data.Title),
			Excerpt:   contentprovider.FirstParagraph(doc.Data.Content),
			UpdatedAt: doc.UpdatedAt(),
		})
	}

	s.toCache(ctx, key, posts)
	return posts, nil
}

// GetPost returns the full article for entitled readers.
func (s *Service) GetPost(ctx context.Context, slug string) (*models.Post, error) {
	const op = "services.content.GetPost"
	key := "post:" + slug

	var post models.Post
	if s.fromCache(ctx, key, &post) {
		return &post, nil
	}

	doc, err := s.provider.GetByUID(ctx, postDocType, slug)
	if err != nil {
		if errors.Is(err, contentprovider.ErrNotFound) {
			return nil, fmt.Errorf("%s: %s: %w", op, slug, ErrPostNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	post = models.Post{
		Slug:      doc.UID,
		Title:     contentprovider.AsText(doc.Data.Title),
		Content:   contentprovider.AsHTML(doc.Data.Content),
		UpdatedAt: doc.UpdatedAt(),
	}

	s.toCache(ctx, key, post)
	return &post, nil
}

// GetPostPreview returns a truncated rendition of the article for
// readers without an active subscription.
func (s *Service) GetPostPreview(ctx context.Context, slug string) (*models.Post, error) {
	const op = "services.content.GetPostPreview"
	key := "post:preview:" + slug

	var post models.Post
	if s.fromCache(ctx, key, &post) {
		return &post, nil
	}

	doc, err := s.provider.GetByUID(ctx, postDocType, slug)
	if err != nil {
		if errors.Is(err, contentprovider.ErrNotFound) {
			return nil, fmt.Errorf("%s: %s: %w", op, slug, ErrPostNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	blocks := doc.Data.Content
	if len(blocks) > previewBlocks {
		blocks = blocks[:previewBlocks]
	}
	post = models.Post{
		Slug:      doc.UID,
		Title:     contentprovider.AsText(doc.Data.Title),
		Content:   contentprovider.AsHTML(blocks),
		UpdatedAt: doc.UpdatedAt(),
	}

	s.toCache(ctx, key, post)
	return &post, nil
}

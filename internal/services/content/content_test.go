package content

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignews-app/ignews-backend/internal/cache"
	"github.com/ignews-app/ignews-backend/internal/contentprovider"
)

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) QueryByType(ctx context.Context, docType string) ([]contentprovider.Document, error) {
	args := m.Called(ctx, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contentprovider.Document), args.Error(1)
}

func (m *ProviderMock) GetByUID(ctx context.Context, docType, uid string) (*contentprovider.Document, error) {
	args := m.Called(ctx, docType, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contentprovider.Document), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return &cache.Cache{Db: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
}

func sampleDocument() *contentprovider.Document {
	doc := &contentprovider.Document{
		UID:                 "go-generics",
		LastPublicationDate: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	doc.Data.Title = []contentprovider.RichTextBlock{{Type: "heading1", Text: "Go Generics"}}
	doc.Data.Content = []contentprovider.RichTextBlock{
		{Type: "paragraph", Text: "First paragraph."},
		{Type: "paragraph", Text: "Second paragraph."},
		{Type: "paragraph", Text: "Third paragraph."},
		{Type: "paragraph", Text: "Paid paragraph."},
	}
	return doc
}

func TestService_ListPosts(t *testing.T) {
	provider := new(ProviderMock)
	provider.On("QueryByType", mock.Anything, "post").
		Return([]contentprovider.Document{*sampleDocument()}, nil).Once()

	service := New(provider, newTestCache(t), time.Minute, newNoopLogger())

	posts, err := service.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "go-generics", posts[0].Slug)
	assert.Equal(t, "Go Generics", posts[0].Title)
	assert.Equal(t, "First paragraph.", posts[0].Excerpt)
	assert.Empty(t, posts[0].Content)

	// Second read is served from cache, the provider is not hit again.
	again, err := service.ListPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, posts, again)
	provider.AssertNumberOfCalls(t, "QueryByType", 1)
}

func TestService_GetPost(t *testing.T) {
	provider := new(ProviderMock)
	provider.On("GetByUID", mock.Anything, "post", "go-generics").
		Return(sampleDocument(), nil).Once()

	service := New(provider, newTestCache(t), time.Minute, newNoopLogger())

	post, err := service.GetPost(context.Background(), "go-generics")
	require.NoError(t, err)
	assert.Equal(t, "Go Generics", post.Title)
	assert.Contains(t, post.Content, "Paid paragraph.")

	again, err := service.GetPost(context.Background(), "go-generics")
	require.NoError(t, err)
	assert.Equal(t, post, again)
	provider.AssertNumberOfCalls(t, "GetByUID", 1)
}

func TestService_GetPostPreview_Truncates(t *testing.T) {
	provider := new(ProviderMock)
	provider.On("GetByUID", mock.Anything, "post", "go-generics").
		Return(sampleDocument(), nil)

	service := New(provider, nil, time.Minute, newNoopLogger())

	post, err := service.GetPostPreview(context.Background(), "go-generics")
	require.NoError(t, err)
	assert.Contains(t, post.Content, "Third paragraph.")
	assert.NotContains(t, post.Content, "Paid paragraph.")
}

func TestService_GetPost_NotFound(t *testing.T) {
	provider := new(ProviderMock)
	provider.On("GetByUID", mock.Anything, "post", "missing").
		Return(nil, contentprovider.ErrNotFound)

	service := New(provider, nil, time.Minute, newNoopLogger())

	_, err := service.GetPost(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestService_ListPosts_ProviderFailure(t *testing.T) {
	provider := new(ProviderMock)
	provider.On("QueryByType", mock.Anything, "post").
		Return(nil, errors.New("cms down"))

	service := New(provider, nil, time.Minute, newNoopLogger())

	_, err := service.ListPosts(context.Background())
	require.Error(t, err)
}

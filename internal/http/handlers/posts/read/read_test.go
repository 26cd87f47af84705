package read_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignews-app/ignews-backend/internal/http/handlers/posts/read"
	"github.com/ignews-app/ignews-backend/internal/models"
	"github.com/ignews-app/ignews-backend/internal/services/content"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) GetPost(ctx context.Context, slug string) (*models.Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_ServeHTTP(t *testing.T) {
	post := &models.Post{
		Slug:      "go-generics",
		Title:     "Go Generics",
		Content:   "<p>Full body.</p>",
		UpdatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name           string
		slug           string
		setupMocks     func(s *ServiceMock)
		wantStatusCode int
		wantTitle      string
	}{
		{
			name: "success",
			slug: "go-generics",
			setupMocks: func(s *ServiceMock) {
				s.On("GetPost", mock.Anything, "go-generics").Return(post, nil)
			},
			wantStatusCode: http.StatusOK,
			wantTitle:      "Go Generics",
		},
		{
			name: "not found",
			slug: "missing",
			setupMocks: func(s *ServiceMock) {
				s.On("GetPost", mock.Anything, "missing").
					Return(nil, content.ErrPostNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "cms failure",
			slug: "go-generics",
			setupMocks: func(s *ServiceMock) {
				s.On("GetPost", mock.Anything, "go-generics").
					Return(nil, errors.New("cms down"))
			},
			wantStatusCode: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			tt.setupMocks(service)

			router := chi.NewRouter()
			router.Method(http.MethodGet, "/posts/{slug}", read.New(newNoopLogger(), service))

			req := httptest.NewRequest(http.MethodGet, "/posts/"+tt.slug, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			if tt.wantTitle != "" {
				var resp struct {
					Data struct {
						Post models.Post `json:"post"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantTitle, resp.Data.Post.Title)
			}
			service.AssertExpectations(t)
		})
	}
}

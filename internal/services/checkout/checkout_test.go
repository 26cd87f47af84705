package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignews-app/ignews-backend/internal/models"
	"github.com/ignews-app/ignews-backend/internal/paymentprovider"
	"github.com/ignews-app/ignews-backend/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) AttachCustomerID(ctx context.Context, userUID, customerID string) (bool, error) {
	args := m.Called(ctx, userUID, customerID)
	return args.Bool(0), args.Error(1)
}

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) CreateCustomer(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *ProviderMock) CreateCheckoutSession(ctx context.Context, customerID, priceID string) (string, error) {
	args := m.Called(ctx, customerID, priceID)
	return args.String(0), args.Error(1)
}

func (m *ProviderMock) RetrievePrice(ctx context.Context, priceID string) (*paymentprovider.PriceResult, error) {
	args := m.Called(ctx, priceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.PriceResult), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_CreateCheckoutSession(t *testing.T) {
	const priceID = "price_1"

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, p *ProviderMock)
		want       string
		wantErr    error
	}{
		{
			name: "first checkout creates and attaches customer",
			setupMocks: func(r *RepoMock, p *ProviderMock) {
				r.On("GetUserByEmail", mock.Anything, "reader@example.com").
					Return(&models.User{UID: "uid-1", Email: "reader@example.com"}, nil).Once()
				p.On("CreateCustomer", mock.Anything, "reader@example.com").
					Return("cus_new", nil)
				r.On("AttachCustomerID", mock.Anything, "uid-1", "cus_new").
					Return(true, nil)
				p.On("CreateCheckoutSession", mock.Anything, "cus_new", priceID).
					Return("cs_1", nil)
			},
			want: "cs_1",
		},
		{
			name: "repeat checkout reuses stored customer",
			setupMocks: func(r *RepoMock, p *ProviderMock) {
				r.On("GetUserByEmail", mock.Anything, "reader@example.com").
					Return(&models.User{UID: "uid-1", Email: "reader@example.com", StripeCustomerID: "cus_1"}, nil)
				p.On("CreateCheckoutSession", mock.Anything, "cus_1", priceID).
					Return("cs_2", nil)
			},
			want: "cs_2",
		},
		{
			name: "lost attach race reuses the winner's customer",
			setupMocks: func(r *RepoMock, p *ProviderMock) {
				r.On("GetUserByEmail", mock.Anything, "reader@example.com").
					Return(&models.User{UID: "uid-1", Email: "reader@example.com"}, nil).Once()
				p.On("CreateCustomer", mock.Anything, "reader@example.com").
					Return("cus_loser", nil)
				r.On("AttachCustomerID", mock.Anything, "uid-1", "cus_loser").
					Return(false, nil)
				r.On("GetUserByEmail", mock.Anything, "reader@example.com").
					Return(&models.User{UID: "uid-1", Email: "reader@example.com", StripeCustomerID: "cus_winner"}, nil).Once()
				p.On("CreateCheckoutSession", mock.Anything, "cus_winner", priceID).
					Return("cs_3", nil)
			},
			want: "cs_3",
		},
		{
			name: "unknown email fails with ErrUserNotFound",
			setupMocks: func(r *RepoMock, _ *ProviderMock) {
				r.On("GetUserByEmail", mock.Anything, "reader@example.com").
					Return(nil, fmt.Errorf("storage.GetUserByEmail: %w", repository.ErrNotFound))
			},
			wantErr: ErrUserNotFound,
		},
		{
			name: "customer creation failure maps to ErrUpstreamUnavailable",
			setupMocks: func(r *RepoMock, p *ProviderMock) {
				r.On("GetUserByEmail", mock.Anything, "reader@example.com").
					Return(&models.User{UID: "uid-1", Email: "reader@example.com"}, nil)
				p.On("CreateCustomer", mock.Anything, "reader@example.com").
					Return("", errors.New("503"))
			},
			wantErr: ErrUpstreamUnavailable,
		},
		{
			name: "session creation failure maps to ErrUpstreamUnavailable",
			setupMocks: func(r *RepoMock, p *ProviderMock) {
				r.On("GetUserByEmail", mock.Anything, "reader@example.com").
					Return(&models.User{UID: "uid-1", Email: "reader@example.com", StripeCustomerID: "cus_1"}, nil)
				p.On("CreateCheckoutSession", mock.Anything, "cus_1", priceID).
					Return("", errors.New("503"))
			},
			wantErr: ErrUpstreamUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			provider := new(ProviderMock)
			tt.setupMocks(repo, provider)

			service := New(repo, provider, priceID, newNoopLogger())
			got, err := service.CreateCheckoutSession(context.Background(), "reader@example.com")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			repo.AssertExpectations(t)
			provider.AssertExpectations(t)
		})
	}
}

func TestService_RetrievePrice(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	provider.On("RetrievePrice", mock.Anything, "price_1").
		Return(&paymentprovider.PriceResult{Amount: 990, Currency: "usd"}, nil)

	service := New(repo, provider, "price_1", newNoopLogger())
	price, err := service.RetrievePrice(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(990), price.Amount)
	assert.Equal(t, "usd", price.Currency)
}

func TestService_RetrievePrice_Unavailable(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	provider.On("RetrievePrice", mock.Anything, "price_1").
		Return(nil, errors.New("timeout"))

	service := New(repo, provider, "price_1", newNoopLogger())
	_, err := service.RetrievePrice(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

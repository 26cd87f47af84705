// Package checkout starts payment provider checkout sessions for
// authenticated readers and exposes the public plan price.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ignews-app/ignews-backend/internal/models"
	"github.com/ignews-app/ignews-backend/internal/paymentprovider"
	"github.com/ignews-app/ignews-backend/internal/storage/repository"
)

// ErrUserNotFound means the email carries no local user record; the
// caller must sign in before subscribing.
var ErrUserNotFound = errors.New("user not found")

// ErrUpstreamUnavailable means a payment provider call failed.
var ErrUpstreamUnavailable = errors.New("payment provider unavailable")

// Repository defines the storage operations used by checkout.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// AttachCustomerID stores customerID on the user only when the user
	// has none yet. It reports whether the write happened.
	AttachCustomerID(ctx context.Context, userUID, customerID string) (bool, error)
}

// PaymentProvider defines the provider operations used by checkout.
type PaymentProvider interface {
	CreateCustomer(ctx context.Context, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, customerID, priceID string) (string, error)
	RetrievePrice(ctx context.Context, priceID string) (*paymentprovider.PriceResult, error)
}

// Service is the checkout initiator.
type Service struct {
	repo     Repository
	provider PaymentProvider
	priceID  string
	log      *slog.Logger
}

// New creates a checkout service bound to a single subscription plan.
func New(repo Repository, provider PaymentProvider, priceID string, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		priceID:  priceID,
		log:      log,
	}
}

// CreateCheckoutSession prepares a provider checkout session for the
// user identified by email and returns the session id. The provider
// customer is created lazily on first checkout and remembered on the
// user record; subsequent checkouts reuse it.
func (s *Service) CreateCheckoutSession(ctx context.Context, email string) (string, error) {
	const op = "services.checkout.CreateCheckoutSession"

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%s: %s: %w", op, email, ErrUserNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		customerID, err = s.provider.CreateCustomer(ctx, user.Email)
		if err != nil {
			return "", fmt.Errorf("%s: %w: %s", op, ErrUpstreamUnavailable, err)
		}
		attached, err := s.repo.AttachCustomerID(ctx, user.UID, customerID)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if !attached {
			// Lost a race with a concurrent checkout; use the winner's
			// customer and leave the one we just created orphaned.
			current, err := s.repo.GetUserByEmail(ctx, email)
			if err != nil {
				return "", fmt.Errorf("%s: %w", op, err)
			}
			s.log.Warn("customer already attached, reusing existing",
				slog.String("user_uid", user.UID),
				slog.String("orphaned_customer_id", customerID),
			)
			customerID = current.StripeCustomerID
		} else {
			s.log.Info("payment customer created",
				slog.String("user_uid", user.UID),
				slog.String("customer_id", customerID),
			)
		}
	}

	sessionID, err := s.provider.CreateCheckoutSession(ctx, customerID, s.priceID)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %s", op, ErrUpstreamUnavailable, err)
	}
	return sessionID, nil
}

// RetrievePrice returns the display price of the subscription plan.
func (s *Service) RetrievePrice(ctx context.Context) (*paymentprovider.PriceResult, error) {
	const op = "services.checkout.RetrievePrice"

	price, err := s.provider.RetrievePrice(ctx, s.priceID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrUpstreamUnavailable, err)
	}
	return price, nil
}

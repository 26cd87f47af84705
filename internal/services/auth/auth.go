// Package auth turns a verified identity-provider sign-in into a local
// user record and a session token.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ignews-app/ignews-backend/internal/lib/jwt"
	"github.com/ignews-app/ignews-backend/internal/models"
)

// Repository defines the storage operations used at sign-in.
type Repository interface {
	// UpsertUserByEmail creates the user on first sign-in and returns
	// the existing record on every later one.
	UpsertUserByEmail(ctx context.Context, email string) (*models.User, error)
	HasActiveSubscription(ctx context.Context, userUID string) (bool, error)
}

// Service issues sessions for readers whose identity the OAuth provider
// has already verified.
type Service struct {
	repo     Repository
	tokenMkr jwt.Maker
	log      *slog.Logger
}

// New creates an auth service.
func New(repo Repository, tokenMkr jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		tokenMkr: tokenMkr,
		log:      log,
	}
}

// SignIn upserts the user for email and returns a session token carrying
// the entitlement snapshot taken at this moment. The flag only refreshes
// on the next sign-in; a webhook landing mid-session does not upgrade an
// already issued token.
func (s *Service) SignIn(ctx context.Context, email string) (string, error) {
	const op = "services.auth.SignIn"

	user, err := s.repo.UpsertUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	active, err := s.repo.HasActiveSubscription(ctx, user.UID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.tokenMkr.GenerateToken(user.Email, user.UID, active)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user signed in",
		slog.String("user_uid", user.UID),
		slog.Bool("active_subscription", active),
	)
	return token, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignews-app/ignews-backend/internal/models"
)

// UpsertUserByEmail creates a user for the email when none exists and
// returns the stored record either way. Emails are matched case
// insensitively through the unique lower(email) index, so two concurrent
// sign-ins for the same address converge on one row.
func (s *Storage) UpsertUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.UpsertUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	insert := `INSERT INTO users (uid, email)
			   VALUES ($1, $2)
			   ON CONFLICT (lower(email)) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, insert, uuid.NewString(), email); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.GetUserByEmail(ctx, email)
}

// GetUserByEmail returns the user with the given email, matched case
// insensitively.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, stripe_customer_id, created_at
			  FROM users
			  WHERE lower(email) = lower($1)`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)

	var customerID sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &customerID, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if customerID.Valid {
		u.StripeCustomerID = customerID.String
	}
	return u, nil
}

// GetUserByCustomerID returns the user whose stored payment customer id
// equals customerID.
func (s *Storage) GetUserByCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	const op = "storage.GetUserByCustomerID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, stripe_customer_id, created_at
			  FROM users
			  WHERE stripe_customer_id = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, customerID)

	var storedID sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &storedID, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if storedID.Valid {
		u.StripeCustomerID = storedID.String
	}
	return u, nil
}

// AttachCustomerID stores the payment customer id on the user, only when
// no id is attached yet. Returns false when another writer got there
// first, in which case the stored id wins.
func (s *Storage) AttachCustomerID(ctx context.Context, userUID, customerID string) (bool, error) {
	const op = "storage.AttachCustomerID"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET stripe_customer_id = $1
			  WHERE uid = $2 AND stripe_customer_id IS NULL`
	result, err := s.DB.ExecContext(ctx, query, customerID, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}

// HasActiveSubscription reports whether the user owns at least one
// subscription record in an active-equivalent status.
func (s *Storage) HasActiveSubscription(ctx context.Context, userUID string) (bool, error) {
	const op = "storage.HasActiveSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
				  SELECT 1 FROM subscriptions
				  WHERE user_uid = $1 AND status = ANY($2::text[])
			  )`
	var active bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, activeStatusArray()).Scan(&active); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return active, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ignews-app/ignews-backend/internal/models"
)

// activeStatusArray renders the active-equivalent statuses as a postgres
// text array literal for ANY($n::text[]) predicates.
func activeStatusArray() string {
	return "{" + strings.Join(models.ActiveStatuses, ",") + "}"
}

// UpsertSubscription creates the subscription record when it does not
// exist and fully replaces its mutable fields when it does. The single
// statement keyed on the primary key makes concurrent synchronize calls
// for the same subscription converge on one row, last writer wins.
func (s *Storage) UpsertSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.UpsertSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, user_uid, status, price_id, updated_at)
			  VALUES ($1, $2, $3, $4, now())
			  ON CONFLICT (id) DO UPDATE
			  SET status = EXCLUDED.status,
			      price_id = EXCLUDED.price_id,
			      updated_at = now()`
	if _, err := s.DB.ExecContext(ctx, query, sub.ID, sub.UserUID, sub.Status, sub.PriceID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSubscription returns the subscription record by its provider id.
func (s *Storage) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, status, price_id, updated_at
			  FROM subscriptions
			  WHERE id = $1`
	var result models.Subscription
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&result.ID, &result.UserUID, &result.Status, &result.PriceID, &result.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// CountSubscriptions returns the number of records stored for the given
// provider subscription id. Used by tests to assert idempotency.
func (s *Storage) CountSubscriptions(ctx context.Context, id string) (int, error) {
	const op = "storage.CountSubscriptions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscriptions WHERE id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

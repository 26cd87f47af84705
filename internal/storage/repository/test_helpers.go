package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDataFactory holds helpers for seeding test data.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory creates a test data factory.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser seeds a user row and returns its uid.
func (f *TestDataFactory) CreateUser(t *testing.T, email, stripeCustomerID string) string {
	t.Helper()
	uid := uuid.NewString()
	var customerID any
	if stripeCustomerID != "" {
		customerID = stripeCustomerID
	}
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, email, stripe_customer_id)
		VALUES ($1, $2, $3)`,
		uid, email, customerID)
	require.NoError(t, err)
	return uid
}

// CreateSubscription seeds a subscription record.
func (f *TestDataFactory) CreateSubscription(t *testing.T, id, userUID, status, priceID string) {
	t.Helper()
	_, err := f.storage.DB.Exec(`INSERT INTO subscriptions (id, user_uid, status, price_id)
		VALUES ($1, $2, $3, $4)`,
		id, userUID, status, priceID)
	require.NoError(t, err)
}

// setupTestDatabase starts a throwaway PostgreSQL container with the
// application schema applied.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			if err = storage.DB.Ping(); err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	_, err = storage.DB.Exec(`
        CREATE EXTENSION IF NOT EXISTS "pgcrypto";

        CREATE TABLE users (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            email TEXT NOT NULL,
            stripe_customer_id TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );
        CREATE UNIQUE INDEX users_email_lower_idx ON users (lower(email));
        CREATE UNIQUE INDEX users_stripe_customer_id_idx ON users (stripe_customer_id);

        CREATE TABLE subscriptions (
            id TEXT PRIMARY KEY,
            user_uid UUID NOT NULL REFERENCES users(uid),
            status TEXT NOT NULL,
            price_id TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );
        CREATE INDEX subscriptions_user_uid_idx ON subscriptions (user_uid);
    `)
	require.NoError(t, err, "failed to create schema")

	cleanup := func() {
		_ = storage.DB.Close()
		_ = container.Terminate(ctx)
	}
	return storage, cleanup
}

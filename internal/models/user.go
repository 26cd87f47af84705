// Package models contains the domain structures shared between the
// business logic and the storage layer.
package models

import "time"

// User represents a registered reader. Users are created on first
// successful sign-in through the identity provider; the payment customer
// id is attached lazily the first time the user initiates checkout.
type User struct {
	UID              string    // Internal stable identifier
	Email            string    // Unique, matched case-insensitively
	StripeCustomerID string    // Payment provider customer id, empty until first checkout
	CreatedAt        time.Time
}

// SignInRequest is the payload delivered by the identity provider
// callback when a sign-in completes.
type SignInRequest struct {
	User struct {
		Email string `json:"email" validate:"required,email"`
	} `json:"user"`
}

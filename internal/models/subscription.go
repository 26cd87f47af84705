package models

import "time"

// ActiveStatuses are the provider statuses that grant access to gated
// content. The payment provider owns the status vocabulary, we only
// distinguish active-equivalent values.
var ActiveStatuses = []string{"active", "trialing"}

// Subscription is the local mirror of a payment provider subscription.
// The record is keyed by the provider's subscription id, owned by the
// synchronizer and never deleted; status transitions overwrite in place.
type Subscription struct {
	ID        string    // Payment provider subscription id
	UserUID   string    // Owning user
	Status    string    // Provider status, treated as an opaque string
	PriceID   string    // Provider price/plan id
	UpdatedAt time.Time
}

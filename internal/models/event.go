package models

import "time"

// SubscriptionEvent is published to the notifications exchange after the
// synchronizer persists a status change, and consumed by the sender.
type SubscriptionEvent struct {
	SubscriptionID string    `json:"subscription_id"`
	UserUID        string    `json:"user_uid"`
	Email          string    `json:"email"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

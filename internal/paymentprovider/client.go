// Package paymentprovider wraps the Stripe API behind a small client with
// explicit result types per call. The client is constructed once at
// startup and injected into the services that need it.
package paymentprovider

import (
	"context"
	"fmt"
	"net/http"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/ignews-app/ignews-backend/internal/config"
)

// Client talks to Stripe. Every call is bounded by the configured HTTP
// timeout; callers decide whether to retry.
type Client struct {
	api        *client.API
	successURL string
	cancelURL  string
}

// NewClient builds a Stripe client from the configuration.
func NewClient(cfg config.Stripe) *Client {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	api := client.New(cfg.APIKey, stripe.NewBackends(httpClient))
	return &Client{
		api:        api,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

// CreateCustomer registers a new Stripe customer for the given email and
// returns its id.
func (c *Client) CreateCustomer(ctx context.Context, email string) (string, error) {
	const op = "paymentprovider.CreateCustomer"
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx

	customer, err := c.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return customer.ID, nil
}

// CreateCheckoutSession opens a subscription checkout for the customer on
// the given price and returns the checkout session id for the client-side
// redirect.
func (c *Client) CreateCheckoutSession(ctx context.Context, customerID, priceID string) (string, error) {
	const op = "paymentprovider.CreateCheckoutSession"
	params := &stripe.CheckoutSessionParams{
		Customer:                 stripe.String(customerID),
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		BillingAddressCollection: stripe.String("required"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:                stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		AllowPromotionCodes: stripe.Bool(true),
		SuccessURL:          stripe.String(c.successURL),
		CancelURL:           stripe.String(c.cancelURL),
	}
	params.Context = ctx

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return session.ID, nil
}

// SubscriptionResult is the authoritative subscription state fetched from
// Stripe, reduced to the fields mirrored locally.
type SubscriptionResult struct {
	Status  string
	PriceID string
}

// RetrieveSubscription fetches the subscription by id and extracts its
// status and price id.
func (c *Client) RetrieveSubscription(ctx context.Context, subscriptionID string) (*SubscriptionResult, error) {
	const op = "paymentprovider.RetrieveSubscription"
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := c.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result := &SubscriptionResult{
		Status: string(sub.Status),
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		result.PriceID = sub.Items.Data[0].Price.ID
	}
	return result, nil
}

// PriceResult carries the plan price shown on the landing page.
type PriceResult struct {
	Amount   int64
	Currency string
}

// RetrievePrice fetches the unit amount and currency of a price.
func (c *Client) RetrievePrice(ctx context.Context, priceID string) (*PriceResult, error) {
	const op = "paymentprovider.RetrievePrice"
	params := &stripe.PriceParams{}
	params.Context = ctx

	price, err := c.api.Prices.Get(priceID, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &PriceResult{
		Amount:   price.UnitAmount,
		Currency: string(price.Currency),
	}, nil
}

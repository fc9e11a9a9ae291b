package service

import (
	"context"
	"encoding/json"
	"fmt"

	"prompt-polish/internal/domain"
	apperrors "prompt-polish/pkg/errors"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/subscription"
)

// StripeBilling implements domain.BillingService. It is the only writer of
// the plan field: checkout and subscription lifecycle events flow through
// here, never through the request path.
type StripeBilling struct {
	planRepo domain.PlanRepository
	logger   domain.Logger
	priceID  string
	appURL   string

	// fetchSubscriptionStatus is swappable in tests; the default asks the
	// Stripe API for the subscription created by a checkout session.
	fetchSubscriptionStatus func(subscriptionID string) (string, error)
}

// NewStripeBilling creates the Stripe billing service.
func NewStripeBilling(planRepo domain.PlanRepository, logger domain.Logger, priceID, appURL string) *StripeBilling {
	return &StripeBilling{
		planRepo: planRepo,
		logger:   logger,
		priceID:  priceID,
		appURL:   appURL,
		fetchSubscriptionStatus: func(subscriptionID string) (string, error) {
			sub, err := subscription.Get(subscriptionID, nil)
			if err != nil {
				return "", err
			}
			return string(sub.Status), nil
		},
	}
}

// CreateCheckoutSession starts a subscription checkout for the user and
// returns the hosted checkout URL.
func (b *StripeBilling) CreateCheckoutSession(ctx context.Context, userID, email string) (string, error) {
	if b.priceID == "" {
		return "", apperrors.NewConfigError("stripe price id not configured")
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(b.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(b.appURL + "/?success=true"),
		CancelURL:  stripe.String(b.appURL + "/?canceled=true"),
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.Context = ctx
	// The webhook resolves the paying user from this metadata.
	params.AddMetadata("userId", userID)

	sess, err := session.New(params)
	if err != nil {
		return "", apperrors.NewUpstreamError("failed to create checkout session", err)
	}

	b.logger.Info("Checkout session created", "user_id", userID, "session_id", sess.ID)
	return sess.URL, nil
}

// HandleEvent applies one verified webhook event to the plan store. Unknown
// event types are acknowledged without action so Stripe stops retrying them.
func (b *StripeBilling) HandleEvent(eventType string, payload []byte) error {
	switch eventType {
	case "checkout.session.completed":
		return b.handleCheckoutCompleted(payload)
	case "customer.subscription.updated", "customer.subscription.deleted":
		return b.handleSubscriptionChange(payload)
	default:
		b.logger.Debug("Ignoring webhook event", "type", eventType)
		return nil
	}
}

func (b *StripeBilling) handleCheckoutCompleted(payload []byte) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(payload, &sess); err != nil {
		return apperrors.NewValidationError("malformed checkout session payload")
	}

	userID := sess.Metadata["userId"]
	if userID == "" {
		return apperrors.NewValidationError("checkout session missing userId metadata")
	}

	var customerID, subscriptionID string
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}
	if sess.Subscription != nil {
		subscriptionID = sess.Subscription.ID
	}

	status := "active"
	if subscriptionID != "" {
		if s, err := b.fetchSubscriptionStatus(subscriptionID); err != nil {
			b.logger.Warn("Failed to fetch subscription status, assuming active", "subscription_id", subscriptionID, "error", err)
		} else {
			status = s
		}
	}

	if err := b.planRepo.UpsertBilling(userID, customerID, subscriptionID, domain.PlanPro, status); err != nil {
		return fmt.Errorf("failed to record checkout: %w", err)
	}

	b.logger.Info("User upgraded to pro", "user_id", userID, "subscription_id", subscriptionID)
	return nil
}

func (b *StripeBilling) handleSubscriptionChange(payload []byte) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(payload, &sub); err != nil {
		return apperrors.NewValidationError("malformed subscription payload")
	}
	if sub.ID == "" {
		return apperrors.NewValidationError("subscription event missing id")
	}

	plan := domain.PlanFree
	if sub.Status == stripe.SubscriptionStatusActive {
		plan = domain.PlanPro
	}

	if err := b.planRepo.UpdatePlanBySubscriptionID(sub.ID, plan, string(sub.Status)); err != nil {
		return fmt.Errorf("failed to apply subscription change: %w", err)
	}

	b.logger.Info("Subscription state applied", "subscription_id", sub.ID, "plan", plan, "status", sub.Status)
	return nil
}

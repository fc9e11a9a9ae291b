package domain

import (
	"context"
	"time"
)

// PlanRepository defines storage for per-user plan records. Implementations
// use merge upserts keyed on the user id so duplicate or out-of-order writes
// converge to the same final state.
//
// The read-then-write window between GetPlan and UpsertUsage means two
// concurrent requests near the quota boundary can both pass the gate; the
// daily limit is a soft courtesy limit, not a security boundary.
type PlanRepository interface {
	// GetPlan returns the record for a user, or a default free record when
	// none is stored.
	GetPlan(userID string) (*PlanRecord, error)
	// UpsertUsage persists the usage counter and reset marker.
	UpsertUsage(userID string, promptsUsed int, lastReset string) error
	// UpsertBilling persists the plan and billing references after a
	// checkout completes.
	UpsertBilling(userID, customerID, subscriptionID string, plan Plan, status string) error
	// UpdatePlanBySubscriptionID applies a subscription lifecycle change to
	// whichever record holds the given billing subscription reference.
	UpdatePlanBySubscriptionID(subscriptionID string, plan Plan, status string) error
}

// BillingService bridges the checkout and webhook flows to the plan store.
// It is the only writer of PlanRecord.Plan.
type BillingService interface {
	// CreateCheckoutSession returns the hosted checkout URL for upgrading
	// the given user to pro.
	CreateCheckoutSession(ctx context.Context, userID, email string) (string, error)
	// HandleEvent processes one verified billing event. The raw payload is
	// the event's data object; signature verification happens before this
	// is called.
	HandleEvent(eventType string, payload []byte) error
}

// AuthService validates caller identity tokens.
type AuthService interface {
	ValidateToken(token string) (*SupabaseUser, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string

	GetSupabaseURL() string
	GetSupabaseKey() string

	GetEnhancerProvider() string
	GetGoogleProjectID() string
	GetGoogleLocation() string
	GetGeminiModel() string
	GetOpenAIKey() string
	GetOpenAIModel() string

	GetStripeSecretKey() string
	GetStripeWebhookSecret() string
	GetStripePriceID() string
	GetAppURL() string

	GetStatePath() string
	GetStreamIdleTimeout() time.Duration
}

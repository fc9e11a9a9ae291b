package repository

import (
	"encoding/json"
	"fmt"

	"prompt-polish/internal/domain"
)

const planTable = "user_plans"

// SupabasePlanRepository implements domain.PlanRepository over the
// user_plans table.
type SupabasePlanRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabasePlanRepository creates a new Supabase plan repository
func NewSupabasePlanRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.PlanRepository {
	return &SupabasePlanRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// GetPlan retrieves the plan record for a user. A user without a stored row
// gets the default free record; callers never see "no rows" as an error.
func (r *SupabasePlanRepository) GetPlan(userID string) (*domain.PlanRecord, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(planTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(rows) == 0 {
		return domain.DefaultPlanRecord(userID), nil
	}

	return r.mapToPlanRecord(rows[0]), nil
}

// UpsertUsage persists the usage counter, merge-keyed on user_id.
func (r *SupabasePlanRepository) UpsertUsage(userID string, promptsUsed int, lastReset string) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	data := map[string]interface{}{
		"user_id":      userID,
		"prompts_used": promptsUsed,
		"last_reset":   lastReset,
	}

	_, _, err := client.From(planTable).
		Upsert(data, "user_id", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert usage: %w", err)
	}

	r.logger.Debug("Usage upserted", "user_id", userID, "prompts_used", promptsUsed)
	return nil
}

// UpsertBilling persists plan and billing references after checkout,
// merge-keyed on user_id so repeated event delivery converges.
func (r *SupabasePlanRepository) UpsertBilling(userID, customerID, subscriptionID string, plan domain.Plan, status string) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	data := map[string]interface{}{
		"user_id":                userID,
		"stripe_customer_id":     customerID,
		"stripe_subscription_id": subscriptionID,
		"plan":                   string(plan),
		"status":                 status,
	}

	_, _, err := client.From(planTable).
		Upsert(data, "user_id", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert billing: %w", err)
	}

	r.logger.Info("Billing state upserted", "user_id", userID, "plan", plan, "status", status)
	return nil
}

// UpdatePlanBySubscriptionID applies a subscription lifecycle change to the
// record holding that billing reference. A subscription with no matching row
// is logged and ignored; the billing provider may create subscriptions
// outside the checkout flow.
func (r *SupabasePlanRepository) UpdatePlanBySubscriptionID(subscriptionID string, plan domain.Plan, status string) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	data := map[string]interface{}{
		"plan":   string(plan),
		"status": status,
	}

	updated, _, err := client.From(planTable).
		Update(data, "representation", "").
		Eq("stripe_subscription_id", subscriptionID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update plan by subscription: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(updated, &rows); err == nil && len(rows) == 0 {
		r.logger.Warn("No plan row for subscription", "subscription_id", subscriptionID, "status", status)
	}

	return nil
}

// mapToPlanRecord converts a map to a PlanRecord struct
func (r *SupabasePlanRepository) mapToPlanRecord(data map[string]interface{}) *domain.PlanRecord {
	rec := &domain.PlanRecord{
		UserID:               getString(data, "user_id"),
		Plan:                 domain.Plan(getString(data, "plan")),
		PromptsUsed:          getInt(data, "prompts_used"),
		LastReset:            getString(data, "last_reset"),
		StripeCustomerID:     getString(data, "stripe_customer_id"),
		StripeSubscriptionID: getString(data, "stripe_subscription_id"),
		Status:               getString(data, "status"),
	}
	if rec.Plan == "" {
		rec.Plan = domain.PlanFree
	}
	return rec
}

// Helper functions for type conversion
func getString(data map[string]interface{}, key string) string {
	if val, ok := data[key]; ok && val != nil {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

func getInt(data map[string]interface{}, key string) int {
	if val, ok := data[key]; ok && val != nil {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}

package domain

import "time"

// Plan identifies a subscription tier.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// FreePromptLimit is the number of prompts a free user may polish per day.
const FreePromptLimit = 5

// PlanRecord is the persisted plan and usage state for one user.
//
// PromptsUsed is only meaningful relative to LastReset: when the current day
// marker differs from LastReset, the effective used count is zero. The reset
// is applied lazily at read and increment time, never by a background job.
type PlanRecord struct {
	UserID               string `json:"user_id"`
	Plan                 Plan   `json:"plan"`
	PromptsUsed          int    `json:"prompts_used"`
	LastReset            string `json:"last_reset"`
	StripeCustomerID     string `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string `json:"stripe_subscription_id,omitempty"`
	Status               string `json:"status,omitempty"`
}

// UsageDecision is the result of evaluating a plan record against the daily limit.
type UsageDecision struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
	Plan      Plan `json:"plan"`
}

// DayMarker returns the date-only marker used for daily usage resets.
func DayMarker(t time.Time) string {
	return t.Format("2006-01-02")
}

// DefaultPlanRecord returns the record assumed for users with no stored plan.
func DefaultPlanRecord(userID string) *PlanRecord {
	return &PlanRecord{
		UserID: userID,
		Plan:   PlanFree,
	}
}

// EffectiveUsed returns the used count after applying the lazy daily reset.
func EffectiveUsed(rec *PlanRecord, today string) int {
	if rec == nil || rec.LastReset != today {
		return 0
	}
	return rec.PromptsUsed
}

// EvaluateUsage decides whether a new prompt is allowed for the given record.
// Pro users are never gated. Pure function; callers supply a consistent
// `today` marker so decisions are deterministic.
func EvaluateUsage(rec *PlanRecord, today string) UsageDecision {
	if rec != nil && rec.Plan == PlanPro {
		return UsageDecision{Allowed: true, Plan: PlanPro}
	}

	used := EffectiveUsed(rec, today)
	remaining := FreePromptLimit - used
	if remaining < 0 {
		remaining = 0
	}

	return UsageDecision{
		Allowed:   used < FreePromptLimit,
		Remaining: remaining,
		Plan:      PlanFree,
	}
}

// RecordUsage returns the record after charging one prompt. No-op for pro
// plans. A stale LastReset resets the counter to exactly 1, never carrying
// the stale count forward.
func RecordUsage(rec *PlanRecord, today string) PlanRecord {
	if rec == nil {
		return PlanRecord{Plan: PlanFree, PromptsUsed: 1, LastReset: today}
	}

	updated := *rec
	if updated.Plan == PlanPro {
		return updated
	}

	if updated.LastReset != today {
		updated.PromptsUsed = 1
		updated.LastReset = today
		return updated
	}

	updated.PromptsUsed++
	return updated
}

package handler

import (
	"net/http"
	"time"

	"prompt-polish/internal/domain"
)

// SubscriptionResponse is the read model served to the client for gating UI.
type SubscriptionResponse struct {
	Plan        domain.Plan `json:"plan"`
	PromptsUsed int         `json:"promptsUsed"`
	Remaining   int         `json:"remaining"`
	Status      string      `json:"status"`
}

// SubscriptionHandler serves the caller's current plan and usage state.
type SubscriptionHandler struct {
	planRepo domain.PlanRepository
	logger   domain.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(planRepo domain.PlanRepository, logger domain.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		planRepo: planRepo,
		logger:   logger,
	}
}

// GetSubscription handles GET /api/v1/user/subscription. The usage numbers
// reflect the lazy daily reset, so a stale counter reads as zero used.
func (h *SubscriptionHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	rec, err := h.planRepo.GetPlan(user.ID)
	if err != nil {
		h.logger.Error("Failed to load plan, assuming free tier", err, "user_id", user.ID)
		rec = domain.DefaultPlanRecord(user.ID)
	}

	today := domain.DayMarker(time.Now())
	decision := domain.EvaluateUsage(rec, today)

	status := rec.Status
	if status == "" {
		status = "active"
	}

	writeJSON(w, http.StatusOK, SubscriptionResponse{
		Plan:        decision.Plan,
		PromptsUsed: domain.EffectiveUsed(rec, today),
		Remaining:   decision.Remaining,
		Status:      status,
	})
}

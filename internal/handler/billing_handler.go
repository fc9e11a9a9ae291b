package handler

import (
	"io"
	"net/http"

	"prompt-polish/internal/domain"
	apperrors "prompt-polish/pkg/errors"

	"github.com/stripe/stripe-go/v79/webhook"
)

// maxWebhookBody caps webhook payload reads. Stripe events are small; a
// larger body is noise or abuse.
const maxWebhookBody = 65536

// BillingHandler exposes checkout creation and the Stripe webhook.
type BillingHandler struct {
	billing domain.BillingService
	config  domain.Config
	logger  domain.Logger
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billing domain.BillingService, config domain.Config, logger domain.Logger) *BillingHandler {
	return &BillingHandler{
		billing: billing,
		config:  config,
		logger:  logger,
	}
}

// CreateCheckoutSession handles POST /api/v1/create-checkout-session.
func (h *BillingHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	url, err := h.billing.CreateCheckoutSession(r.Context(), user.ID, user.Email)
	if err != nil {
		h.logger.Error("Failed to create checkout session", err, "user_id", user.ID)
		writeError(w, apperrors.GetStatusCode(err), "Failed to create checkout session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// StripeWebhook handles POST /api/v1/webhooks/stripe. The raw body is
// verified against the signing secret before any event is applied; an
// unverifiable payload never touches the plan store.
func (h *BillingHandler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	secret := h.config.GetStripeWebhookSecret()
	if secret == "" {
		h.logger.Error("Stripe webhook secret not configured", nil)
		writeError(w, http.StatusInternalServerError, "Webhook not configured")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, r.Header.Get("Stripe-Signature"), secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		h.logger.Warn("Webhook signature verification failed", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid signature")
		return
	}

	if err := h.billing.HandleEvent(string(event.Type), event.Data.Raw); err != nil {
		h.logger.Error("Failed to process webhook event", err, "type", event.Type)
		writeError(w, apperrors.GetStatusCode(err), "Failed to process event")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"prompt-polish/internal/config"
	"prompt-polish/internal/domain"
	apperrors "prompt-polish/pkg/errors"
)

const testWebhookSecret = "whsec_test_secret"

type mockBillingService struct {
	url       string
	createErr error
	handleErr error

	handleCalls   int
	lastEventType string
	lastPayload   []byte
}

func (m *mockBillingService) CreateCheckoutSession(ctx context.Context, userID, email string) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	return m.url, nil
}

func (m *mockBillingService) HandleEvent(eventType string, payload []byte) error {
	m.handleCalls++
	m.lastEventType = eventType
	m.lastPayload = payload
	return m.handleErr
}

// signStripePayload builds a Stripe-Signature header the verifier accepts.
func signStripePayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func newWebhookHandler(billing *mockBillingService) *BillingHandler {
	cfg := &config.AppConfig{StripeWebhookSecret: testWebhookSecret}
	return NewBillingHandler(billing, cfg, NewMockHandlerLogger())
}

func TestStripeWebhook_ValidSignatureDispatchesEvent(t *testing.T) {
	billing := &mockBillingService{}
	h := newWebhookHandler(billing)

	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_123", "metadata": {"userId": "user-1"}}}
	}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", signStripePayload(payload, testWebhookSecret))
	rr := httptest.NewRecorder()

	h.StripeWebhook(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if billing.handleCalls != 1 {
		t.Fatalf("expected 1 event dispatch, got %d", billing.handleCalls)
	}
	if billing.lastEventType != "checkout.session.completed" {
		t.Fatalf("unexpected event type: %s", billing.lastEventType)
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(billing.lastPayload, &obj); err != nil {
		t.Fatalf("payload is not the data object: %v", err)
	}
	if obj["id"] != "cs_123" {
		t.Fatalf("expected data object payload, got %s", billing.lastPayload)
	}
}

func TestStripeWebhook_TamperedPayloadRejected(t *testing.T) {
	billing := &mockBillingService{}
	h := newWebhookHandler(billing)

	payload := []byte(`{"id": "evt_1", "type": "checkout.session.completed", "data": {"object": {}}}`)
	sig := signStripePayload(payload, testWebhookSecret)
	tampered := strings.Replace(string(payload), "evt_1", "evt_2", 1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(tampered))
	req.Header.Set("Stripe-Signature", sig)
	rr := httptest.NewRecorder()

	h.StripeWebhook(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if billing.handleCalls != 0 {
		t.Fatal("expected no dispatch for tampered payload")
	}
}

func TestStripeWebhook_WrongSecretRejected(t *testing.T) {
	billing := &mockBillingService{}
	h := newWebhookHandler(billing)

	payload := []byte(`{"id": "evt_1", "type": "checkout.session.completed", "data": {"object": {}}}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", signStripePayload(payload, "whsec_other"))
	rr := httptest.NewRecorder()

	h.StripeWebhook(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if billing.handleCalls != 0 {
		t.Fatal("expected no dispatch for bad signature")
	}
}

func TestStripeWebhook_MissingSecretIsServerError(t *testing.T) {
	billing := &mockBillingService{}
	cfg := &config.AppConfig{}
	h := NewBillingHandler(billing, cfg, NewMockHandlerLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	h.StripeWebhook(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
}

func TestStripeWebhook_HandlerErrorMapsStatus(t *testing.T) {
	billing := &mockBillingService{handleErr: apperrors.NewValidationError("checkout session missing userId metadata")}
	h := newWebhookHandler(billing)

	payload := []byte(`{"id": "evt_1", "type": "checkout.session.completed", "data": {"object": {"metadata": {}}}}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", signStripePayload(payload, testWebhookSecret))
	rr := httptest.NewRecorder()

	h.StripeWebhook(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestCreateCheckoutSession_ReturnsURL(t *testing.T) {
	billing := &mockBillingService{url: "https://checkout.stripe.com/c/pay/cs_123"}
	h := newWebhookHandler(billing)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/create-checkout-session", nil)
	req = createContextWithUser(req, &domain.SupabaseUser{ID: "user-1", Email: "test@example.com"})
	rr := httptest.NewRecorder()

	h.CreateCheckoutSession(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["url"] != billing.url {
		t.Fatalf("expected checkout url, got %s", body["url"])
	}
}

func TestCreateCheckoutSession_ConfigErrorMapsStatus(t *testing.T) {
	billing := &mockBillingService{createErr: apperrors.NewConfigError("stripe price id not configured")}
	h := newWebhookHandler(billing)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/create-checkout-session", nil)
	req = createContextWithUser(req, &domain.SupabaseUser{ID: "user-1"})
	rr := httptest.NewRecorder()

	h.CreateCheckoutSession(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
}

func TestCreateCheckoutSession_NoUser(t *testing.T) {
	h := newWebhookHandler(&mockBillingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/create-checkout-session", nil)
	rr := httptest.NewRecorder()

	h.CreateCheckoutSession(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

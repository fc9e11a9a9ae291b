package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"prompt-polish/internal/domain"
)

type mockLogger struct{}

func (m *mockLogger) Info(msg string, fields ...interface{})             {}
func (m *mockLogger) Error(msg string, err error, fields ...interface{}) {}
func (m *mockLogger) Debug(msg string, fields ...interface{})            {}
func (m *mockLogger) Warn(msg string, fields ...interface{})             {}

func TestPlanStore_StartsFree(t *testing.T) {
	store, err := NewPlanStore(t.TempDir(), &mockLogger{})
	if err != nil {
		t.Fatalf("NewPlanStore failed: %v", err)
	}

	rec, err := store.GetPlan("user-1")
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if rec.Plan != domain.PlanFree {
		t.Fatalf("expected free plan, got %s", rec.Plan)
	}
	if rec.PromptsUsed != 0 {
		t.Fatalf("expected 0 prompts used, got %d", rec.PromptsUsed)
	}
	if !store.IsDemo() {
		t.Fatal("expected fresh store to be demo")
	}
}

func TestPlanStore_UsageSurvivesReload(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPlanStore(dir, &mockLogger{})
	if err != nil {
		t.Fatalf("NewPlanStore failed: %v", err)
	}
	if err := store.UpsertUsage("user-1", 3, "2026-09-01"); err != nil {
		t.Fatalf("UpsertUsage failed: %v", err)
	}

	reloaded, err := NewPlanStore(dir, &mockLogger{})
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	rec, err := reloaded.GetPlan("user-1")
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if rec.PromptsUsed != 3 {
		t.Fatalf("expected 3 prompts used after reload, got %d", rec.PromptsUsed)
	}
	if rec.LastReset != "2026-09-01" {
		t.Fatalf("expected last reset 2026-09-01, got %s", rec.LastReset)
	}
}

func TestPlanStore_UpsertBillingUpgrades(t *testing.T) {
	store, err := NewPlanStore(t.TempDir(), &mockLogger{})
	if err != nil {
		t.Fatalf("NewPlanStore failed: %v", err)
	}

	if err := store.UpsertBilling("user-1", "cus_1", "sub_1", domain.PlanPro, "active"); err != nil {
		t.Fatalf("UpsertBilling failed: %v", err)
	}

	rec, _ := store.GetPlan("user-1")
	if rec.Plan != domain.PlanPro {
		t.Fatalf("expected pro plan, got %s", rec.Plan)
	}
	if rec.StripeSubscriptionID != "sub_1" {
		t.Fatalf("expected subscription sub_1, got %s", rec.StripeSubscriptionID)
	}
	if rec.Status != "active" {
		t.Fatalf("expected status active, got %s", rec.Status)
	}
}

func TestPlanStore_UpdateBySubscriptionID(t *testing.T) {
	store, err := NewPlanStore(t.TempDir(), &mockLogger{})
	if err != nil {
		t.Fatalf("NewPlanStore failed: %v", err)
	}
	if err := store.UpsertBilling("user-1", "cus_1", "sub_1", domain.PlanPro, "active"); err != nil {
		t.Fatalf("UpsertBilling failed: %v", err)
	}

	// Unknown subscription is ignored.
	if err := store.UpdatePlanBySubscriptionID("sub_other", domain.PlanFree, "canceled"); err != nil {
		t.Fatalf("UpdatePlanBySubscriptionID failed: %v", err)
	}
	rec, _ := store.GetPlan("user-1")
	if rec.Plan != domain.PlanPro {
		t.Fatalf("expected plan untouched for unknown subscription, got %s", rec.Plan)
	}

	// Matching subscription downgrades.
	if err := store.UpdatePlanBySubscriptionID("sub_1", domain.PlanFree, "canceled"); err != nil {
		t.Fatalf("UpdatePlanBySubscriptionID failed: %v", err)
	}
	rec, _ = store.GetPlan("user-1")
	if rec.Plan != domain.PlanFree {
		t.Fatalf("expected free plan after cancellation, got %s", rec.Plan)
	}
	if rec.Status != "canceled" {
		t.Fatalf("expected status canceled, got %s", rec.Status)
	}
}

func TestPlanStore_CorruptFileStartsFresh(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, subscriptionFile), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	store, err := NewPlanStore(dir, &mockLogger{})
	if err != nil {
		t.Fatalf("NewPlanStore failed: %v", err)
	}
	rec, _ := store.GetPlan("user-1")
	if rec.Plan != domain.PlanFree || rec.PromptsUsed != 0 {
		t.Fatalf("expected fresh free record, got %+v", rec)
	}
}

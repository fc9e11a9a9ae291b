// Package localstore holds the file-backed state used when no Supabase
// store is configured (demo/offline mode). Each store is an explicit
// repository object: hydrated once at construction, persisted on every
// mutation, never touched as ambient global state.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"prompt-polish/internal/domain"
)

// subscriptionFile is the fixed file name for the local subscription mirror.
const subscriptionFile = "promptpolish_sub.json"

type planFile struct {
	Plan                 domain.Plan `json:"plan"`
	PromptsUsed          int         `json:"promptsUsed"`
	LastReset            string      `json:"lastReset"`
	StripeCustomerID     string      `json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID string      `json:"stripeSubscriptionId,omitempty"`
	Status               string      `json:"status,omitempty"`
	IsDemo               bool        `json:"isDemo"`
}

// PlanStore is the local fallback meter: a single-tenant implementation of
// domain.PlanRepository with the same lazy daily-reset semantics as the
// server-side gate.
type PlanStore struct {
	path   string
	logger domain.Logger

	mu  sync.RWMutex
	rec planFile
}

// NewPlanStore loads (or initializes) the local subscription mirror under dir.
func NewPlanStore(dir string, logger domain.Logger) (*PlanStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	s := &PlanStore{
		path:   filepath.Join(dir, subscriptionFile),
		logger: logger,
		rec:    planFile{Plan: domain.PlanFree, IsDemo: true},
	}

	data, err := os.ReadFile(s.path)
	if err == nil {
		if err := json.Unmarshal(data, &s.rec); err != nil {
			logger.Warn("Failed to parse local subscription state, starting fresh", "error", err)
			s.rec = planFile{Plan: domain.PlanFree, IsDemo: true}
		}
	}
	if s.rec.Plan == "" {
		s.rec.Plan = domain.PlanFree
	}

	return s, nil
}

// GetPlan returns the single local record projected onto the requested user.
func (s *PlanStore) GetPlan(userID string) (*domain.PlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &domain.PlanRecord{
		UserID:               userID,
		Plan:                 s.rec.Plan,
		PromptsUsed:          s.rec.PromptsUsed,
		LastReset:            s.rec.LastReset,
		StripeCustomerID:     s.rec.StripeCustomerID,
		StripeSubscriptionID: s.rec.StripeSubscriptionID,
		Status:               s.rec.Status,
	}, nil
}

// UpsertUsage persists the usage counter and reset marker.
func (s *PlanStore) UpsertUsage(userID string, promptsUsed int, lastReset string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec.PromptsUsed = promptsUsed
	s.rec.LastReset = lastReset
	return s.persistLocked()
}

// UpsertBilling upgrades or downgrades the local plan mirror.
func (s *PlanStore) UpsertBilling(userID, customerID, subscriptionID string, plan domain.Plan, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec.Plan = plan
	s.rec.Status = status
	s.rec.StripeCustomerID = customerID
	s.rec.StripeSubscriptionID = subscriptionID
	return s.persistLocked()
}

// UpdatePlanBySubscriptionID applies a lifecycle change when the stored
// billing reference matches; anything else is ignored.
func (s *PlanStore) UpdatePlanBySubscriptionID(subscriptionID string, plan domain.Plan, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec.StripeSubscriptionID != subscriptionID {
		s.logger.Warn("No local plan for subscription", "subscription_id", subscriptionID)
		return nil
	}

	s.rec.Plan = plan
	s.rec.Status = status
	return s.persistLocked()
}

// IsDemo reports whether this store was initialized as demo-mode state.
func (s *PlanStore) IsDemo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.IsDemo
}

func (s *PlanStore) persistLocked() error {
	data, err := json.MarshalIndent(s.rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode local subscription state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write local subscription state: %w", err)
	}
	return nil
}

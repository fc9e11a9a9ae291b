package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"prompt-polish/internal/domain"
)

// historyFile is the fixed file name for the local prompt history.
const historyFile = "prompt_history.json"

// HistoryStore keeps the polished-prompt history, newest first. Entries are
// appended on successful completion of a polish and only ever cleared
// wholesale; there is no per-entry delete or edit.
type HistoryStore struct {
	path   string
	logger domain.Logger

	mu      sync.RWMutex
	entries []domain.HistoryEntry
}

// NewHistoryStore loads the history from dir, tolerating a missing or
// corrupt file.
func NewHistoryStore(dir string, logger domain.Logger) (*HistoryStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	s := &HistoryStore{
		path:   filepath.Join(dir, historyFile),
		logger: logger,
	}

	data, err := os.ReadFile(s.path)
	if err == nil {
		if err := json.Unmarshal(data, &s.entries); err != nil {
			logger.Warn("Failed to parse prompt history, starting fresh", "error", err)
			s.entries = nil
		}
	}

	return s, nil
}

// Add prepends a new entry and persists.
func (s *HistoryStore) Add(original, enhanced string) (domain.HistoryEntry, error) {
	entry := domain.HistoryEntry{
		ID:        uuid.NewString(),
		Original:  original,
		Enhanced:  enhanced,
		Timestamp: time.Now().UnixMilli(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]domain.HistoryEntry{entry}, s.entries...)
	if err := s.persistLocked(); err != nil {
		return domain.HistoryEntry{}, err
	}
	return entry, nil
}

// Entries returns a copy of the history, newest first.
func (s *HistoryStore) Entries() []domain.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clear drops the whole history and persists the empty list.
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	return s.persistLocked()
}

func (s *HistoryStore) persistLocked() error {
	entries := s.entries
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode prompt history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write prompt history: %w", err)
	}
	return nil
}

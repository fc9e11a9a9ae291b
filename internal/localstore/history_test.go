package localstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHistoryStore_AddPrepends(t *testing.T) {
	store, err := NewHistoryStore(t.TempDir(), &mockLogger{})
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}

	first, err := store.Add("write tests", "[ANALYSIS]...")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	second, err := store.Add("fix bug", "[ANALYSIS]...")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	entries := store.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != second.ID {
		t.Fatalf("expected newest entry first, got %s", entries[0].ID)
	}
	if entries[1].ID != first.ID {
		t.Fatalf("expected oldest entry last, got %s", entries[1].ID)
	}
	if first.ID == second.ID {
		t.Fatal("expected unique entry IDs")
	}
}

func TestHistoryStore_SurvivesReload(t *testing.T) {
	dir := t.TempDir()

	store, err := NewHistoryStore(dir, &mockLogger{})
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}
	if _, err := store.Add("original prompt", "enhanced text"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	reloaded, err := NewHistoryStore(dir, &mockLogger{})
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	entries := reloaded.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after reload, got %d", len(entries))
	}
	if entries[0].Original != "original prompt" {
		t.Fatalf("expected original preserved, got %q", entries[0].Original)
	}
}

func TestHistoryStore_Clear(t *testing.T) {
	dir := t.TempDir()

	store, err := NewHistoryStore(dir, &mockLogger{})
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}
	if _, err := store.Add("a", "b"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if len(store.Entries()) != 0 {
		t.Fatal("expected empty history after clear")
	}

	reloaded, err := NewHistoryStore(dir, &mockLogger{})
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(reloaded.Entries()) != 0 {
		t.Fatal("expected clear to persist")
	}
}

func TestHistoryStore_CorruptFileStartsFresh(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, historyFile), []byte("[{broken"), 0o644); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	store, err := NewHistoryStore(dir, &mockLogger{})
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}
	if len(store.Entries()) != 0 {
		t.Fatal("expected empty history for corrupt file")
	}
}

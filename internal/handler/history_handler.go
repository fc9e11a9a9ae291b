package handler

import (
	"net/http"

	"prompt-polish/internal/domain"
	"prompt-polish/internal/localstore"
)

// HistoryHandler serves the locally stored polish history.
type HistoryHandler struct {
	history *localstore.HistoryStore
	logger  domain.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history *localstore.HistoryStore, logger domain.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

// GetHistory handles GET /api/v1/history, newest entries first.
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	entries := h.history.Entries()
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// ClearHistory handles DELETE /api/v1/history.
func (h *HistoryHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.history.Clear(); err != nil {
		h.logger.Error("Failed to clear history", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"prompt-polish/internal/domain"
	"prompt-polish/internal/localstore"
	apperrors "prompt-polish/pkg/errors"
)

// quotaExceededMessage is what free users see when the daily limit is hit.
const quotaExceededMessage = "Daily free limit reached. Upgrade to Pro for unlimited polishes."

// sectionTags in the order the model is instructed to emit them. Used for
// progress logging as the stream advances.
var sectionTags = []string{
	domain.TagAnalysis,
	domain.TagWeaknesses,
	domain.TagImprovements,
	domain.TagVersionA,
	domain.TagVersionB,
	domain.TagVersionC,
}

// PolishRequest is the polish endpoint's request body.
type PolishRequest struct {
	Prompt string `json:"prompt"`
	Mode   string `json:"mode"`
}

// PolishHandler relays model output to the client and meters free usage.
type PolishHandler struct {
	enhancer    domain.Enhancer
	planRepo    domain.PlanRepository
	history     *localstore.HistoryStore
	logger      domain.Logger
	idleTimeout time.Duration
}

// NewPolishHandler creates a new polish handler. The history store is
// optional; when set, completed polishes are recorded to it.
func NewPolishHandler(enhancer domain.Enhancer, planRepo domain.PlanRepository, history *localstore.HistoryStore, logger domain.Logger, idleTimeout time.Duration) *PolishHandler {
	return &PolishHandler{
		enhancer:    enhancer,
		planRepo:    planRepo,
		history:     history,
		logger:      logger,
		idleTimeout: idleTimeout,
	}
}

// Polish handles POST /api/v1/polish. The gate is checked before the model
// call; usage is charged only after the stream completes naturally, so a
// failed or abandoned polish never consumes quota.
func (h *PolishHandler) Polish(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var req PolishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	rec, err := h.planRepo.GetPlan(user.ID)
	if err != nil {
		// A store outage should not block polishing; degrade to the
		// default free-tier record and let the upsert heal later.
		h.logger.Error("Failed to load plan, assuming free tier", err, "user_id", user.ID)
		rec = domain.DefaultPlanRecord(user.ID)
	}

	today := domain.DayMarker(time.Now())
	decision := domain.EvaluateUsage(rec, today)
	if !decision.Allowed {
		writeError(w, http.StatusForbidden, quotaExceededMessage)
		return
	}

	chunks, err := h.enhancer.EnhanceStream(r.Context(), domain.EnhanceRequest{
		Prompt: req.Prompt,
		Mode:   req.Mode,
	})
	if err != nil {
		h.logger.Error("Failed to start enhancement stream", err, "user_id", user.ID)
		writeError(w, apperrors.GetStatusCode(err), "Failed to polish prompt")
		return
	}

	flusher, canFlush := w.(http.Flusher)

	var full strings.Builder
	wrote := false
	nextSection := 0

	idle := time.NewTimer(h.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("Client disconnected mid-stream", "user_id", user.ID)
			return

		case <-idle.C:
			h.logger.Warn("Stream idle timeout", "user_id", user.ID, "timeout", h.idleTimeout)
			if !wrote {
				writeError(w, http.StatusGatewayTimeout, "Model stream timed out")
			}
			return

		case chunk, open := <-chunks:
			if !open {
				h.finishPolish(user.ID, rec, today, req.Prompt, full.String())
				return
			}
			if chunk.Err != nil {
				h.logger.Error("Enhancement stream failed", chunk.Err, "user_id", user.ID)
				if !wrote {
					writeError(w, apperrors.GetStatusCode(chunk.Err), "Failed to polish prompt")
				}
				return
			}

			if !wrote {
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusOK)
				wrote = true
			}
			if _, err := w.Write([]byte(chunk.Text)); err != nil {
				h.logger.Debug("Client write failed", "user_id", user.ID, "error", err)
				return
			}
			if canFlush {
				flusher.Flush()
			}

			full.WriteString(chunk.Text)
			for nextSection < len(sectionTags) && strings.Contains(full.String(), "["+sectionTags[nextSection]+"]") {
				h.logger.Debug("Section started", "section", sectionTags[nextSection], "user_id", user.ID)
				nextSection++
			}

			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(h.idleTimeout)
		}
	}
}

// finishPolish charges usage and records history after a natural completion.
func (h *PolishHandler) finishPolish(userID string, rec *domain.PlanRecord, today, prompt, response string) {
	if rec == nil || rec.Plan != domain.PlanPro {
		updated := domain.RecordUsage(rec, today)
		if err := h.planRepo.UpsertUsage(userID, updated.PromptsUsed, updated.LastReset); err != nil {
			h.logger.Error("Failed to record usage", err, "user_id", userID)
		}
	}

	if h.history != nil && response != "" {
		if _, err := h.history.Add(prompt, response); err != nil {
			h.logger.Warn("Failed to record history entry", "error", err)
		}
	}

	h.logger.Info("Polish completed", "user_id", userID, "response_bytes", len(response))
}

package turn

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guardline/vishsim/internal/service/orchestrator"
	"github.com/guardline/vishsim/internal/store"
	"github.com/guardline/vishsim/pkg/utils"
)

// Handler exposes turn processing over HTTP.
type Handler struct {
	processor *Processor
}

// New creates the turn handler.
func New(processor *Processor) *Handler {
	return &Handler{processor: processor}
}

// RegisterRoutes mounts the turn endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions/{sessionID}/turns", h.handleTurn)
	r.Get("/stream/{sessionID}", h.handleStreamTurn)
}

type turnResponse struct {
	AdversaryMessage string `json:"adversaryMessage"`
	Tactic           string `json:"tactic,omitempty"`
	EscalationLevel  int    `json:"escalationLevel,omitempty"`
	RiskLevel        string `json:"riskLevel"`
	Ended            bool   `json:"ended"`
	Alerts           any    `json:"alerts,omitempty"`
}

func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	outcome, err := h.processor.Process(r.Context(), sessionID, payload.Message)
	if err != nil {
		respondTurnError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, buildTurnResponse(outcome))
}

// handleStreamTurn resolves one turn over SSE: a start event, the adversary
// message, any alerts, the risk level, and an end event.
func (h *Handler) handleStreamTurn(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	message := r.URL.Query().Get("message")
	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	utils.SetupSSEHeaders(w)
	utils.SendSSEEvent(w, flusher, "start", map[string]string{"sessionId": sessionID})

	outcome, err := h.processor.Process(r.Context(), sessionID, message)
	if err != nil {
		utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": err.Error()})
		return
	}

	result := outcome.Result
	utils.SendSSEEvent(w, flusher, "message", map[string]any{
		"content":         result.AdversaryMessage,
		"tactic":          string(result.Tactic),
		"escalationLevel": result.EscalationLevel,
	})
	for _, alert := range outcome.NewAlerts {
		utils.SendSSEEvent(w, flusher, "alert", alert)
	}
	utils.SendSSEEvent(w, flusher, "risk", map[string]string{"level": string(result.RiskLevel)})
	utils.SendSSEEvent(w, flusher, "end", map[string]bool{"ended": result.Ended})
}

func buildTurnResponse(outcome *Outcome) turnResponse {
	result := outcome.Result
	resp := turnResponse{
		AdversaryMessage: result.AdversaryMessage,
		Tactic:           string(result.Tactic),
		EscalationLevel:  result.EscalationLevel,
		RiskLevel:        string(result.RiskLevel),
		Ended:            result.Ended,
	}
	if len(outcome.NewAlerts) > 0 {
		resp.Alerts = outcome.NewAlerts
	}
	return resp
}

func respondTurnError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, orchestrator.ErrSessionEnded):
		utils.RespondError(w, http.StatusConflict, "session already ended")
	case errors.Is(err, orchestrator.ErrScenarioNotFound):
		utils.RespondError(w, http.StatusNotFound, "scenario not found")
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}

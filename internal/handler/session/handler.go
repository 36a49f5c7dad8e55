// Package session exposes session lifecycle endpoints: creation, lookup,
// alert listing, and end-of-call evaluation.
package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guardline/vishsim/internal/model/scenario"
	"github.com/guardline/vishsim/internal/service/evaluator"
	"github.com/guardline/vishsim/internal/service/orchestrator"
	"github.com/guardline/vishsim/internal/store"
	"github.com/guardline/vishsim/pkg/utils"
)

// Handler serves session lifecycle requests.
type Handler struct {
	orch      *orchestrator.Orchestrator
	evaluator *evaluator.Evaluator
	repo      store.Repository
	scenarios scenario.Store
}

// New creates the session handler.
func New(orch *orchestrator.Orchestrator, eval *evaluator.Evaluator, repo store.Repository, scenarios scenario.Store) *Handler {
	return &Handler{orch: orch, evaluator: eval, repo: repo, scenarios: scenarios}
}

// RegisterRoutes mounts the session endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreate)
	r.Get("/sessions/{sessionID}", h.handleGet)
	r.Post("/sessions/{sessionID}/end", h.handleEnd)
	r.Get("/sessions/{sessionID}/alerts", h.handleAlerts)
	r.Post("/sessions/{sessionID}/alerts/{alertID}/ack", h.handleAckAlert)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		TraineeID  string `json:"traineeId"`
		ScenarioID string `json:"scenarioId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.TraineeID == "" || payload.ScenarioID == "" {
		utils.RespondError(w, http.StatusBadRequest, "traineeId and scenarioId are required")
		return
	}

	session, err := h.orch.StartSession(r.Context(), payload.TraineeID, payload.ScenarioID)
	if err != nil {
		if errors.Is(err, orchestrator.ErrScenarioNotFound) {
			utils.RespondError(w, http.StatusBadRequest, "scenario not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	session, err := h.repo.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondLoadError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

// handleEnd closes the session and returns its evaluation. Evaluation always
// succeeds: when every model backend is down the rule-based fallback report
// is returned instead.
func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	session, err := h.orch.EndSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondLoadError(w, err)
		return
	}

	scen, ok := h.scenarios.FindByID(session.ScenarioID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "scenario not found")
		return
	}

	result := h.evaluator.Evaluate(r.Context(), session, scen)
	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	session, err := h.repo.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondLoadError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, session.Alerts)
}

func (h *Handler) handleAckAlert(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	alertID := chi.URLParam(r, "alertID")

	session, err := h.repo.Load(r.Context(), sessionID)
	if err != nil {
		respondLoadError(w, err)
		return
	}

	found := false
	for i := range session.Alerts {
		if session.Alerts[i].ID == alertID {
			session.Alerts[i].Acknowledged = true
			found = true
			break
		}
	}
	if !found {
		utils.RespondError(w, http.StatusNotFound, "alert not found")
		return
	}

	if err := h.repo.Save(r.Context(), session); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "acknowledged"})
}

func respondLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondError(w, http.StatusInternalServerError, err.Error())
}

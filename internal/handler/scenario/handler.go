// Package scenario serves the scenario catalog.
package scenario

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	scenarioModel "github.com/guardline/vishsim/internal/model/scenario"
	"github.com/guardline/vishsim/pkg/utils"
)

// Handler serves scenario catalog requests.
type Handler struct {
	store scenarioModel.Store
}

// New creates the scenario handler.
func New(store scenarioModel.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the scenario endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/scenarios", h.handleList)
	r.Get("/scenarios/{scenarioID}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.List())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	scen, ok := h.store.FindByID(chi.URLParam(r, "scenarioID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "scenario not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, scen)
}

package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/Harshitk-cp/peckorder/internal/service"
	"github.com/google/uuid"
)

type DecisionHandler struct {
	sim *service.SimulationService
}

func NewDecisionHandler(sim *service.SimulationService) *DecisionHandler {
	return &DecisionHandler{sim: sim}
}

type decisionRequest struct {
	AgentID  string       `json:"agent_id"`
	Seat     domain.Seat  `json:"seat"`
	Own      domain.Board `json:"own"`
	Hand     *domain.Hand `json:"hand,omitempty"`
	Opponent domain.Board `json:"opponent"`
	Seed     *uint64      `json:"seed,omitempty"`
}

// Decide returns the agent's move for the supplied position. When hand is
// omitted it is every card not already on the agent's own board.
func (h *DecisionHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid agent_id")
		return
	}

	view := domain.View{
		Seat:     req.Seat,
		Own:      req.Own,
		Hand:     domain.UnplayedOn(req.Own),
		Opponent: req.Opponent,
	}
	if req.Hand != nil {
		view.Hand = *req.Hand
	}

	d, err := h.sim.Decide(r.Context(), service.DecisionRequest{AgentID: agentID, View: view, Seed: req.Seed})
	if err != nil {
		writeServiceError(w, err, "failed to decide")
		return
	}

	writeJSON(w, http.StatusOK, d)
}

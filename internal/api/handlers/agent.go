package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/Harshitk-cp/peckorder/internal/service"
)

type AgentHandler struct {
	agents *service.AgentService
	sim    *service.SimulationService
}

func NewAgentHandler(agents *service.AgentService, sim *service.SimulationService) *AgentHandler {
	return &AgentHandler{agents: agents, sim: sim}
}

type createAgentRequest struct {
	ExternalID    string           `json:"external_id"`
	Name          string           `json:"name"`
	Kind          domain.AgentKind `json:"kind"`
	LearningRate  *float64         `json:"learning_rate,omitempty"`
	Confidence    *float64         `json:"confidence,omitempty"`
	DecisionOrder *domain.Order    `json:"decision_order,omitempty"`
	Metadata      map[string]any   `json:"metadata,omitempty"`
}

func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAgentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.ExternalID == "" {
		writeError(w, http.StatusBadRequest, "external_id is required")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Kind == "" {
		writeError(w, http.StatusBadRequest, "kind is required")
		return
	}

	defaults := h.agents.Defaults()
	agent := &domain.Agent{
		ExternalID:   req.ExternalID,
		Name:         req.Name,
		Kind:         req.Kind,
		LearningRate: defaults.LearningRate,
		Confidence:   defaults.Confidence,
		Metadata:     req.Metadata,
	}
	if req.LearningRate != nil {
		agent.LearningRate = *req.LearningRate
	}
	if req.Confidence != nil {
		agent.Confidence = *req.Confidence
	}
	switch {
	case req.DecisionOrder != nil:
		agent.DecisionOrder = *req.DecisionOrder
	case req.Kind == domain.KindFirstOrder:
		agent.DecisionOrder = domain.Integrated
	}

	if err := h.agents.Create(r.Context(), agent); err != nil {
		writeServiceError(w, err, "failed to create agent")
		return
	}

	writeJSON(w, http.StatusCreated, agent)
}

func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}

	agents, err := h.agents.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err, "failed to list agents")
		return
	}
	if agents == nil {
		agents = []domain.Agent{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"agents": agents})
}

func (h *AgentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "agent")
	if !ok {
		return
	}

	agent, err := h.agents.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to get agent")
		return
	}

	writeJSON(w, http.StatusOK, agent)
}

type beliefResponse struct {
	domain.BeliefSnapshot
	Entries []domain.BeliefEntry `json:"entries"`
}

func (h *AgentHandler) Beliefs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "agent")
	if !ok {
		return
	}

	snaps, err := h.sim.Beliefs(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to load beliefs")
		return
	}

	out := make([]beliefResponse, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, beliefResponse{BeliefSnapshot: s, Entries: s.Distribution.Entries()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"beliefs": out})
}

// Similar lists agents whose learned beliefs are closest to this agent's.
// The order query parameter defaults to zero_order.
func (h *AgentHandler) Similar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "agent")
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}

	order := domain.ZeroOrder
	if raw := r.URL.Query().Get("order"); raw != "" {
		var err error
		if order, err = domain.ParseOrder(raw); err != nil || order == domain.Integrated {
			writeError(w, http.StatusBadRequest, "order must be zero_order or first_order")
			return
		}
	}

	similar, err := h.sim.SimilarAgents(r.Context(), id, order, limit)
	if err != nil {
		writeServiceError(w, err, "failed to search beliefs")
		return
	}
	if similar == nil {
		similar = []domain.SnapshotWithDistance{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"agents": similar})
}

func (h *AgentHandler) Matches(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "agent")
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}

	matches, err := h.sim.MatchesForAgent(r.Context(), id, limit)
	if err != nil {
		writeServiceError(w, err, "failed to list matches")
		return
	}
	if matches == nil {
		matches = []domain.Match{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}

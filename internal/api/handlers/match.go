package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/Harshitk-cp/peckorder/internal/service"
	"github.com/google/uuid"
)

type MatchHandler struct {
	sim *service.SimulationService
}

func NewMatchHandler(sim *service.SimulationService) *MatchHandler {
	return &MatchHandler{sim: sim}
}

type createMatchRequest struct {
	AgentOneID string          `json:"agent_one_id"`
	AgentTwoID string          `json:"agent_two_id"`
	Games      int             `json:"games"`
	Mode       domain.GameMode `json:"mode,omitempty"`
	Seed       *uint64         `json:"seed,omitempty"`
}

func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	one, err := uuid.Parse(req.AgentOneID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid agent_one_id")
		return
	}
	two, err := uuid.Parse(req.AgentTwoID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid agent_two_id")
		return
	}

	m, err := h.sim.RunMatch(r.Context(), service.MatchRequest{
		AgentOneID: one,
		AgentTwoID: two,
		Games:      req.Games,
		Mode:       req.Mode,
		Seed:       req.Seed,
	})
	if err != nil {
		writeServiceError(w, err, "failed to run match")
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

func (h *MatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "match")
	if !ok {
		return
	}

	m, err := h.sim.GetMatch(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to get match")
		return
	}

	writeJSON(w, http.StatusOK, m)
}

type createTournamentRequest struct {
	AgentIDs        []string        `json:"agent_ids"`
	GamesPerPairing int             `json:"games_per_pairing"`
	Mode            domain.GameMode `json:"mode,omitempty"`
	Seed            *uint64         `json:"seed,omitempty"`
}

func (h *MatchHandler) Tournament(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ids := make([]uuid.UUID, 0, len(req.AgentIDs))
	for _, raw := range req.AgentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid agent id "+raw)
			return
		}
		ids = append(ids, id)
	}

	res, err := h.sim.RunTournament(r.Context(), service.TournamentRequest{
		AgentIDs:        ids,
		GamesPerPairing: req.GamesPerPairing,
		Mode:            req.Mode,
		Seed:            req.Seed,
	})
	if err != nil {
		writeServiceError(w, err, "failed to run tournament")
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/Harshitk-cp/peckorder/internal/engine"
	"github.com/Harshitk-cp/peckorder/internal/game"
	"github.com/Harshitk-cp/peckorder/internal/outcome"
	"github.com/Harshitk-cp/peckorder/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSameAgent     = errors.New("an agent cannot play against itself")
	ErrInvalidGames  = errors.New("games out of range")
	ErrInvalidMode   = errors.New("unknown game mode")
	ErrNoLegalAction = errors.New("no legal action in the given position")
	ErrNoBeliefs     = errors.New("agent has no stored beliefs")
	ErrTooFewAgents  = errors.New("a tournament needs at least two agents")
	ErrMatchNotFound = errors.New("match not found")
)

const defaultTournamentConcurrency = 4

// SimulationConfig bounds the work a single request may trigger.
type SimulationConfig struct {
	MaxGamesPerMatch int
	Concurrency      int
}

// SimulationService plays matches between stored agent profiles. A learner's
// beliefs are restored from its latest snapshot before a match and saved
// after it; matches touching the same profile never overlap.
type SimulationService struct {
	agents  domain.AgentStore
	beliefs domain.BeliefStore
	matches domain.MatchStore
	table   *outcome.Table
	cfg     SimulationConfig
	locks   *agentLocks
	logger  *zap.Logger
}

func NewSimulationService(as domain.AgentStore, bs domain.BeliefStore, ms domain.MatchStore, table *outcome.Table, cfg SimulationConfig, logger *zap.Logger) *SimulationService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultTournamentConcurrency
	}
	return &SimulationService{
		agents:  as,
		beliefs: bs,
		matches: ms,
		table:   table,
		cfg:     cfg,
		locks:   newAgentLocks(),
		logger:  logger,
	}
}

type MatchRequest struct {
	AgentOneID uuid.UUID
	AgentTwoID uuid.UUID
	Games      int
	Mode       domain.GameMode
	Seed       *uint64
}

func (s *SimulationService) validateGames(games int) error {
	if games < 1 || (s.cfg.MaxGamesPerMatch > 0 && games > s.cfg.MaxGamesPerMatch) {
		return fmt.Errorf("%w: %d (max %d)", ErrInvalidGames, games, s.cfg.MaxGamesPerMatch)
	}
	return nil
}

func normalizeMode(m domain.GameMode) (domain.GameMode, error) {
	if m == "" {
		return domain.ModeSequential, nil
	}
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, m)
	}
	return m, nil
}

func newRand(seed *uint64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (s *SimulationService) getAgent(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	a, err := s.agents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, id)
		}
		return nil, err
	}
	return a, nil
}

// player builds the engine player for a profile and, for learners, restores
// its stored beliefs.
func (s *SimulationService) player(ctx context.Context, a *domain.Agent, seat domain.Seat, rng *rand.Rand) (engine.Player, error) {
	p, err := engine.NewPlayer(engine.Config{
		Kind:         a.Kind,
		Seat:         seat,
		LearningRate: a.LearningRate,
		Confidence:   a.Confidence,
		Order:        a.DecisionOrder,
		Table:        s.table,
		Rand:         rng,
		Logger:       s.logger.With(zap.String("agent_id", a.ID.String())),
	})
	if err != nil {
		return nil, fmt.Errorf("build player for agent %s: %w", a.ID, err)
	}

	learner, ok := p.(engine.Learner)
	if !ok {
		return p, nil
	}
	snapshots, err := s.beliefs.GetByAgent(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("load beliefs for agent %s: %w", a.ID, err)
	}
	for _, snap := range snapshots {
		if err := learner.Restore(snap); err != nil {
			// A profile's kind never changes, so a mismatch means the row is stale.
			s.logger.Warn("skipping stored beliefs",
				zap.String("agent_id", a.ID.String()),
				zap.String("order", snap.Order.String()),
				zap.Error(err),
			)
		}
	}
	return p, nil
}

func (s *SimulationService) saveBeliefs(ctx context.Context, agentID uuid.UUID, p engine.Player) error {
	learner, ok := p.(engine.Learner)
	if !ok {
		return nil
	}
	for _, snap := range learner.Snapshots() {
		snap.AgentID = agentID
		if err := s.beliefs.Upsert(ctx, &snap); err != nil {
			return fmt.Errorf("save beliefs for agent %s: %w", agentID, err)
		}
	}
	return nil
}

// RunMatch plays req.Games games between two profiles, persists the learners'
// beliefs and stores the result.
func (s *SimulationService) RunMatch(ctx context.Context, req MatchRequest) (*domain.Match, error) {
	if req.AgentOneID == req.AgentTwoID {
		return nil, ErrSameAgent
	}
	if err := s.validateGames(req.Games); err != nil {
		return nil, err
	}
	mode, err := normalizeMode(req.Mode)
	if err != nil {
		return nil, err
	}

	one, err := s.getAgent(ctx, req.AgentOneID)
	if err != nil {
		return nil, err
	}
	two, err := s.getAgent(ctx, req.AgentTwoID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(one.ID, two.ID)
	defer unlock()

	rng := newRand(req.Seed)
	p1, err := s.player(ctx, one, domain.SeatOne, rng)
	if err != nil {
		return nil, err
	}
	p2, err := s.player(ctx, two, domain.SeatTwo, rng)
	if err != nil {
		return nil, err
	}

	g, err := game.New(p1, p2, game.Options{Mode: mode, Rand: rng, Logger: s.logger})
	if err != nil {
		return nil, err
	}
	tally, err := g.PlayN(ctx, req.Games)
	if err != nil {
		return nil, fmt.Errorf("play match: %w", err)
	}

	if err := s.saveBeliefs(ctx, one.ID, p1); err != nil {
		return nil, err
	}
	if err := s.saveBeliefs(ctx, two.ID, p2); err != nil {
		return nil, err
	}

	m := &domain.Match{AgentOneID: one.ID, AgentTwoID: two.ID, Mode: mode, Tally: tally}
	if err := s.matches.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("store match: %w", err)
	}

	s.logger.Info("match finished",
		zap.String("match_id", m.ID.String()),
		zap.String("agent_one", one.ID.String()),
		zap.String("agent_two", two.ID.String()),
		zap.String("mode", string(mode)),
		zap.Int("games", tally.Games),
		zap.Int("seat_one_wins", tally.Wins[0]),
		zap.Int("seat_two_wins", tally.Wins[1]),
		zap.Int("draws", tally.Draws),
	)
	return m, nil
}

func (s *SimulationService) GetMatch(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	m, err := s.matches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

// MatchesForAgent lists an agent's matches, newest first.
func (s *SimulationService) MatchesForAgent(ctx context.Context, agentID uuid.UUID, limit int) ([]domain.Match, error) {
	if _, err := s.getAgent(ctx, agentID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.matches.ListByAgent(ctx, agentID, min(limit, maxListLimit))
}

type TournamentRequest struct {
	AgentIDs        []uuid.UUID
	GamesPerPairing int
	Mode            domain.GameMode
	Seed            *uint64
}

// Standing is one agent's aggregate over a tournament.
type Standing struct {
	AgentID uuid.UUID `json:"agent_id"`
	Games   int       `json:"games"`
	Wins    int       `json:"wins"`
	Losses  int       `json:"losses"`
	Draws   int       `json:"draws"`
	WinRate float64   `json:"win_rate"`
}

type TournamentResult struct {
	Matches   []domain.Match `json:"matches"`
	Standings []Standing     `json:"standings"`
}

// RunTournament plays every ordered pairing of distinct agents, so each agent
// plays every other from both seats. Independent pairings run concurrently.
func (s *SimulationService) RunTournament(ctx context.Context, req TournamentRequest) (*TournamentResult, error) {
	ids := slices.Clone(req.AgentIDs)
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return cmp.Compare(a.String(), b.String()) })
	ids = slices.Compact(ids)
	if len(ids) < 2 {
		return nil, ErrTooFewAgents
	}
	if err := s.validateGames(req.GamesPerPairing); err != nil {
		return nil, err
	}
	if _, err := normalizeMode(req.Mode); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, err := s.getAgent(ctx, id); err != nil {
			return nil, err
		}
	}

	type pairing struct{ one, two uuid.UUID }
	var pairings []pairing
	for _, a := range ids {
		for _, b := range ids {
			if a != b {
				pairings = append(pairings, pairing{a, b})
			}
		}
	}

	matches := make([]domain.Match, len(pairings))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, p := range pairings {
		var seed *uint64
		if req.Seed != nil {
			v := *req.Seed + uint64(i)
			seed = &v
		}
		g.Go(func() error {
			m, err := s.RunMatch(gCtx, MatchRequest{
				AgentOneID: p.one,
				AgentTwoID: p.two,
				Games:      req.GamesPerPairing,
				Mode:       req.Mode,
				Seed:       seed,
			})
			if err != nil {
				return err
			}
			matches[i] = *m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("tournament: %w", err)
	}

	return &TournamentResult{Matches: matches, Standings: standings(ids, matches)}, nil
}

func standings(ids []uuid.UUID, matches []domain.Match) []Standing {
	byID := make(map[uuid.UUID]*Standing, len(ids))
	out := make([]Standing, len(ids))
	for i, id := range ids {
		out[i].AgentID = id
		byID[id] = &out[i]
	}

	for _, m := range matches {
		one, two := byID[m.AgentOneID], byID[m.AgentTwoID]
		one.Games += m.Tally.Games
		two.Games += m.Tally.Games
		one.Wins += m.Tally.Wins[0]
		one.Losses += m.Tally.Wins[1]
		two.Wins += m.Tally.Wins[1]
		two.Losses += m.Tally.Wins[0]
		one.Draws += m.Tally.Draws
		two.Draws += m.Tally.Draws
	}

	for i := range out {
		if out[i].Games > 0 {
			out[i].WinRate = float64(out[i].Wins) / float64(out[i].Games)
		}
	}
	slices.SortStableFunc(out, func(a, b Standing) int {
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		return cmp.Compare(a.Losses, b.Losses)
	})
	return out
}

type DecisionRequest struct {
	AgentID uuid.UUID
	View    domain.View
	Seed    *uint64
}

// Decide asks a stored profile for its move in a given position. The agent's
// stored beliefs are conditioned on the position but not saved.
func (s *SimulationService) Decide(ctx context.Context, req DecisionRequest) (*engine.Decision, error) {
	if err := req.View.Validate(); err != nil {
		return nil, err
	}
	if len(domain.LegalActions(req.View.Own, req.View.Hand)) == 0 {
		return nil, ErrNoLegalAction
	}

	a, err := s.getAgent(ctx, req.AgentID)
	if err != nil {
		return nil, err
	}
	p, err := s.player(ctx, a, req.View.Seat, newRand(req.Seed))
	if err != nil {
		return nil, err
	}

	p.NewGame()
	p.Observe(req.View)
	d, ok := p.Decide(req.View)
	if !ok {
		return nil, ErrNoLegalAction
	}
	return &d, nil
}

// Beliefs returns the stored snapshots of an agent.
func (s *SimulationService) Beliefs(ctx context.Context, agentID uuid.UUID) ([]domain.BeliefSnapshot, error) {
	if _, err := s.getAgent(ctx, agentID); err != nil {
		return nil, err
	}
	return s.beliefs.GetByAgent(ctx, agentID)
}

// SimilarAgents finds other agents whose stored beliefs of the given order are
// nearest to this agent's.
func (s *SimulationService) SimilarAgents(ctx context.Context, agentID uuid.UUID, order domain.Order, limit int) ([]domain.SnapshotWithDistance, error) {
	snaps, err := s.Beliefs(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	for _, snap := range snaps {
		if snap.Order == order {
			return s.beliefs.FindSimilar(ctx, order, snap.Distribution, agentID, min(limit, maxListLimit))
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoBeliefs, order)
}

// Train plays a learner against a fresh random opponent and saves the
// learner's beliefs. The opponent is not stored.
func (s *SimulationService) Train(ctx context.Context, a *domain.Agent, games int) (domain.Tally, error) {
	if !a.Kind.Learns() {
		return domain.Tally{}, fmt.Errorf("%w: %s does not learn", ErrInvalidAgent, a.Kind)
	}

	unlock := s.locks.lock(a.ID)
	defer unlock()

	rng := newRand(nil)
	learner, err := s.player(ctx, a, domain.SeatOne, rng)
	if err != nil {
		return domain.Tally{}, err
	}
	opponent, err := engine.NewPlayer(engine.Config{Kind: domain.KindRandom, Seat: domain.SeatTwo, Rand: rng})
	if err != nil {
		return domain.Tally{}, err
	}

	g, err := game.New(learner, opponent, game.Options{Rand: rng, Logger: s.logger})
	if err != nil {
		return domain.Tally{}, err
	}
	tally, err := g.PlayN(ctx, games)
	if err != nil {
		return tally, err
	}
	return tally, s.saveBeliefs(ctx, a.ID, learner)
}

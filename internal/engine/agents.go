package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/Harshitk-cp/peckorder/internal/outcome"
	"go.uber.org/zap"
)

var ErrNoTable = errors.New("agent kind requires an outcome table")

// Player is a seated agent driven by the game loop. A player is not safe for
// concurrent use; each one owns its beliefs exclusively.
type Player interface {
	Kind() domain.AgentKind
	Seat() domain.Seat
	// NewGame prepares the player for a fresh game.
	NewGame()
	// Observe is called after every state update with the player's view.
	Observe(v domain.View)
	// Decide returns the next move. ok is false only when no legal move exists.
	Decide(v domain.View) (d Decision, ok bool)
	// Reinforce is called exactly once per finished game, with every card
	// revealed, before beliefs are reset for the next game.
	Reinforce(final domain.View)
}

// Learner is a player whose overall beliefs can be saved and restored.
type Learner interface {
	Player
	Snapshots() []domain.BeliefSnapshot
	Restore(s domain.BeliefSnapshot) error
	GamesPlayed() int
}

// Decision describes how a move was chosen.
type Decision struct {
	Action     domain.Action   `json:"action"`
	Order      domain.Order    `json:"order"`
	Projection *Projection     `json:"projection,omitempty"`
	Informed   bool            `json:"informed"`
	Candidates []domain.Action `json:"candidates,omitempty"`
}

// Config builds a player. Rand and Logger are optional.
type Config struct {
	Kind         domain.AgentKind
	Seat         domain.Seat
	LearningRate float64
	Confidence   float64
	Order        domain.Order
	Table        *outcome.Table
	Rand         *rand.Rand
	Logger       *zap.Logger
}

// NewPlayer validates cfg and builds the matching agent. Out-of-range
// learning rates and confidence levels are rejected.
func NewPlayer(cfg Config) (Player, error) {
	if !cfg.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAgentKind, cfg.Kind)
	}
	if !cfg.Seat.Valid() {
		return nil, domain.ErrInvalidSeat
	}
	if err := domain.ValidateRate(cfg.LearningRate); err != nil {
		return nil, err
	}
	if err := domain.ValidateConfidence(cfg.Confidence); err != nil {
		return nil, err
	}
	switch cfg.Order {
	case domain.ZeroOrder:
	case domain.FirstOrder, domain.Integrated:
		if cfg.Kind != domain.KindFirstOrder {
			return nil, domain.ErrInvalidOrder
		}
	default:
		return nil, domain.ErrInvalidOrder
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	base := baseAgent{
		kind:   cfg.Kind,
		seat:   cfg.Seat,
		rng:    cfg.Rand,
		logger: cfg.Logger.With(zap.String("kind", string(cfg.Kind)), zap.Int("seat", int(cfg.Seat))),
	}

	switch cfg.Kind {
	case domain.KindRandom:
		return &RandomAgent{baseAgent: base}, nil
	case domain.KindFixedAction:
		return &FixedActionAgent{baseAgent: base}, nil
	}

	if cfg.Table == nil {
		return nil, ErrNoTable
	}
	selector := NewSelector(cfg.Table)

	switch cfg.Kind {
	case domain.KindLevenshtein:
		return &LevenshteinAgent{baseAgent: base, selector: selector}, nil
	case domain.KindZeroOrder:
		beliefs, err := NewBeliefs(cfg.LearningRate, cfg.Rand)
		if err != nil {
			return nil, err
		}
		a := &ZeroOrderAgent{baseAgent: base, selector: selector, beliefs: beliefs}
		a.NewGame()
		return a, nil
	default:
		beliefs, err := NewBeliefs(cfg.LearningRate, cfg.Rand)
		if err != nil {
			return nil, err
		}
		a := &FirstOrderAgent{
			baseAgent:  base,
			selector:   selector,
			beliefs:    beliefs,
			order:      cfg.Order,
			confidence: cfg.Confidence,
		}
		a.NewGame()
		return a, nil
	}
}

type baseAgent struct {
	kind   domain.AgentKind
	seat   domain.Seat
	rng    *rand.Rand
	logger *zap.Logger
}

func (b *baseAgent) Kind() domain.AgentKind { return b.kind }
func (b *baseAgent) Seat() domain.Seat      { return b.seat }

func (b *baseAgent) NewGame()                    {}
func (b *baseAgent) Observe(domain.View)         {}
func (b *baseAgent) Reinforce(final domain.View) {}

func (b *baseAgent) fallback(v domain.View, order domain.Order) (Decision, bool) {
	a, ok := RandomLegal(b.rng, v.Own, v.Hand)
	return Decision{Action: a, Order: order}, ok
}

func (b *baseAgent) logDecision(d Decision, extra ...zap.Field) {
	fields := append([]zap.Field{
		zap.String("order", d.Order.String()),
		zap.Int("card", int(d.Action.Card)),
		zap.Int("perch", int(d.Action.Perch)),
		zap.Int("candidates", len(d.Candidates)),
		zap.Bool("informed", d.Informed),
	}, extra...)
	b.logger.Debug("decision", fields...)
}

// RandomAgent plays a uniformly random legal move.
type RandomAgent struct {
	baseAgent
}

func (a *RandomAgent) Decide(v domain.View) (Decision, bool) {
	return a.fallback(v, domain.ZeroOrder)
}

// FixedActionAgent plays its lowest card into the leftmost open perch.
type FixedActionAgent struct {
	baseAgent
}

func (a *FixedActionAgent) Decide(v domain.View) (Decision, bool) {
	open := v.Own.OpenPerches()
	cards := v.Hand.Cards()
	if len(open) == 0 || len(cards) == 0 {
		return Decision{}, false
	}
	return Decision{Action: domain.Action{Card: cards[0], Perch: open[0]}, Informed: true}, true
}

// LevenshteinAgent searches the outcome table against the literal visible
// opponent board, without beliefs.
type LevenshteinAgent struct {
	baseAgent
	selector *Selector
}

func (a *LevenshteinAgent) Decide(v domain.View) (Decision, bool) {
	res, ok := a.selector.Select(a.rng, Query{Seat: a.seat, Own: v.Own, Hand: v.Hand, Opponent: v.Opponent})
	d := Decision{Action: res.Action, Informed: res.Informed, Candidates: res.Candidates}
	a.logDecision(d)
	return d, ok
}

// ZeroOrderAgent models the opponent's own card-to-perch mapping and searches
// against the board it projects from those beliefs.
type ZeroOrderAgent struct {
	baseAgent
	selector *Selector
	beliefs  *Beliefs
	games    int
}

func (a *ZeroOrderAgent) NewGame() {
	a.beliefs.Initialize(domain.ZeroOrder)
}

func (a *ZeroOrderAgent) Observe(v domain.View) {
	a.beliefs.Condition(domain.ZeroOrder, v.Opponent)
}

func (a *ZeroOrderAgent) Decide(v domain.View) (Decision, bool) {
	proj := ProjectFromPerspective(v.Opponent, a.beliefs.Current(domain.ZeroOrder))
	res, ok := a.selector.Select(a.rng, Query{Seat: a.seat, Own: v.Own, Hand: v.Hand, Opponent: proj.Board})
	d := Decision{
		Action:     res.Action,
		Order:      domain.ZeroOrder,
		Projection: &proj,
		Informed:   res.Informed,
		Candidates: res.Candidates,
	}
	a.logDecision(d)
	return d, ok
}

func (a *ZeroOrderAgent) Reinforce(final domain.View) {
	a.beliefs.ReinforceBoard(domain.ZeroOrder, final.Opponent)
	a.beliefs.Reset(domain.ZeroOrder)
	a.games++
}

func (a *ZeroOrderAgent) Beliefs() *Beliefs { return a.beliefs }

func (a *ZeroOrderAgent) GamesPlayed() int { return a.games }

func (a *ZeroOrderAgent) Snapshots() []domain.BeliefSnapshot {
	return []domain.BeliefSnapshot{{
		Order:        domain.ZeroOrder,
		Distribution: a.beliefs.Overall(domain.ZeroOrder),
		GamesPlayed:  a.games,
	}}
}

func (a *ZeroOrderAgent) Restore(s domain.BeliefSnapshot) error {
	if s.Order != domain.ZeroOrder {
		return fmt.Errorf("%w: %s", domain.ErrInvalidOrder, s.Order)
	}
	a.beliefs.Restore(domain.ZeroOrder, s.Distribution)
	a.beliefs.Initialize(domain.ZeroOrder)
	a.games = s.GamesPlayed
	return nil
}

// FirstOrderAgent additionally models what the opponent believes about this
// agent's own board, simulates the opponent's search under that belief, and
// can fuse both orders using an adaptive confidence level.
type FirstOrderAgent struct {
	baseAgent
	selector    *Selector
	beliefs     *Beliefs
	order       domain.Order
	confidence  float64
	games       int
	actions     ActionLog
	projections ProjectionLog
}

func (a *FirstOrderAgent) NewGame() {
	a.beliefs.Initialize(domain.ZeroOrder)
	a.beliefs.Initialize(domain.FirstOrder)
	a.actions.Reset()
	a.projections.Reset()
}

func (a *FirstOrderAgent) Observe(v domain.View) {
	a.beliefs.Condition(domain.ZeroOrder, v.Opponent)
	a.beliefs.Condition(domain.FirstOrder, OpponentView(v.Own, v.Opponent))
}

// ProjectZeroOrder projects the opponent board from zero-order beliefs.
func (a *FirstOrderAgent) ProjectZeroOrder(v domain.View) Projection {
	return ProjectFromPerspective(v.Opponent, a.beliefs.Current(domain.ZeroOrder))
}

// ProjectFirstOrder projects the opponent board by simulating the opponent's
// own search. The opponent is assumed to see this agent's board as first-order
// beliefs predict it; the moves it would prefer are logged, and the latest of
// them, together with earlier logged moves for face-down perches, form the
// projection.
func (a *FirstOrderAgent) ProjectFirstOrder(v domain.View) Projection {
	seenOfMe := ProjectFromPerspective(OpponentView(v.Own, v.Opponent), a.beliefs.Current(domain.FirstOrder))
	a.actions.Append(a.selector.Candidates(Query{
		Seat:     a.seat.Other(),
		Own:      v.Opponent,
		Hand:     domain.UnplayedOn(v.Opponent),
		Opponent: seenOfMe.Board,
	})...)

	proj := Observed(v.Opponent)
	if next, ok := a.actions.Latest(); ok && proj.Board.Open(next.Perch) && !proj.Board.Contains(next.Card) {
		proj.place(next)
	}

	logged := a.actions.Actions()
	for _, p := range domain.Perches() {
		if proj.Board.At(p).State != domain.FaceDown {
			continue
		}
		for i := len(logged) - 1; i >= 0; i-- {
			if logged[i].Perch == p && !proj.Board.Contains(logged[i].Card) {
				proj.place(logged[i])
				break
			}
		}
	}
	return proj
}

// ProjectIntegrated fuses both orders. Confidence is first adapted against the
// revealed opponent board, the first-order projection is logged, and the
// latest logged projection weights the zero-order beliefs.
func (a *FirstOrderAgent) ProjectIntegrated(v domain.View) Projection {
	firstOrder := a.ProjectFirstOrder(v)

	a.confidence = a.projections.AdaptConfidence(a.confidence, a.beliefs.LearningRate(), v.Opponent)
	a.projections.Append(firstOrder)

	integrated := a.beliefs.Current(domain.ZeroOrder)
	if latest, ok := a.projections.Latest(); ok {
		integrated = Integrate(integrated, latest.Board, a.confidence)
	}
	return ProjectFromPerspective(v.Opponent, integrated)
}

func (a *FirstOrderAgent) Decide(v domain.View) (Decision, bool) {
	var proj Projection
	switch a.order {
	case domain.ZeroOrder:
		proj = a.ProjectZeroOrder(v)
	case domain.FirstOrder:
		proj = a.ProjectFirstOrder(v)
	default:
		proj = a.ProjectIntegrated(v)
	}

	res, ok := a.selector.Select(a.rng, Query{Seat: a.seat, Own: v.Own, Hand: v.Hand, Opponent: proj.Board})
	d := Decision{
		Action:     res.Action,
		Order:      a.order,
		Projection: &proj,
		Informed:   res.Informed,
		Candidates: res.Candidates,
	}
	a.logDecision(d, zap.Float64("confidence", a.confidence))
	return d, ok
}

// Reinforce learns the opponent's final mapping as zero-order evidence and
// this agent's own final mapping as first-order evidence. Confidence carries
// over to the next game.
func (a *FirstOrderAgent) Reinforce(final domain.View) {
	a.beliefs.ReinforceBoard(domain.ZeroOrder, final.Opponent)
	a.beliefs.ReinforceBoard(domain.FirstOrder, final.Own)
	a.beliefs.Reset(domain.ZeroOrder)
	a.beliefs.Reset(domain.FirstOrder)
	a.actions.Reset()
	a.projections.Reset()
	a.games++
}

func (a *FirstOrderAgent) Beliefs() *Beliefs { return a.beliefs }

func (a *FirstOrderAgent) Confidence() float64 { return a.confidence }

func (a *FirstOrderAgent) Order() domain.Order { return a.order }

func (a *FirstOrderAgent) GamesPlayed() int { return a.games }

func (a *FirstOrderAgent) Snapshots() []domain.BeliefSnapshot {
	out := make([]domain.BeliefSnapshot, 0, 2)
	for _, o := range []domain.Order{domain.ZeroOrder, domain.FirstOrder} {
		out = append(out, domain.BeliefSnapshot{
			Order:        o,
			Distribution: a.beliefs.Overall(o),
			Confidence:   a.confidence,
			GamesPlayed:  a.games,
		})
	}
	return out
}

func (a *FirstOrderAgent) Restore(s domain.BeliefSnapshot) error {
	if s.Order != domain.ZeroOrder && s.Order != domain.FirstOrder {
		return fmt.Errorf("%w: %s", domain.ErrInvalidOrder, s.Order)
	}
	if err := domain.ValidateConfidence(s.Confidence); err != nil {
		return err
	}
	a.beliefs.Restore(s.Order, s.Distribution)
	a.beliefs.Initialize(s.Order)
	a.confidence = s.Confidence
	a.games = s.GamesPlayed
	return nil
}

var (
	_ Learner = (*ZeroOrderAgent)(nil)
	_ Learner = (*FirstOrderAgent)(nil)
)

// Package game runs Pecking Order games between two players: it sequences
// turns, enforces legality, computes what each side can see, scores the final
// boards and reinforces the players.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/Harshitk-cp/peckorder/internal/engine"
	"github.com/Harshitk-cp/peckorder/internal/outcome"
	"go.uber.org/zap"
)

var (
	ErrIllegalAction = errors.New("illegal action")
	ErrSeating       = errors.New("players must occupy seats 1 and 2")
	ErrGameOver      = errors.New("game is over")
)

// Move is one placed card.
type Move struct {
	Round    int           `json:"round"`
	Seat     domain.Seat   `json:"seat"`
	Action   domain.Action `json:"action"`
	Informed bool          `json:"informed"`
}

type Options struct {
	Mode   domain.GameMode
	Rand   *rand.Rand
	Logger *zap.Logger
}

// Game holds the state of the current game between two seated players.
type Game struct {
	mode    domain.GameMode
	players [2]engine.Player
	boards  [2]domain.Board
	hands   [2]domain.Hand
	round   int
	moves   []Move
	rng     *rand.Rand
	logger  *zap.Logger
}

func New(one, two engine.Player, opts Options) (*Game, error) {
	if one.Seat() != domain.SeatOne || two.Seat() != domain.SeatTwo {
		return nil, ErrSeating
	}
	if opts.Mode == "" {
		opts.Mode = domain.ModeSequential
	}
	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("unknown game mode %q", opts.Mode)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	g := &Game{
		mode:    opts.Mode,
		players: [2]engine.Player{one, two},
		rng:     opts.Rand,
		logger:  opts.Logger,
	}
	g.reset()
	return g, nil
}

func (g *Game) reset() {
	g.boards = [2]domain.Board{}
	g.hands = [2]domain.Hand{domain.FullHand(), domain.FullHand()}
	g.round = 0
	g.moves = g.moves[:0]
}

func (g *Game) Mode() domain.GameMode {
	return g.mode
}

// View is what the player in seat knows: its own board and hand, and the
// opponent board as visible from its side.
func (g *Game) View(seat domain.Seat) domain.View {
	i := int(seat) - 1
	return domain.View{
		Seat:     seat,
		Own:      g.boards[i],
		Hand:     g.hands[i],
		Opponent: domain.Visible(g.boards[i], g.boards[1-i]),
	}
}

func (g *Game) Boards() [2]domain.Board {
	return g.boards
}

func (g *Game) Moves() []Move {
	return append([]Move(nil), g.moves...)
}

// Done reports whether both boards are full.
func (g *Game) Done() bool {
	return g.boards[0].Full() && g.boards[1].Full()
}

// Apply places a card for seat after checking it is legal.
func (g *Game) Apply(seat domain.Seat, a domain.Action, informed bool) error {
	if !seat.Valid() {
		return domain.ErrInvalidSeat
	}
	i := int(seat) - 1
	if !a.Valid() || !g.hands[i].Has(a.Card) || !g.boards[i].Open(a.Perch) {
		return fmt.Errorf("%w: seat %d %s", ErrIllegalAction, seat, a)
	}
	g.boards[i] = g.boards[i].Place(a)
	g.hands[i].Remove(a.Card)
	g.moves = append(g.moves, Move{Round: g.round, Seat: seat, Action: a, Informed: informed})
	return nil
}

func (g *Game) observe() {
	for _, p := range g.players {
		p.Observe(g.View(p.Seat()))
	}
}

func (g *Game) decide(p engine.Player) (domain.Action, bool, error) {
	v := g.View(p.Seat())
	d, ok := p.Decide(v)
	if ok {
		return d.Action, d.Informed, nil
	}
	a, ok := engine.RandomLegal(g.rng, v.Own, v.Hand)
	if !ok {
		return domain.Action{}, false, fmt.Errorf("%w: seat %d has no legal move", ErrIllegalAction, p.Seat())
	}
	return a, false, nil
}

// Round plays one card per player. In sequential mode seat one moves and the
// state is updated before seat two decides; in simultaneous mode both decide
// on the same state.
func (g *Game) Round() error {
	if g.Done() {
		return ErrGameOver
	}
	g.round++

	if g.mode == domain.ModeSimultaneous {
		var actions [2]domain.Action
		var informed [2]bool
		for i, p := range g.players {
			a, inf, err := g.decide(p)
			if err != nil {
				return err
			}
			actions[i], informed[i] = a, inf
		}
		for i, p := range g.players {
			if err := g.Apply(p.Seat(), actions[i], informed[i]); err != nil {
				return err
			}
		}
		g.observe()
		return nil
	}

	for _, p := range g.players {
		a, inf, err := g.decide(p)
		if err != nil {
			return err
		}
		if err := g.Apply(p.Seat(), a, inf); err != nil {
			return err
		}
		g.observe()
	}
	return nil
}

// Play runs a complete game and reinforces both players exactly once.
func (g *Game) Play(ctx context.Context) (domain.Payoff, error) {
	g.reset()
	for _, p := range g.players {
		p.NewGame()
	}

	for !g.Done() {
		if err := ctx.Err(); err != nil {
			return domain.Payoff{}, err
		}
		if err := g.Round(); err != nil {
			return domain.Payoff{}, err
		}
	}

	payoff := outcome.ScoreBoards(g.boards[0], g.boards[1])
	for _, p := range g.players {
		p.Reinforce(g.View(p.Seat()))
	}

	g.logger.Debug("game finished",
		zap.String("seat_one", g.boards[0].String()),
		zap.String("seat_two", g.boards[1].String()),
		zap.Int("winner", int(payoff.Winner)),
		zap.Ints("scores", payoff.Scores[:]),
	)
	return payoff, nil
}

// PlayN plays n games and tallies the results. It stops early, returning the
// partial tally, if ctx is cancelled.
func (g *Game) PlayN(ctx context.Context, n int) (domain.Tally, error) {
	var tally domain.Tally
	for i := 0; i < n; i++ {
		payoff, err := g.Play(ctx)
		if err != nil {
			return tally, err
		}
		tally.Record(payoff)
	}
	return tally, nil
}

// Package engine implements belief-driven decision making for Pecking Order
// agents: belief stores, hidden-state projection, belief integration and the
// similarity-guided action search over the outcome table.
package engine

import (
	"math/rand/v2"

	"github.com/Harshitk-cp/peckorder/internal/domain"
)

// seedWeightRange bounds the random weights drawn when a distribution is
// first seeded. Weights are in [1, seedWeightRange].
const seedWeightRange = 100

type orderStore struct {
	overall domain.BeliefDistribution
	current domain.BeliefDistribution
}

// Beliefs owns the overall and current distributions for the zero-order and
// first-order beliefs of one agent. Overall beliefs persist across games and
// change only through reinforcement; current beliefs are copied from overall
// at the start of a game and conditioned on what is revealed during it.
//
// Integrated beliefs are derived per decision and are never stored here;
// calls made with domain.Integrated are ignored.
type Beliefs struct {
	learningRate float64
	rng          *rand.Rand
	stores       [2]orderStore
}

func NewBeliefs(learningRate float64, rng *rand.Rand) (*Beliefs, error) {
	if err := domain.ValidateRate(learningRate); err != nil {
		return nil, err
	}
	return &Beliefs{learningRate: learningRate, rng: rng}, nil
}

func (b *Beliefs) LearningRate() float64 {
	return b.learningRate
}

func (b *Beliefs) store(o domain.Order) *orderStore {
	switch o {
	case domain.ZeroOrder, domain.FirstOrder:
		return &b.stores[o]
	default:
		return nil
	}
}

// Initialize seeds the overall distribution with positive random weights if
// it holds no mass yet, then copies it into current.
func (b *Beliefs) Initialize(o domain.Order) {
	s := b.store(o)
	if s == nil {
		return
	}
	if s.overall.Total() <= 0 {
		for _, a := range domain.AllActions() {
			s.overall.Set(a, float64(b.rng.IntN(seedWeightRange)+1))
		}
		s.overall.Normalize()
	}
	s.current = s.overall
}

// Reset discards what was learned during the current game.
func (b *Beliefs) Reset(o domain.Order) {
	if s := b.store(o); s != nil {
		s.current = s.overall
	}
}

// Condition zeroes every current pair ruled out by a revealed board: the card
// is already showing somewhere, or the perch already shows a card. The
// remaining mass is renormalized; if none remains the distribution stays at
// zero.
func (b *Beliefs) Condition(o domain.Order, revealed domain.Board) {
	s := b.store(o)
	if s == nil {
		return
	}
	for _, a := range domain.AllActions() {
		if revealed.Contains(a.Card) || revealed.At(a.Perch).Known() {
			s.current.Set(a, 0)
		}
	}
	s.current.Normalize()
}

// Reinforce adds the learning rate to the overall mass of an observed pair and
// renormalizes. An invalid pair only renormalizes.
func (b *Beliefs) Reinforce(o domain.Order, observed domain.Action) {
	s := b.store(o)
	if s == nil {
		return
	}
	if observed.Valid() {
		s.overall.Set(observed, s.overall.At(observed)+b.learningRate)
	}
	s.overall.Normalize()
}

// ReinforceBoard reinforces every revealed pair of a finished board.
func (b *Beliefs) ReinforceBoard(o domain.Order, final domain.Board) {
	for _, p := range domain.Perches() {
		if c := final.At(p); c.Known() {
			b.Reinforce(o, domain.Action{Card: c.Card, Perch: p})
		}
	}
}

func (b *Beliefs) Current(o domain.Order) domain.BeliefDistribution {
	if s := b.store(o); s != nil {
		return s.current
	}
	return domain.BeliefDistribution{}
}

func (b *Beliefs) Overall(o domain.Order) domain.BeliefDistribution {
	if s := b.store(o); s != nil {
		return s.overall
	}
	return domain.BeliefDistribution{}
}

// Restore replaces the overall distribution, typically from a stored
// snapshot. Current is left untouched until the next Initialize or Reset.
func (b *Beliefs) Restore(o domain.Order, d domain.BeliefDistribution) {
	if s := b.store(o); s != nil {
		s.overall = d
	}
}

package engine

import (
	"math/rand/v2"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/Harshitk-cp/peckorder/internal/outcome"
	"github.com/Harshitk-cp/peckorder/internal/similarity"
)

// Query is one search request: the searching seat's own board and hand, and
// the opponent board it should assume (literal or projected).
type Query struct {
	Seat     domain.Seat
	Own      domain.Board
	Hand     domain.Hand
	Opponent domain.Board
}

// Result is the outcome of a search. Informed is false when the search found
// no recommendation and Action was drawn from the legal moves at random.
type Result struct {
	Action     domain.Action
	Informed   bool
	Candidates []domain.Action
}

// Selector searches the outcome table for terminal states resembling the
// current position and turns the best of them into a move. It holds no
// mutable state and can be shared.
type Selector struct {
	table *outcome.Table
}

func NewSelector(table *outcome.Table) *Selector {
	return &Selector{table: table}
}

// MostSimilar returns every table entry maximizing the combined similarity of
// own to the entry's board for seat and opponent to the other board.
func (s *Selector) MostSimilar(seat domain.Seat, own, opponent domain.Board) []domain.TerminalOutcome {
	var best []domain.TerminalOutcome
	bestScore := -1
	for _, e := range s.table.Entries() {
		score := similarity.Boards(own, e.Board(seat)) + similarity.Boards(opponent, e.Board(seat.Other()))
		switch {
		case score > bestScore:
			bestScore = score
			best = append(best[:0], e)
		case score == bestScore:
			best = append(best, e)
		}
	}
	return best
}

// BestStates narrows a most-similar set to the winning entries with the
// highest own score. Without any win it falls back to tied entries; without
// either it returns nil.
func BestStates(seat domain.Seat, similar []domain.TerminalOutcome) []domain.TerminalOutcome {
	var winning, tied []domain.TerminalOutcome
	topScore := -1
	for _, e := range similar {
		switch e.Payoff.Winner {
		case seat:
			winning = append(winning, e)
			topScore = max(topScore, e.Payoff.Score(seat))
		case domain.NoSeat:
			tied = append(tied, e)
		}
	}
	if len(winning) == 0 {
		return tied
	}

	best := winning[:0]
	for _, e := range winning {
		if e.Payoff.Score(seat) == topScore {
			best = append(best, e)
		}
	}
	return best
}

// CandidateActions simulates every legal move against every target state and
// returns the distinct moves that bring own closest to any target.
func CandidateActions(seat domain.Seat, own domain.Board, hand domain.Hand, targets []domain.TerminalOutcome) []domain.Action {
	legal := domain.LegalActions(own, hand)
	if len(targets) == 0 || len(legal) == 0 {
		return nil
	}

	bestScore := -1
	for _, t := range targets {
		target := t.Board(seat)
		for _, a := range legal {
			bestScore = max(bestScore, similarity.Boards(own.Place(a), target))
		}
	}

	var out []domain.Action
	seen := make(map[domain.Action]bool)
	for _, t := range targets {
		target := t.Board(seat)
		for _, a := range legal {
			if seen[a] || similarity.Boards(own.Place(a), target) < bestScore {
				continue
			}
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}

// Candidates runs the full search and returns every equally good move.
func (s *Selector) Candidates(q Query) []domain.Action {
	similar := s.MostSimilar(q.Seat, q.Own, q.Opponent)
	return CandidateActions(q.Seat, q.Own, q.Hand, BestStates(q.Seat, similar))
}

// Select picks uniformly among the search candidates, or among all legal
// moves when the search has no recommendation. ok is false only when no
// legal move exists.
func (s *Selector) Select(rng *rand.Rand, q Query) (Result, bool) {
	candidates := s.Candidates(q)
	if len(candidates) > 0 {
		return Result{
			Action:     candidates[rng.IntN(len(candidates))],
			Informed:   true,
			Candidates: candidates,
		}, true
	}
	a, ok := RandomLegal(rng, q.Own, q.Hand)
	return Result{Action: a}, ok
}

// RandomLegal draws uniformly from the moves that are currently legal.
func RandomLegal(rng *rand.Rand, own domain.Board, hand domain.Hand) (domain.Action, bool) {
	legal := domain.LegalActions(own, hand)
	if len(legal) == 0 {
		return domain.Action{}, false
	}
	return legal[rng.IntN(len(legal))], true
}

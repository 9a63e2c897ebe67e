package engine

import "github.com/Harshitk-cp/peckorder/internal/domain"

// Projection is a hypothetical board built from beliefs. Predicted marks the
// perches whose card came from a belief rather than from observation.
type Projection struct {
	Board     domain.Board            `json:"board"`
	Predicted [domain.NumPerches]bool `json:"predicted"`
}

// Observed is a projection that adds nothing to what was seen.
func Observed(b domain.Board) Projection {
	return Projection{Board: b}
}

func (p *Projection) place(a domain.Action) {
	p.Board.Set(a.Perch, domain.FaceUpCell(a.Card))
	p.Predicted[a.Perch-1] = true
}

// HasPredictions reports whether any perch was filled from beliefs.
func (p Projection) HasPredictions() bool {
	for _, v := range p.Predicted {
		if v {
			return true
		}
	}
	return false
}

// HighestBelief returns the most probable next move onto board: the pair with
// the largest positive probability whose perch is still open and whose card is
// not already showing. The first maximum in card-major order wins ties.
func HighestBelief(board domain.Board, d domain.BeliefDistribution) (domain.Action, bool) {
	var best domain.Action
	bestValue := 0.0
	for _, a := range domain.AllActions() {
		if !board.Open(a.Perch) || board.Contains(a.Card) {
			continue
		}
		if v := d.At(a); v > bestValue {
			best, bestValue = a, v
		}
	}
	return best, bestValue > 0
}

// PredictFaceDown fills every face-down perch of p, in ascending perch order,
// with the most probable card for that perch that is neither excluded nor
// already present in the projection. Perches without a positive candidate
// stay face-down.
func PredictFaceDown(p *Projection, d domain.BeliefDistribution, excluded domain.Card) {
	for _, perch := range domain.Perches() {
		if p.Board.At(perch).State != domain.FaceDown {
			continue
		}
		var best domain.Card
		bestValue := 0.0
		for _, card := range domain.Cards() {
			if card == excluded || p.Board.Contains(card) {
				continue
			}
			if v := d.At(domain.Action{Card: card, Perch: perch}); v > bestValue {
				best, bestValue = card, v
			}
		}
		if best != domain.NoCard {
			p.place(domain.Action{Card: best, Perch: perch})
		}
	}
}

// ProjectFromPerspective guesses the true state behind an observed board. The
// most probable next move is overlaid on an open perch and face-down perches
// are filled with their most probable cards. A board on which nothing has been
// played yet is returned unchanged.
func ProjectFromPerspective(observed domain.Board, d domain.BeliefDistribution) Projection {
	proj := Observed(observed)
	if observed.Blank() {
		return proj
	}

	excluded := domain.NoCard
	if next, ok := HighestBelief(observed, d); ok {
		proj.place(next)
		excluded = next.Card
	}
	PredictFaceDown(&proj, d, excluded)
	return proj
}

// OpponentView is what the opponent can see of own, given the opponent board
// as this player sees it. Occupancy of the visible board always matches the
// real one, so visibility can be recomputed from this side.
func OpponentView(own, visibleOpponent domain.Board) domain.Board {
	return domain.Visible(visibleOpponent, own)
}

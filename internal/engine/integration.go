package engine

import "github.com/Harshitk-cp/peckorder/internal/domain"

// ActionLog is the append-only record of moves the simulated opponent was
// found to prefer during the current game. Duplicates are dropped.
type ActionLog struct {
	actions []domain.Action
}

func (l *ActionLog) Append(actions ...domain.Action) {
	for _, a := range actions {
		if !l.contains(a) {
			l.actions = append(l.actions, a)
		}
	}
}

func (l *ActionLog) contains(a domain.Action) bool {
	for _, x := range l.actions {
		if x == a {
			return true
		}
	}
	return false
}

// Latest returns the most recently appended action.
func (l *ActionLog) Latest() (domain.Action, bool) {
	if len(l.actions) == 0 {
		return domain.Action{}, false
	}
	return l.actions[len(l.actions)-1], true
}

func (l *ActionLog) Actions() []domain.Action {
	return append([]domain.Action(nil), l.actions...)
}

func (l *ActionLog) Len() int {
	return len(l.actions)
}

func (l *ActionLog) Reset() {
	l.actions = l.actions[:0]
}

type loggedProjection struct {
	Projection
	scored [domain.NumPerches]bool
}

// ProjectionLog is the append-only record of first-order projections made
// during the current game, oldest first. Each predicted cell is scored at most
// once, when its perch is revealed.
type ProjectionLog struct {
	entries []loggedProjection
}

// Append records p unless an identical projection is already present.
func (l *ProjectionLog) Append(p Projection) bool {
	for _, e := range l.entries {
		if e.Projection == p {
			return false
		}
	}
	l.entries = append(l.entries, loggedProjection{Projection: p})
	return true
}

func (l *ProjectionLog) Latest() (Projection, bool) {
	if len(l.entries) == 0 {
		return Projection{}, false
	}
	return l.entries[len(l.entries)-1].Projection, true
}

func (l *ProjectionLog) Len() int {
	return len(l.entries)
}

func (l *ProjectionLog) Reset() {
	l.entries = l.entries[:0]
}

// AdaptConfidence scores logged projections against the revealed opponent
// board and returns the adjusted confidence. Entries are visited oldest
// first; for each one, any newly confirmed prediction moves confidence toward
// one and any newly refuted prediction moves it toward zero. Only perches
// showing a card on revealed are scored.
func (l *ProjectionLog) AdaptConfidence(confidence, learningRate float64, revealed domain.Board) float64 {
	for i := range l.entries {
		e := &l.entries[i]
		var correct, incorrect bool
		for _, p := range domain.Perches() {
			idx := p - 1
			if e.scored[idx] || !e.Predicted[idx] || !revealed.At(p).Known() {
				continue
			}
			e.scored[idx] = true
			if e.Board.At(p) == revealed.At(p) {
				correct = true
			} else {
				incorrect = true
			}
		}
		if correct {
			confidence = learningRate + (1-learningRate)*confidence
		}
		if incorrect {
			confidence = (1 - learningRate) * confidence
		}
	}
	return confidence
}

// Integrate fuses zero-order beliefs with a first-order projection of the
// opponent board. A pair the projection places exactly is raised to
// c + (1-c)*b; a card the projection places on another perch is lowered to
// (1-c)*b; other pairs keep b. The result is not renormalized.
func Integrate(zero domain.BeliefDistribution, projected domain.Board, confidence float64) domain.BeliefDistribution {
	out := zero
	for _, a := range domain.AllActions() {
		b := zero.At(a)
		switch {
		case projected.At(a.Perch) == domain.FaceUpCell(a.Card):
			out.Set(a, confidence+(1-confidence)*b)
		case projected.Contains(a.Card):
			out.Set(a, (1-confidence)*b)
		}
	}
	return out
}

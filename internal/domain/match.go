package domain

import (
	"time"

	"github.com/google/uuid"
)

// GameMode decides whether players move one after another or at once.
type GameMode string

const (
	ModeSequential   GameMode = "sequential"
	ModeSimultaneous GameMode = "simultaneous"
)

func (m GameMode) Valid() bool {
	return m == ModeSequential || m == ModeSimultaneous
}

// Tally counts results over a series of games.
type Tally struct {
	Games int    `json:"games"`
	Wins  [2]int `json:"wins"`
	Draws int    `json:"draws"`
}

func (t *Tally) Record(p Payoff) {
	t.Games++
	if p.Winner.Valid() {
		t.Wins[p.Winner-1]++
		return
	}
	t.Draws++
}

func (t Tally) WinRate(s Seat) float64 {
	if t.Games == 0 || !s.Valid() {
		return 0
	}
	return float64(t.Wins[s-1]) / float64(t.Games)
}

// Match is a stored series of games between two agent profiles.
type Match struct {
	ID         uuid.UUID `json:"id"`
	AgentOneID uuid.UUID `json:"agent_one_id"`
	AgentTwoID uuid.UUID `json:"agent_two_id"`
	Mode       GameMode  `json:"mode"`
	Tally      Tally     `json:"tally"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeliefSnapshot is the persisted overall belief of one agent for one order.
type BeliefSnapshot struct {
	AgentID      uuid.UUID          `json:"agent_id"`
	Order        Order              `json:"order"`
	Distribution BeliefDistribution `json:"-"`
	Confidence   float64            `json:"confidence"`
	GamesPlayed  int                `json:"games_played"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type SnapshotWithDistance struct {
	BeliefSnapshot
	Distance float32 `json:"distance"`
}

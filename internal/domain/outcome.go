package domain

// Payoff is the result of a completed game.
type Payoff struct {
	Winner Seat   `json:"winner"`
	Scores [2]int `json:"scores"`
}

// Score returns the points earned by seat.
func (p Payoff) Score(s Seat) int {
	if !s.Valid() {
		return 0
	}
	return p.Scores[s-1]
}

// Mirror swaps the seats: the winner is renumbered and the scores swapped.
func (p Payoff) Mirror() Payoff {
	return Payoff{
		Winner: p.Winner.Other(),
		Scores: [2]int{p.Scores[1], p.Scores[0]},
	}
}

// TerminalOutcome pairs two final boards with their payoff. Boards[0] belongs
// to seat one and Boards[1] to seat two; the winner uses the same numbering.
type TerminalOutcome struct {
	Boards [2]Board `json:"boards"`
	Payoff Payoff   `json:"payoff"`
}

// Board returns the final board of seat.
func (o TerminalOutcome) Board(s Seat) Board {
	if s == SeatTwo {
		return o.Boards[1]
	}
	return o.Boards[0]
}

// Mirror returns the same game with the two seats exchanged.
func (o TerminalOutcome) Mirror() TerminalOutcome {
	return TerminalOutcome{
		Boards: [2]Board{o.Boards[1], o.Boards[0]},
		Payoff: o.Payoff.Mirror(),
	}
}

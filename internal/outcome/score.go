package outcome

import "github.com/Harshitk-cp/peckorder/internal/domain"

// Score decides a finished game. Each perch goes to the higher card and is
// worth its index in points. Equal totals are settled by perch one; if that
// perch is level too, the game is a tie.
func Score(seatOne, seatTwo [domain.NumPerches]domain.Card) domain.Payoff {
	var scores [2]int
	for i := range seatOne {
		points := i + 1
		switch {
		case seatOne[i] > seatTwo[i]:
			scores[0] += points
		case seatOne[i] < seatTwo[i]:
			scores[1] += points
		}
	}

	p := domain.Payoff{Scores: scores}
	switch {
	case scores[0] > scores[1]:
		p.Winner = domain.SeatOne
	case scores[0] < scores[1]:
		p.Winner = domain.SeatTwo
	case seatOne[0] > seatTwo[0]:
		p.Winner = domain.SeatOne
	case seatOne[0] < seatTwo[0]:
		p.Winner = domain.SeatTwo
	default:
		p.Winner = domain.NoSeat
	}
	return p
}

// ScoreBoards is Score over two revealed boards.
func ScoreBoards(seatOne, seatTwo domain.Board) domain.Payoff {
	return Score(seatOne.Cards(), seatTwo.Cards())
}

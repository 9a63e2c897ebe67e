package engine

import (
	"testing"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/Harshitk-cp/peckorder/internal/outcome"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *outcome.Table {
	t.Helper()
	table, err := outcome.Default()
	require.NoError(t, err)
	return table
}

func terminal(one, two domain.Board) domain.TerminalOutcome {
	return domain.TerminalOutcome{
		Boards: [2]domain.Board{one, two},
		Payoff: outcome.ScoreBoards(one, two),
	}
}

func TestMostSimilar_ExactMatch(t *testing.T) {
	s := NewSelector(testTable(t))
	own := domain.NewBoard(1, 2, 3, 4)
	opp := domain.NewBoard(2, 1, 4, 3)

	got := s.MostSimilar(domain.SeatOne, own, opp)
	require.Len(t, got, 1)
	assert.Equal(t, own, got[0].Board(domain.SeatOne))
	assert.Equal(t, opp, got[0].Board(domain.SeatTwo))
	assert.Equal(t, domain.SeatOne, got[0].Payoff.Winner)
	assert.Equal(t, [2]int{6, 4}, got[0].Payoff.Scores)

	got = s.MostSimilar(domain.SeatTwo, opp, own)
	require.Len(t, got, 1)
	assert.Equal(t, opp, got[0].Board(domain.SeatTwo))
	assert.Equal(t, own, got[0].Board(domain.SeatOne))
}

func TestMostSimilar_BlankBoardsMatchEverything(t *testing.T) {
	table := testTable(t)
	got := NewSelector(table).MostSimilar(domain.SeatOne, domain.NewBoard(), domain.NewBoard())
	assert.Len(t, got, table.Len())
}

func TestBestStates(t *testing.T) {
	winSix := terminal(domain.NewBoard(1, 2, 3, 4), domain.NewBoard(2, 1, 4, 3))
	winSeven := terminal(domain.NewBoard(2, 4, 1, 3), domain.NewBoard(1, 3, 4, 2))
	tie := terminal(domain.NewBoard(1, 2, 3, 4), domain.NewBoard(1, 2, 3, 4))
	loss := terminal(domain.NewBoard(4, 3, 2, 1), domain.NewBoard(1, 2, 3, 4))

	tests := []struct {
		name    string
		similar []domain.TerminalOutcome
		want    []domain.TerminalOutcome
	}{
		{"best winning score", []domain.TerminalOutcome{winSix, tie, winSeven, loss}, []domain.TerminalOutcome{winSeven}},
		{"ties without wins", []domain.TerminalOutcome{loss, tie}, []domain.TerminalOutcome{tie}},
		{"only losses", []domain.TerminalOutcome{loss}, nil},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BestStates(domain.SeatOne, tt.similar))
		})
	}
}

func TestBestStates_SeatTwo(t *testing.T) {
	loss := terminal(domain.NewBoard(4, 3, 2, 1), domain.NewBoard(1, 2, 3, 4))
	got := BestStates(domain.SeatTwo, []domain.TerminalOutcome{loss})
	assert.Equal(t, []domain.TerminalOutcome{loss}, got)
}

func TestCandidateActions(t *testing.T) {
	target := terminal(domain.NewBoard(1, 2, 3, 4), domain.NewBoard(2, 1, 4, 3))

	got := CandidateActions(domain.SeatOne, domain.NewBoard(1, 2, 3, 0), domain.HandFrom(4), []domain.TerminalOutcome{target})
	assert.Equal(t, []domain.Action{act(4, 4)}, got)

	got = CandidateActions(domain.SeatOne, domain.NewBoard(1, 2, 0, 0), domain.HandFrom(3, 4), []domain.TerminalOutcome{target})
	assert.ElementsMatch(t, []domain.Action{act(3, 3), act(4, 4)}, got)
}

func TestCandidateActions_PoolsAcrossTargets(t *testing.T) {
	a := terminal(domain.NewBoard(1, 2, 3, 4), domain.NewBoard(2, 1, 4, 3))
	b := terminal(domain.NewBoard(1, 2, 4, 3), domain.NewBoard(2, 1, 3, 4))

	got := CandidateActions(domain.SeatOne, domain.NewBoard(1, 2, 0, 0), domain.HandFrom(3, 4), []domain.TerminalOutcome{a, b})
	assert.ElementsMatch(t, []domain.Action{act(3, 3), act(4, 4), act(4, 3), act(3, 4)}, got)
}

func TestCandidateActions_NoTargetsOrMoves(t *testing.T) {
	target := terminal(domain.NewBoard(1, 2, 3, 4), domain.NewBoard(2, 1, 4, 3))
	assert.Nil(t, CandidateActions(domain.SeatOne, domain.NewBoard(), domain.FullHand(), nil))
	assert.Nil(t, CandidateActions(domain.SeatOne, domain.NewBoard(1, 2, 3, 4), domain.Hand{}, []domain.TerminalOutcome{target}))
}

func TestSelect_BlankPositionReturnsLegalAction(t *testing.T) {
	s := NewSelector(testTable(t))
	q := Query{Seat: domain.SeatOne, Own: domain.NewBoard(), Hand: domain.FullHand(), Opponent: domain.NewBoard()}

	for i := 0; i < 20; i++ {
		res, ok := s.Select(testRand(), q)
		require.True(t, ok)
		assert.Contains(t, domain.LegalActions(q.Own, q.Hand), res.Action)
	}
}

func TestSelect_CompletesWinningBoard(t *testing.T) {
	s := NewSelector(testTable(t))
	q := Query{
		Seat:     domain.SeatOne,
		Own:      domain.NewBoard(2, 4, 1, 0),
		Hand:     domain.HandFrom(3),
		Opponent: domain.NewBoard(1, 3, 4, 2),
	}
	res, ok := s.Select(testRand(), q)
	require.True(t, ok)
	assert.True(t, res.Informed)
	assert.Equal(t, act(3, 4), res.Action)
}

func TestSelect_NoLegalMove(t *testing.T) {
	s := NewSelector(testTable(t))
	q := Query{Seat: domain.SeatOne, Own: domain.NewBoard(1, 2, 3, 4), Opponent: domain.NewBoard(-1, -1, -1, -1)}
	_, ok := s.Select(testRand(), q)
	assert.False(t, ok)
}

func TestRandomLegal(t *testing.T) {
	rng := testRand()
	own := domain.NewBoard(0, 3, 0, 1)
	hand := domain.HandFrom(2, 4)
	for i := 0; i < 50; i++ {
		a, ok := RandomLegal(rng, own, hand)
		require.True(t, ok)
		assert.True(t, own.Open(a.Perch))
		assert.True(t, hand.Has(a.Card))
	}
	_, ok := RandomLegal(rng, domain.NewBoard(1, 2, 3, 4), domain.Hand{})
	assert.False(t, ok)
}

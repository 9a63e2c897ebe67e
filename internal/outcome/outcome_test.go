package outcome

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cards(v ...int) [domain.NumPerches]domain.Card {
	var out [domain.NumPerches]domain.Card
	for i, x := range v {
		out[i] = domain.Card(x)
	}
	return out
}

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		one    [4]domain.Card
		two    [4]domain.Card
		winner domain.Seat
		scores [2]int
	}{
		{"identical boards tie", cards(1, 2, 3, 4), cards(1, 2, 3, 4), domain.NoSeat, [2]int{0, 0}},
		{"swapped pairs", cards(1, 2, 3, 4), cards(2, 1, 4, 3), domain.SeatOne, [2]int{6, 4}},
		{"seat two takes high perches", cards(4, 3, 2, 1), cards(1, 2, 3, 4), domain.SeatTwo, [2]int{3, 7}},
		{"seat one takes high perches", cards(2, 4, 1, 3), cards(1, 3, 4, 2), domain.SeatOne, [2]int{7, 3}},
		{"shared perch one", cards(1, 3, 4, 2), cards(1, 4, 2, 3), domain.SeatTwo, [2]int{3, 6}},
		{"level totals, perch one to seat two", cards(1, 2, 3, 4), cards(2, 3, 1, 4), domain.SeatTwo, [2]int{3, 3}},
		{"level totals, perch one to seat one", cards(2, 1, 3, 4), cards(1, 2, 4, 3), domain.SeatOne, [2]int{5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.one, tt.two)
			assert.Equal(t, tt.scores, got.Scores)
			assert.Equal(t, tt.winner, got.Winner)
		})
	}
}

func TestScore_OnlyIdenticalBoardsTie(t *testing.T) {
	for _, a := range Permutations() {
		for _, b := range Permutations() {
			p := Score(a, b)
			assert.Equal(t, a == b, p.Winner == domain.NoSeat, "%v vs %v", a, b)
		}
	}
}

func TestScore_SumsToPerchesContested(t *testing.T) {
	for _, a := range Permutations() {
		for _, b := range Permutations() {
			p := Score(a, b)
			level := 0
			for i := range a {
				if a[i] == b[i] {
					level += i + 1
				}
			}
			assert.Equal(t, 10-level, p.Scores[0]+p.Scores[1])
		}
	}
}

func TestPermutations(t *testing.T) {
	perms := Permutations()
	require.Len(t, perms, 24)
	assert.Equal(t, cards(1, 2, 3, 4), perms[0])
	assert.Equal(t, cards(4, 3, 2, 1), perms[23])

	seen := make(map[[4]domain.Card]bool)
	for _, p := range perms {
		assert.False(t, seen[p], "duplicate permutation %v", p)
		seen[p] = true
	}
}

func TestGenerate_MatchesEmbeddedTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Generate()))
	assert.Equal(t, strings.TrimSpace(string(defaultTable)), strings.TrimSpace(buf.String()))
}

func TestDefault(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 300, table.Loaded())
	assert.Equal(t, 600, table.Len())
}

func TestTable_Symmetry(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	type key [2]domain.Board
	byBoards := make(map[key]domain.Payoff)
	for _, e := range table.Entries() {
		byBoards[key(e.Boards)] = e.Payoff
	}

	for _, e := range table.Entries() {
		swapped, ok := byBoards[key{e.Boards[1], e.Boards[0]}]
		require.True(t, ok, "missing mirror for %v", e.Boards)
		assert.Equal(t, e.Payoff.Scores[0], swapped.Scores[1])
		assert.Equal(t, e.Payoff.Scores[1], swapped.Scores[0])
		assert.Equal(t, e.Payoff.Winner.Other(), swapped.Winner)
	}
}

func TestTable_EntriesAgreeWithScore(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)
	for _, e := range table.Entries() {
		assert.Equal(t, ScoreBoards(e.Boards[0], e.Boards[1]), e.Payoff, "entry %s", FormatEntry(e))
	}
}

func TestParseEntry(t *testing.T) {
	e, err := ParseEntry("((1, 2, 3, 4), (2, 1, 4, 3), (1, 6, 4))")
	require.NoError(t, err)
	assert.Equal(t, domain.NewBoard(1, 2, 3, 4), e.Boards[0])
	assert.Equal(t, domain.NewBoard(2, 1, 4, 3), e.Boards[1])
	assert.Equal(t, domain.SeatOne, e.Payoff.Winner)
	assert.Equal(t, [2]int{6, 4}, e.Payoff.Scores)

	_, err = ParseEntry("((1,2,3,4),(1,2,3,4),(0,0,0))")
	assert.NoError(t, err)
}

func TestParseEntry_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"not a tuple", "hello"},
		{"bare integer", "7"},
		{"unclosed", "((1, 2, 3, 4), (2, 1, 4, 3), (1, 6, 4)"},
		{"trailing input", "((1, 2, 3, 4), (2, 1, 4, 3), (1, 6, 4)) x"},
		{"two elements", "((1, 2, 3, 4), (2, 1, 4, 3))"},
		{"short board", "((1, 2, 3), (2, 1, 4, 3), (1, 6, 4))"},
		{"repeated card", "((1, 1, 3, 4), (2, 1, 4, 3), (1, 6, 4))"},
		{"card out of range", "((1, 2, 3, 5), (2, 1, 4, 3), (1, 6, 4))"},
		{"winner out of range", "((1, 2, 3, 4), (2, 1, 4, 3), (3, 6, 4))"},
		{"negative score", "((1, 2, 3, 4), (2, 1, 4, 3), (1, -6, 4))"},
		{"nested board", "(((1), 2, 3, 4), (2, 1, 4, 3), (1, 6, 4))"},
		{"missing separator", "((1 2, 3, 4), (2, 1, 4, 3), (1, 6, 4))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEntry(tt.line)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedEntry), "got %v", err)
		})
	}
}

func TestLoad_RejectsWholeTableOnBadLine(t *testing.T) {
	src := "((1, 2, 3, 4), (1, 2, 3, 4), (0, 0, 0))\n\n((1, 2, 3, 4), oops)\n"
	_, err := Load(strings.NewReader(src))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedEntry)
	assert.Contains(t, err.Error(), "line 3")
}

func TestLoad_Empty(t *testing.T) {
	_, err := Load(strings.NewReader("\n\n"))
	assert.ErrorIs(t, err, ErrMalformedEntry)
}

func TestLoad_SkipsBlankLinesAndMirrors(t *testing.T) {
	src := "\n((1, 2, 3, 4), (2, 1, 4, 3), (1, 6, 4))\n\n"
	table, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	mirror := table.Entries()[1]
	assert.Equal(t, domain.NewBoard(2, 1, 4, 3), mirror.Boards[0])
	assert.Equal(t, domain.SeatTwo, mirror.Payoff.Winner)
	assert.Equal(t, [2]int{4, 6}, mirror.Payoff.Scores)
}

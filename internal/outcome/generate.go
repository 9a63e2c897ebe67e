package outcome

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Harshitk-cp/peckorder/internal/domain"
)

// Permutations returns the 24 orderings of the four cards in lexicographic order.
func Permutations() [][domain.NumPerches]domain.Card {
	var out [][domain.NumPerches]domain.Card
	var walk func(prefix []domain.Card, used domain.Hand)
	walk = func(prefix []domain.Card, used domain.Hand) {
		if len(prefix) == domain.NumPerches {
			var perm [domain.NumPerches]domain.Card
			copy(perm[:], prefix)
			out = append(out, perm)
			return
		}
		for _, c := range domain.Cards() {
			if used.Has(c) {
				continue
			}
			next := used
			next[c-1] = true
			walk(append(prefix, c), next)
		}
	}
	walk(nil, domain.Hand{})
	return out
}

// Generate enumerates every unordered pair of final boards (with repetition)
// and scores it. The seat-swapped half is produced by NewTable.
func Generate() []domain.TerminalOutcome {
	perms := Permutations()
	out := make([]domain.TerminalOutcome, 0, len(perms)*(len(perms)+1)/2)
	for i := range perms {
		for j := i; j < len(perms); j++ {
			out = append(out, domain.TerminalOutcome{
				Boards: [2]domain.Board{domain.BoardOf(perms[i]), domain.BoardOf(perms[j])},
				Payoff: Score(perms[i], perms[j]),
			})
		}
	}
	return out
}

// Write emits entries in the literal triple format read by Parse.
func Write(w io.Writer, entries []domain.TerminalOutcome) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintln(bw, FormatEntry(e)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func FormatEntry(e domain.TerminalOutcome) string {
	a, b := e.Boards[0].Cards(), e.Boards[1].Cards()
	return fmt.Sprintf("((%d, %d, %d, %d), (%d, %d, %d, %d), (%d, %d, %d))",
		a[0], a[1], a[2], a[3],
		b[0], b[1], b[2], b[3],
		e.Payoff.Winner, e.Payoff.Scores[0], e.Payoff.Scores[1])
}

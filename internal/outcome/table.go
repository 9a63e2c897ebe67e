// Package outcome holds the table of every terminal board pair and its payoff.
package outcome

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Harshitk-cp/peckorder/internal/domain"
)

//go:embed state_pair_payoffs.txt
var defaultTable []byte

var ErrMalformedEntry = errors.New("malformed outcome table entry")

// Table is the read-only outcome oracle. It holds every loaded entry followed
// by its seat-swapped mirror, so a single table serves either seat. A Table is
// never mutated after construction and may be shared between agents.
type Table struct {
	entries []domain.TerminalOutcome
	loaded  int
}

// NewTable builds a table from loaded entries and their mirrors.
func NewTable(loaded []domain.TerminalOutcome) *Table {
	entries := make([]domain.TerminalOutcome, 0, 2*len(loaded))
	entries = append(entries, loaded...)
	for _, e := range loaded {
		entries = append(entries, e.Mirror())
	}
	return &Table{entries: entries, loaded: len(loaded)}
}

// Load parses a table resource. Any malformed line fails the whole load.
func Load(r io.Reader) (*Table, error) {
	loaded, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return NewTable(loaded), nil
}

func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open outcome table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default loads the table compiled into the binary.
func Default() (*Table, error) {
	return Load(bytes.NewReader(defaultTable))
}

// Entries returns the loaded entries followed by their mirrors. Callers must
// not modify the returned slice.
func (t *Table) Entries() []domain.TerminalOutcome {
	return t.entries
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Loaded is the number of entries read from the resource.
func (t *Table) Loaded() int {
	return t.loaded
}

// Parse reads one literal triple per line:
//
//	((1, 2, 3, 4), (2, 1, 4, 3), (1, 6, 4))
//
// Blank lines are skipped.
func Parse(r io.Reader) ([]domain.TerminalOutcome, error) {
	var out []domain.TerminalOutcome
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		entry, err := ParseEntry(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read outcome table: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: table is empty", ErrMalformedEntry)
	}
	return out, nil
}

// ParseEntry parses a single (seatOneBoard, seatTwoBoard, (winner, scoreOne, scoreTwo)) triple.
func ParseEntry(s string) (domain.TerminalOutcome, error) {
	var entry domain.TerminalOutcome

	p := &tupleParser{src: s}
	root, err := p.parse()
	if err != nil {
		return entry, fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}
	if len(root.items) != 3 {
		return entry, fmt.Errorf("%w: want 3 elements, got %d", ErrMalformedEntry, len(root.items))
	}

	for i := 0; i < 2; i++ {
		cards, err := root.items[i].ints(domain.NumPerches)
		if err != nil {
			return entry, fmt.Errorf("%w: board %d: %v", ErrMalformedEntry, i+1, err)
		}
		board, err := permutationBoard(cards)
		if err != nil {
			return entry, fmt.Errorf("%w: board %d: %v", ErrMalformedEntry, i+1, err)
		}
		entry.Boards[i] = board
	}

	payoff, err := root.items[2].ints(3)
	if err != nil {
		return entry, fmt.Errorf("%w: payoff: %v", ErrMalformedEntry, err)
	}
	winner := domain.Seat(payoff[0])
	if winner != domain.NoSeat && !winner.Valid() {
		return entry, fmt.Errorf("%w: winner seat %d", ErrMalformedEntry, payoff[0])
	}
	const maxScore = 1 + 2 + 3 + 4
	for _, score := range payoff[1:] {
		if score < 0 || score > maxScore {
			return entry, fmt.Errorf("%w: score %d", ErrMalformedEntry, score)
		}
	}
	entry.Payoff = domain.Payoff{Winner: winner, Scores: [2]int{payoff[1], payoff[2]}}
	return entry, nil
}

func permutationBoard(values []int) (domain.Board, error) {
	var cards [domain.NumPerches]domain.Card
	var seen domain.Hand
	for i, v := range values {
		c := domain.Card(v)
		if !c.Valid() {
			return domain.Board{}, fmt.Errorf("card %d out of range", v)
		}
		if seen.Has(c) {
			return domain.Board{}, fmt.Errorf("card %d repeated", v)
		}
		seen[c-1] = true
		cards[i] = c
	}
	return domain.BoardOf(cards), nil
}

// tuple is a parsed parenthesised literal: either an integer or a list.
type tuple struct {
	isInt bool
	value int
	items []tuple
}

func (t tuple) ints(n int) ([]int, error) {
	if t.isInt {
		return nil, fmt.Errorf("want tuple, got %d", t.value)
	}
	if len(t.items) != n {
		return nil, fmt.Errorf("want %d elements, got %d", n, len(t.items))
	}
	out := make([]int, n)
	for i, item := range t.items {
		if !item.isInt {
			return nil, fmt.Errorf("element %d is not an integer", i+1)
		}
		out[i] = item.value
	}
	return out, nil
}

type tupleParser struct {
	src string
	pos int
}

func (p *tupleParser) parse() (tuple, error) {
	t, err := p.value()
	if err != nil {
		return t, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return t, fmt.Errorf("trailing input at offset %d", p.pos)
	}
	if t.isInt {
		return t, fmt.Errorf("want tuple, got integer")
	}
	return t, nil
}

func (p *tupleParser) value() (tuple, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return tuple{}, errors.New("unexpected end of input")
	}
	if p.src[p.pos] == '(' {
		return p.list()
	}
	return p.integer()
}

func (p *tupleParser) list() (tuple, error) {
	p.pos++ // (
	var t tuple
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return t, errors.New("unclosed tuple")
		}
		if p.src[p.pos] == ')' {
			p.pos++
			return t, nil
		}
		item, err := p.value()
		if err != nil {
			return t, err
		}
		t.items = append(t.items, item)

		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.pos < len(p.src) && p.src[p.pos] == ')' {
			continue
		}
		return t, fmt.Errorf("expected ',' or ')' at offset %d", p.pos)
	}
}

func (p *tupleParser) integer() (tuple, error) {
	start := p.pos
	if p.pos < len(p.src) && p.src[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	v, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return tuple{}, fmt.Errorf("invalid integer at offset %d", start)
	}
	return tuple{isInt: true, value: v}, nil
}

func (p *tupleParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

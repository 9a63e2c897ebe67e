package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	NumCards   = 4
	NumPerches = 4
)

// Card is a card identity in 1..4. Its strength is its numeric value.
type Card int

// NoCard marks the absence of a card.
const NoCard Card = 0

func (c Card) Valid() bool {
	return c >= 1 && c <= NumCards
}

// Perch is a positional slot in 1..4. Its point value equals its index.
type Perch int

func (p Perch) Valid() bool {
	return p >= 1 && p <= NumPerches
}

func (p Perch) Points() int {
	return int(p)
}

// Perches lists every perch in ascending order.
func Perches() []Perch {
	return []Perch{1, 2, 3, 4}
}

// Cards lists every card in ascending order.
func Cards() []Card {
	return []Card{1, 2, 3, 4}
}

type CellState int

const (
	Empty CellState = iota
	FaceDown
	FaceUp
)

func (s CellState) String() string {
	switch s {
	case FaceDown:
		return "face_down"
	case FaceUp:
		return "face_up"
	default:
		return "empty"
	}
}

// Cell is the state of a single perch. Card is only set when State is FaceUp,
// so two cells compare equal exactly when an observer could not tell them apart.
type Cell struct {
	State CellState
	Card  Card
}

func EmptyCell() Cell {
	return Cell{}
}

func FaceDownCell() Cell {
	return Cell{State: FaceDown}
}

func FaceUpCell(c Card) Cell {
	return Cell{State: FaceUp, Card: c}
}

// Known reports whether the cell shows a card.
func (c Cell) Known() bool {
	return c.State == FaceUp
}

// Occupied reports whether a card has been placed, visible or not.
func (c Cell) Occupied() bool {
	return c.State != Empty
}

func (c Cell) String() string {
	switch c.State {
	case FaceDown:
		return "?"
	case FaceUp:
		return fmt.Sprintf("%d", c.Card)
	default:
		return "_"
	}
}

// MarshalJSON encodes a cell as 0 (empty), -1 (face-down) or the card value.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.State {
	case FaceDown:
		return []byte("-1"), nil
	case FaceUp:
		return json.Marshal(int(c.Card))
	default:
		return []byte("0"), nil
	}
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch {
	case v == 0:
		*c = EmptyCell()
	case v == -1:
		*c = FaceDownCell()
	case Card(v).Valid():
		*c = FaceUpCell(Card(v))
	default:
		return fmt.Errorf("invalid cell value %d", v)
	}
	return nil
}

// Board is one player's side of the table: exactly four perches, indexed 1..4.
type Board [NumPerches]Cell

// NewBoard builds a board from card values: 0 leaves a perch empty, -1 marks it
// face-down and 1..4 places that card face-up.
func NewBoard(values ...int) Board {
	var b Board
	for i, v := range values {
		if i >= NumPerches {
			break
		}
		switch {
		case v == -1:
			b[i] = FaceDownCell()
		case Card(v).Valid():
			b[i] = FaceUpCell(Card(v))
		}
	}
	return b
}

// BoardOf builds a fully revealed board.
func BoardOf(cards [NumPerches]Card) Board {
	var b Board
	for i, c := range cards {
		if c.Valid() {
			b[i] = FaceUpCell(c)
		}
	}
	return b
}

func (b Board) At(p Perch) Cell {
	return b[p-1]
}

func (b *Board) Set(p Perch, c Cell) {
	b[p-1] = c
}

// Open reports whether nothing has been placed on p.
func (b Board) Open(p Perch) bool {
	return p.Valid() && b[p-1].State == Empty
}

func (b Board) OpenPerches() []Perch {
	var open []Perch
	for _, p := range Perches() {
		if b.Open(p) {
			open = append(open, p)
		}
	}
	return open
}

// Full reports whether every perch is occupied.
func (b Board) Full() bool {
	for _, c := range b {
		if !c.Occupied() {
			return false
		}
	}
	return true
}

// Blank reports whether no perch is occupied.
func (b Board) Blank() bool {
	for _, c := range b {
		if c.Occupied() {
			return false
		}
	}
	return true
}

// Contains reports whether card is visibly placed on any perch.
func (b Board) Contains(card Card) bool {
	for _, c := range b {
		if c.Known() && c.Card == card {
			return true
		}
	}
	return false
}

// Place returns a copy of b with the action's card face-up on its perch.
func (b Board) Place(a Action) Board {
	b[a.Perch-1] = FaceUpCell(a.Card)
	return b
}

// Cards returns the visible card on each perch, NoCard elsewhere.
func (b Board) Cards() [NumPerches]Card {
	var out [NumPerches]Card
	for i, c := range b {
		if c.Known() {
			out[i] = c.Card
		}
	}
	return out
}

func (b Board) String() string {
	parts := make([]string, NumPerches)
	for i, c := range b {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Visible computes what the owner of observer can see of target. A perch shows
// its card only once both sides have played on it; a perch filled by target
// alone is face-down.
func Visible(observer, target Board) Board {
	var out Board
	for i := range target {
		switch {
		case !target[i].Occupied():
			out[i] = EmptyCell()
		case observer[i].Occupied():
			out[i] = target[i]
		default:
			out[i] = FaceDownCell()
		}
	}
	return out
}

// Hand is the set of cards a player still holds.
type Hand [NumCards]bool

func FullHand() Hand {
	return Hand{true, true, true, true}
}

// HandFrom builds a hand from the listed cards, ignoring invalid values.
func HandFrom(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		if c.Valid() {
			h[c-1] = true
		}
	}
	return h
}

// UnplayedOn returns the hand of a player whose visible cards on b are spent.
// Face-down cards are unknown to the observer, so they stay in the hand.
func UnplayedOn(b Board) Hand {
	h := FullHand()
	for _, c := range b {
		if c.Known() {
			h[c.Card-1] = false
		}
	}
	return h
}

func (h Hand) Has(c Card) bool {
	return c.Valid() && h[c-1]
}

func (h *Hand) Remove(c Card) {
	if c.Valid() {
		h[c-1] = false
	}
}

func (h Hand) Cards() []Card {
	var out []Card
	for _, c := range Cards() {
		if h.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (h Hand) Empty() bool {
	return len(h.Cards()) == 0
}

func (h Hand) MarshalJSON() ([]byte, error) {
	cards := h.Cards()
	if cards == nil {
		cards = []Card{}
	}
	return json.Marshal(cards)
}

func (h *Hand) UnmarshalJSON(data []byte) error {
	var cards []Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return err
	}
	*h = Hand{}
	for _, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("invalid card %d in hand", c)
		}
		h[c-1] = true
	}
	return nil
}

// Action places Card on Perch.
type Action struct {
	Card  Card  `json:"card"`
	Perch Perch `json:"perch"`
}

func (a Action) Valid() bool {
	return a.Card.Valid() && a.Perch.Valid()
}

func (a Action) String() string {
	return fmt.Sprintf("(card %d, perch %d)", a.Card, a.Perch)
}

// AllActions lists the 16 (card, perch) pairs, card-major.
func AllActions() []Action {
	out := make([]Action, 0, NumCards*NumPerches)
	for _, c := range Cards() {
		for _, p := range Perches() {
			out = append(out, Action{Card: c, Perch: p})
		}
	}
	return out
}

// LegalActions lists every pair whose card is held and whose perch is open.
func LegalActions(b Board, h Hand) []Action {
	var out []Action
	for _, a := range AllActions() {
		if h.Has(a.Card) && b.Open(a.Perch) {
			out = append(out, a)
		}
	}
	return out
}

// Seat identifies a player. NoSeat doubles as the "tie" winner.
type Seat int

const (
	NoSeat  Seat = 0
	SeatOne Seat = 1
	SeatTwo Seat = 2
)

func (s Seat) Valid() bool {
	return s == SeatOne || s == SeatTwo
}

// Other returns the opposing seat; NoSeat maps to itself.
func (s Seat) Other() Seat {
	switch s {
	case SeatOne:
		return SeatTwo
	case SeatTwo:
		return SeatOne
	default:
		return NoSeat
	}
}

// View is what a player knows when it is asked to act.
type View struct {
	Seat     Seat  `json:"seat"`
	Own      Board `json:"own"`
	Hand     Hand  `json:"hand"`
	Opponent Board `json:"opponent"`
}

func distinctCards(b Board) bool {
	var seen Hand
	for _, c := range b {
		if !c.Known() {
			continue
		}
		if seen.Has(c.Card) {
			return false
		}
		seen[c.Card-1] = true
	}
	return true
}

// Validate checks that v describes a reachable position: the player's own
// board is fully visible to it, no card appears twice on a side and the hand
// holds nothing already played.
func (v View) Validate() error {
	if !v.Seat.Valid() {
		return ErrInvalidSeat
	}
	for _, c := range v.Own {
		if c.State == FaceDown {
			return fmt.Errorf("%w: own board has a face-down perch", ErrInvalidPosition)
		}
	}
	if !distinctCards(v.Own) || !distinctCards(v.Opponent) {
		return fmt.Errorf("%w: card placed twice", ErrInvalidPosition)
	}
	for _, c := range v.Hand.Cards() {
		if v.Own.Contains(c) {
			return fmt.Errorf("%w: card %d is both in hand and on the board", ErrInvalidPosition, c)
		}
	}
	return nil
}

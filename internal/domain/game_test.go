package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestVisible(t *testing.T) {
	tests := []struct {
		name     string
		observer Board
		target   Board
		want     Board
	}{
		{"nothing played", NewBoard(), NewBoard(), NewBoard()},
		{"both played", NewBoard(1, 0, 0, 0), NewBoard(3, 0, 0, 0), NewBoard(3, 0, 0, 0)},
		{"only target played", NewBoard(), NewBoard(0, 2, 0, 0), NewBoard(0, -1, 0, 0)},
		{"only observer played", NewBoard(0, 0, 4, 0), NewBoard(), NewBoard()},
		{"mixed", NewBoard(1, 2, 0, 0), NewBoard(4, 0, 3, 2), NewBoard(4, 0, -1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Visible(tt.observer, tt.target)
			if got != tt.want {
				t.Errorf("Visible(%v, %v) = %v, want %v", tt.observer, tt.target, got, tt.want)
			}
		})
	}
}

func TestLegalActions(t *testing.T) {
	board := NewBoard(2, 0, 0, 4)
	hand := HandFrom(1, 3)

	got := LegalActions(board, hand)
	want := []Action{{1, 2}, {1, 3}, {3, 2}, {3, 3}}
	if len(got) != len(want) {
		t.Fatalf("expected %d actions, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("action %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestUnplayedOn(t *testing.T) {
	h := UnplayedOn(NewBoard(3, -1, 0, 1))
	if h.Has(3) || h.Has(1) {
		t.Error("visible cards should not be in hand")
	}
	if !h.Has(2) || !h.Has(4) {
		t.Error("unseen cards should stay in hand")
	}
}

func TestBoardJSON(t *testing.T) {
	b := NewBoard(0, -1, 3, 0)
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[0,-1,3,0]" {
		t.Fatalf("unexpected encoding %s", data)
	}

	var decoded Board
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != b {
		t.Errorf("decoded %v, want %v", decoded, b)
	}

	if err := json.Unmarshal([]byte("[0,7,0,0]"), &decoded); err == nil {
		t.Error("expected error for out-of-range card")
	}
}

func TestSeatOther(t *testing.T) {
	if SeatOne.Other() != SeatTwo || SeatTwo.Other() != SeatOne || NoSeat.Other() != NoSeat {
		t.Error("seat mirroring is wrong")
	}
}

func TestPayoffMirror(t *testing.T) {
	p := Payoff{Winner: SeatOne, Scores: [2]int{6, 4}}
	m := p.Mirror()
	if m.Winner != SeatTwo || m.Score(SeatTwo) != 6 || m.Score(SeatOne) != 4 {
		t.Errorf("unexpected mirror %+v", m)
	}
	if m.Mirror() != p {
		t.Error("mirror should be an involution")
	}
}

func TestViewValidate(t *testing.T) {
	tests := []struct {
		name string
		view View
		want error
	}{
		{"opening", View{Seat: SeatOne, Own: NewBoard(), Hand: FullHand(), Opponent: NewBoard()}, nil},
		{"midgame", View{Seat: SeatTwo, Own: NewBoard(2, 0, 0, 0), Hand: HandFrom(1, 3, 4), Opponent: NewBoard(3, -1, 0, 0)}, nil},
		{"bad seat", View{Seat: NoSeat}, ErrInvalidSeat},
		{"own face-down", View{Seat: SeatOne, Own: NewBoard(-1, 0, 0, 0)}, ErrInvalidPosition},
		{"own duplicate", View{Seat: SeatOne, Own: NewBoard(2, 2, 0, 0)}, ErrInvalidPosition},
		{"opponent duplicate", View{Seat: SeatOne, Own: NewBoard(), Opponent: NewBoard(0, 4, 4, 0)}, ErrInvalidPosition},
		{"hand overlaps board", View{Seat: SeatOne, Own: NewBoard(1, 0, 0, 0), Hand: HandFrom(1, 2)}, ErrInvalidPosition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.view.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

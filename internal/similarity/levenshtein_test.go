package similarity

import (
	"testing"

	"github.com/Harshitk-cp/peckorder/internal/domain"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "ab", 2},
		{"kitten", "sitting", 3},
		{"1234", "1234", 0},
		{"1234", "2143", 3},
		{"1234", "2341", 2},
		{"1234", "1243", 2},
		{"1234", "234", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			if got := Distance([]rune(tt.a), []rune(tt.b)); got != tt.want {
				t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestBoards_Identity(t *testing.T) {
	boards := []domain.Board{
		domain.NewBoard(1, 2, 3, 4),
		domain.NewBoard(),
		domain.NewBoard(0, -1, 3, 0),
		domain.NewBoard(-1, -1, -1, -1),
	}
	for _, b := range boards {
		if got := Boards(b, b); got != domain.NumPerches {
			t.Errorf("Boards(%v, %v) = %d, want 4", b, b, got)
		}
	}
}

func TestBoards_PositionalDifferences(t *testing.T) {
	full := domain.NewBoard(1, 2, 3, 4)
	tests := []struct {
		name  string
		other domain.Board
		want  int
	}{
		{"one empty", domain.NewBoard(1, 2, 3, 0), 3},
		{"one unknown", domain.NewBoard(1, -1, 3, 4), 3},
		{"two differ", domain.NewBoard(1, 2, 0, -1), 2},
		{"all empty", domain.NewBoard(), 0},
		{"three unknown", domain.NewBoard(-1, -1, -1, 4), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Boards(full, tt.other); got != tt.want {
				t.Errorf("Boards(%v, %v) = %d, want %d", full, tt.other, got, tt.want)
			}
		})
	}
}

func TestSimilarity_VariableLength(t *testing.T) {
	if got := Similarity([]int{1, 2, 3, 4}, []int{1, 2, 3}); got != 3 {
		t.Errorf("Similarity = %d, want 3", got)
	}
}

func TestBoards_ShiftedSequenceScoresAboveHamming(t *testing.T) {
	// A rotation differs in every position but is two edits away.
	got := Boards(domain.NewBoard(1, 2, 3, 4), domain.NewBoard(2, 3, 4, 1))
	if got != 2 {
		t.Errorf("Boards = %d, want 2", got)
	}
}

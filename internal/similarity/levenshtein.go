// Package similarity scores how close two short sequences are.
package similarity

import "github.com/Harshitk-cp/peckorder/internal/domain"

// Distance is the Levenshtein edit distance between a and b with unit cost
// for substitution, insertion and deletion.
func Distance[T comparable](a, b []T) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// Similarity is the length of the longer sequence minus the edit distance.
// Identical sequences score their length.
func Similarity[T comparable](a, b []T) int {
	return max(len(a), len(b)) - Distance(a, b)
}

// Boards scores two boards perch by perch. Empty and face-down cells only
// match cells in the same state, so unknown positions never count as a match
// against a revealed card.
func Boards(a, b domain.Board) int {
	return Similarity(a[:], b[:])
}

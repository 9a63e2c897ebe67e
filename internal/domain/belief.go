package domain

import "fmt"

// Order selects which belief a computation runs over.
type Order int

const (
	// ZeroOrder is the belief about the opponent's own card-to-perch mapping.
	ZeroOrder Order = iota
	// FirstOrder is the belief about what the opponent believes of our mapping.
	FirstOrder
	// Integrated is the confidence-weighted fusion of the two.
	Integrated
)

func (o Order) String() string {
	switch o {
	case ZeroOrder:
		return "zero_order"
	case FirstOrder:
		return "first_order"
	case Integrated:
		return "integrated"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

func ParseOrder(s string) (Order, error) {
	switch s {
	case "zero_order":
		return ZeroOrder, nil
	case "first_order":
		return FirstOrder, nil
	case "integrated":
		return Integrated, nil
	default:
		return 0, fmt.Errorf("unknown belief order %q", s)
	}
}

func (o Order) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Order) UnmarshalText(text []byte) error {
	parsed, err := ParseOrder(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// BeliefSize is the number of (card, perch) pairs a distribution covers.
const BeliefSize = NumCards * NumPerches

// BeliefDistribution maps every (card, perch) pair to a probability.
// Entries falsified by revealed information are exactly zero.
type BeliefDistribution [NumCards][NumPerches]float64

func (d BeliefDistribution) At(a Action) float64 {
	if !a.Valid() {
		return 0
	}
	return d[a.Card-1][a.Perch-1]
}

func (d *BeliefDistribution) Set(a Action, v float64) {
	if a.Valid() {
		d[a.Card-1][a.Perch-1] = v
	}
}

func (d BeliefDistribution) Total() float64 {
	var total float64
	for _, row := range d {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// Normalize rescales the entries to sum to one. A distribution with no mass
// left is kept as-is and false is returned.
func (d *BeliefDistribution) Normalize() bool {
	total := d.Total()
	if total <= 0 {
		return false
	}
	for c := range d {
		for p := range d[c] {
			d[c][p] /= total
		}
	}
	return true
}

// Vector flattens the distribution card-major, for storage.
func (d BeliefDistribution) Vector() []float32 {
	out := make([]float32, 0, BeliefSize)
	for _, row := range d {
		for _, v := range row {
			out = append(out, float32(v))
		}
	}
	return out
}

// DistributionFromVector is the inverse of Vector.
func DistributionFromVector(v []float32) (BeliefDistribution, error) {
	var d BeliefDistribution
	if len(v) != BeliefSize {
		return d, fmt.Errorf("belief vector has %d entries, want %d", len(v), BeliefSize)
	}
	for i, x := range v {
		d[i/NumPerches][i%NumPerches] = float64(x)
	}
	return d, nil
}

// BeliefEntry is one (card, perch) probability, used for JSON output.
type BeliefEntry struct {
	Card        Card    `json:"card"`
	Perch       Perch   `json:"perch"`
	Probability float64 `json:"probability"`
}

func (d BeliefDistribution) Entries() []BeliefEntry {
	out := make([]BeliefEntry, 0, BeliefSize)
	for _, a := range AllActions() {
		out = append(out, BeliefEntry{Card: a.Card, Perch: a.Perch, Probability: d.At(a)})
	}
	return out
}

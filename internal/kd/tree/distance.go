package tree

import "math"

// Distance returns the Euclidean distance between the features of row and
// query, where query[c-1] pairs with column c.
//
// The search prunes on a single coordinate difference, so this must stay a
// true distance, not its square.
func Distance(t Table, row int, query []float64) float64 {
	if d, ok := t.(squaredDistancer); ok {
		return math.Sqrt(d.Dist2(row, query))
	}
	var sum float64
	for c := FirstAxis; c < t.NumCols(); c++ {
		d := t.Get(row, c) - query[c-1]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Compare orders query against row on column col: 0 when equal, -1 when the
// query value is smaller, 1 when it is larger.
func Compare(t Table, row int, query []float64, col int) int {
	q := query[col-1]
	v := t.Get(row, col)
	switch {
	case q == v:
		return 0
	case q < v:
		return -1
	default:
		return 1
	}
}

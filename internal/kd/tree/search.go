package tree

import "math"

// NotFound is returned by Nearest for an empty tree.
const NotFound = -1

// Neighbor is the best row found by a search.
type Neighbor struct {
	Row      int
	Distance float64
}

// Found reports whether the search matched a row.
func (n Neighbor) Found() bool { return n.Row != NotFound }

// Nearest returns the row of a built tree closest to query, or NotFound when
// the tree is empty. See NearestNeighbor.
func Nearest(t Table, query []float64) int {
	return NearestNeighbor(t, query).Row
}

// NearestNeighbor descends the tree one axis per level, testing the median
// row of each range and following the side of the split the query falls on.
// Both sides are visited when the query sits exactly on the split value. Once
// the axes run out the remaining range is scanned.
//
// Only the sign of the per-axis comparison is used to prune; there is no
// hypersphere test against the other side of a split. With three or more
// features the result is therefore approximate: the true nearest row may sit
// across a split the query did not follow.
func NearestNeighbor(t Table, query []float64) Neighbor {
	best := Neighbor{Row: NotFound, Distance: math.Inf(1)}
	if t.NumRows() == 0 {
		return best
	}
	search(t, query, 0, t.NumRows()-1, FirstAxis, &best)
	return best
}

func search(t Table, query []float64, rowStart, rowEnd, axis int, best *Neighbor) {
	if rowStart > rowEnd {
		return
	}
	if axis >= t.NumCols()-1 {
		for r := rowStart; r <= rowEnd; r++ {
			best.consider(r, Distance(t, r, query))
		}
		return
	}

	split := (rowStart + rowEnd) / 2
	best.consider(split, Distance(t, split, query))

	cmp := Compare(t, split, query, axis)
	if cmp >= 0 {
		search(t, query, split+1, rowEnd, axis+1, best)
	}
	if cmp <= 0 {
		search(t, query, rowStart, split-1, axis+1, best)
	}
}

func (n *Neighbor) consider(row int, dist float64) {
	if dist < n.Distance {
		n.Distance = dist
		n.Row = row
	}
}

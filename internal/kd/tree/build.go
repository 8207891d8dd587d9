package tree

// FirstAxis is the first feature column; column 0 is the label.
const FirstAxis = 1

// Build partitions rows rowStart..rowEnd (inclusive) of t into an implicit
// k-d tree. The range is sorted on axis and its median row becomes the node;
// both halves are then built on the next axis. An axis past the last column
// wraps to FirstAxis.
//
// Halves holding a single row are left as is.
func Build(t Table, rowStart, rowEnd, axis int) {
	if axis >= t.NumCols() {
		axis = FirstAxis
	}
	t.SortRows(axis, rowStart, rowEnd)

	split := (rowStart + rowEnd) / 2
	if (split-1)-rowStart > 0 {
		Build(t, rowStart, split-1, axis+1)
	}
	if rowEnd-(split+1) > 0 {
		Build(t, split+1, rowEnd, axis+1)
	}
}

// BuildAll builds the whole table starting at FirstAxis.
func BuildAll(t Table) {
	if t.NumRows() == 0 || t.NumCols() <= FirstAxis {
		return
	}
	Build(t, 0, t.NumRows()-1, FirstAxis)
}

package tree

// Table is the in-memory row store the tree is built over. Column 0 holds an
// opaque label code; columns 1..NumCols()-1 are the coordinates.
//
// Build reorders rows in place through SortRows; the row order afterwards is
// the tree.
type Table interface {
	NumRows() int
	NumCols() int
	Get(row, col int) float64
	// SortRows sorts rows rowStart..rowEnd (inclusive) ascending by col.
	SortRows(col, rowStart, rowEnd int)
}

// squaredDistancer is implemented by tables that can compute the squared
// distance between a row's features and a query vector natively.
type squaredDistancer interface {
	Dist2(row int, query []float64) float64
}

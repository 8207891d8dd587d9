package matrix

import (
	"fmt"
	"sort"

	"github.com/viant/sqlite-kdtree/internal/kd/tree"
)

// LabelCol is the column holding a row's label code.
const LabelCol = 0

// Matrix is a dense row-major table of float64 values. In a labeled matrix
// column 0 holds the label code and the remaining columns are features.
type Matrix struct {
	rows [][]float64
	cols int
}

var _ tree.Table = (*Matrix)(nil)

// New allocates a zeroed rows x cols matrix.
func New(rows, cols int) *Matrix {
	m := &Matrix{rows: make([][]float64, rows), cols: cols}
	for i := range m.rows {
		m.rows[i] = make([]float64, cols)
	}
	return m
}

// FromRows copies data into a new matrix. All rows must have the same width.
func FromRows(data [][]float64) (*Matrix, error) {
	m := &Matrix{rows: make([][]float64, len(data))}
	if len(data) > 0 {
		m.cols = len(data[0])
	}
	for i, row := range data {
		if len(row) != m.cols {
			return nil, fmt.Errorf("matrix: row %d has %d columns, want %d", i, len(row), m.cols)
		}
		m.rows[i] = append([]float64(nil), row...)
	}
	return m, nil
}

// NumRows returns the number of rows.
func (m *Matrix) NumRows() int { return len(m.rows) }

// NumCols returns the number of columns, label column included.
func (m *Matrix) NumCols() int { return m.cols }

// Get returns the value at row, col.
func (m *Matrix) Get(row, col int) float64 { return m.rows[row][col] }

// Set stores v at row, col.
func (m *Matrix) Set(row, col int, v float64) { m.rows[row][col] = v }

// Row returns a copy of a full row, label included.
func (m *Matrix) Row(row int) []float64 { return append([]float64(nil), m.rows[row]...) }

// Features returns a copy of a row without its label column.
func (m *Matrix) Features(row int) []float64 {
	return append([]float64(nil), m.rows[row][LabelCol+1:]...)
}

// Label returns the label code of row.
func (m *Matrix) Label(row int) float64 { return m.rows[row][LabelCol] }

// SortRows stably sorts rows rowStart..rowEnd (inclusive) ascending by col.
func (m *Matrix) SortRows(col, rowStart, rowEnd int) {
	if rowStart < 0 {
		rowStart = 0
	}
	if rowEnd >= len(m.rows) {
		rowEnd = len(m.rows) - 1
	}
	if rowStart >= rowEnd {
		return
	}
	sub := m.rows[rowStart : rowEnd+1]
	sort.SliceStable(sub, func(i, j int) bool { return sub[i][col] < sub[j][col] })
}

// Dist2 returns the squared distance between the features of row and vec,
// where vec[c-1] pairs with column c.
func (m *Matrix) Dist2(row int, vec []float64) float64 {
	r := m.rows[row]
	var sum float64
	for c := LabelCol + 1; c < m.cols; c++ {
		d := r[c] - vec[c-1]
		sum += d * d
	}
	return sum
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{rows: make([][]float64, len(m.rows)), cols: m.cols}
	for i, row := range m.rows {
		out.rows[i] = append([]float64(nil), row...)
	}
	return out
}

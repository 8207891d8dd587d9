package tree

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

// rows is a minimal Table used to test the algorithms in isolation.
type rows [][]float64

func (r rows) NumRows() int { return len(r) }
func (r rows) NumCols() int {
	if len(r) == 0 {
		return 0
	}
	return len(r[0])
}
func (r rows) Get(row, col int) float64 { return r[row][col] }
func (r rows) SortRows(col, rowStart, rowEnd int) {
	if rowStart >= rowEnd {
		return
	}
	sub := r[rowStart : rowEnd+1]
	sort.SliceStable(sub, func(i, j int) bool { return sub[i][col] < sub[j][col] })
}

func (r rows) clone() rows {
	out := make(rows, len(r))
	for i := range r {
		out[i] = append([]float64(nil), r[i]...)
	}
	return out
}

// randomRows returns n rows with cols columns; column 0 holds the original
// row number so permutations can be checked.
func randomRows(rng *rand.Rand, n, cols int) rows {
	out := make(rows, n)
	for i := range out {
		out[i] = make([]float64, cols)
		out[i][0] = float64(i)
		for c := 1; c < cols; c++ {
			out[i][c] = rng.Float64() * 100
		}
	}
	return out
}

func TestBuild_IsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{0, 1, 2, 3, 5, 17, 64} {
		tbl := randomRows(rng, n, 4)
		orig := tbl.clone()
		BuildAll(tbl)

		seen := make(map[int]bool, n)
		for _, row := range tbl {
			id := int(row[0])
			if seen[id] {
				t.Fatalf("n=%d: row %d present twice after build", n, id)
			}
			seen[id] = true
			if !reflect.DeepEqual(row, orig[id]) {
				t.Fatalf("n=%d: row %d changed contents: %v vs %v", n, id, row, orig[id])
			}
		}
		if len(seen) != n {
			t.Fatalf("n=%d: %d distinct rows after build", n, len(seen))
		}
	}
}

func TestBuild_FixedPoint(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tbl := randomRows(rng, 40, 4)
	BuildAll(tbl)
	once := tbl.clone()

	BuildAll(tbl)
	if !reflect.DeepEqual(once, tbl) {
		t.Fatalf("rebuilding a built tree reordered rows")
	}
}

func TestBuild_SplitPartitionsFirstAxis(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	tbl := randomRows(rng, 31, 3)
	BuildAll(tbl)

	split := (0 + len(tbl) - 1) / 2
	pivot := tbl[split][1]
	for r := 0; r < split; r++ {
		if tbl[r][1] > pivot {
			t.Fatalf("row %d left of split has x=%v > %v", r, tbl[r][1], pivot)
		}
	}
	for r := split + 1; r < len(tbl); r++ {
		if tbl[r][1] < pivot {
			t.Fatalf("row %d right of split has x=%v < %v", r, tbl[r][1], pivot)
		}
	}
}

func TestBuild_AxisWraps(t *testing.T) {
	tbl := rows{
		{0, 3, 1},
		{1, 1, 3},
		{2, 2, 2},
	}
	Build(tbl, 0, 2, 9)
	for i, want := range []float64{1, 2, 3} {
		if tbl[i][1] != want {
			t.Fatalf("row %d x = %v, want %v (axis must wrap to column 1)", i, tbl[i][1], want)
		}
	}
}

func TestBuild_TwoRowHalfIsSorted(t *testing.T) {
	// With 4 rows the split is row 1: the single-row left half is left alone
	// while the two-row right half is re-sorted on y.
	tbl := rows{
		{0, 1, 9},
		{1, 2, 8},
		{2, 3, 7},
		{3, 4, 6},
	}
	BuildAll(tbl)
	for i, want := range []float64{0, 1, 3, 2} {
		if tbl[i][0] != want {
			t.Fatalf("row %d label = %v, want %v", i, tbl[i][0], want)
		}
	}
}

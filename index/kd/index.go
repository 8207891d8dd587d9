package kd

import (
	"fmt"
	"sync"

	"github.com/viant/sqlite-kdtree/index"
	"github.com/viant/sqlite-kdtree/internal/kd/tree"
	"github.com/viant/sqlite-kdtree/matrix"
)

// Index implements index.Index over an implicit k-d tree. Label strings are
// coded into column 0 of the tree matrix through a matrix.Labels table.
//
// Queries follow the tree's one-axis-per-level descent and are approximate
// once vectors have three or more features.
type Index struct {
	mu       sync.RWMutex
	m        *matrix.Matrix
	labels   *matrix.Labels
	dim      int
	compress bool
}

var _ index.Index = (*Index)(nil)

// New returns an empty index.
func New(opts ...Option) *Index {
	i := &Index{labels: matrix.NewLabels(), m: matrix.New(0, 0)}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// FromMatrix builds a tree in place over an already labeled matrix. The
// matrix is owned by the index afterwards.
func FromMatrix(m *matrix.Matrix, labels *matrix.Labels, opts ...Option) *Index {
	i := New(opts...)
	i.m, i.labels = m, labels
	if m.NumCols() > 0 {
		i.dim = m.NumCols() - 1
	}
	tree.BuildAll(i.m)
	return i
}

// Build codes labels, copies the vectors into a labeled matrix and builds
// the tree over it.
func (i *Index) Build(labels []string, vectors [][]float64) error {
	if len(labels) != len(vectors) {
		return fmt.Errorf("kd: labels and vectors length mismatch: %d != %d", len(labels), len(vectors))
	}
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	codes := matrix.NewLabels()
	m := matrix.New(len(vectors), dim+1)
	for r, vec := range vectors {
		if len(vec) != dim {
			return fmt.Errorf("kd: vector %d has %d features, want %d: %w", r, len(vec), dim, index.ErrDimension)
		}
		m.Set(r, matrix.LabelCol, codes.Code(labels[r]))
		for c, v := range vec {
			m.Set(r, c+1, v)
		}
	}
	tree.BuildAll(m)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.m, i.labels, i.dim = m, codes, dim
	return nil
}

// Nearest descends the tree for query. It is safe to call concurrently.
func (i *Index) Nearest(query []float64) (index.Match, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.m.NumRows() == 0 {
		return index.Match{Row: tree.NotFound}, index.ErrNotFound
	}
	if len(query) != i.dim {
		return index.Match{Row: tree.NotFound}, fmt.Errorf("kd: query dim %d != index dim %d: %w", len(query), i.dim, index.ErrDimension)
	}
	n := tree.NearestNeighbor(i.m, query)
	if !n.Found() {
		return index.Match{Row: tree.NotFound}, index.ErrNotFound
	}
	return index.Match{
		Row:      n.Row,
		Label:    i.labels.String(i.m.Label(n.Row)),
		Distance: n.Distance,
		Features: i.m.Features(n.Row),
	}, nil
}

// Len returns the number of rows in the tree.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.m.NumRows()
}

// Dim returns the feature width.
func (i *Index) Dim() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.dim
}

// Matrix returns the tree-ordered matrix. Callers must not modify it.
func (i *Index) Matrix() *matrix.Matrix {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.m
}

// Labels returns the label symbol table.
func (i *Index) Labels() *matrix.Labels {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.labels
}

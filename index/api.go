package index

import "errors"

// Index kinds accepted in configuration.
const (
	KindKD    = "kd"
	KindBrute = "brute"
)

var (
	// ErrNotFound is returned when querying an empty index.
	ErrNotFound = errors.New("index: no match in empty index")
	// ErrDimension is returned when a vector width disagrees with the index.
	ErrDimension = errors.New("index: dimension mismatch")
)

// Match is the single nearest row returned by a query.
type Match struct {
	// Row is the position of the match in the index's row order.
	Row      int
	Label    string
	Distance float64
	Features []float64
}

// Index defines a static single-nearest-neighbor index over labeled
// vectors. It is built once from (label, vector) pairs, queried many times,
// and serialized for persistence.
type Index interface {
	// Build constructs the index from the given labels and vectors.
	// labels and vectors must have the same length; all vectors must share
	// one width.
	Build(labels []string, vectors [][]float64) error

	// Nearest returns the closest indexed row to query by Euclidean
	// distance. It returns ErrNotFound on an empty index.
	Nearest(query []float64) (Match, error)

	// Len returns the number of indexed rows.
	Len() int

	// MarshalBinary serializes the index into a byte slice.
	MarshalBinary() ([]byte, error)

	// UnmarshalBinary reconstructs the index from a serialized byte slice.
	UnmarshalBinary(data []byte) error
}

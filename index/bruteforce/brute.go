package bruteforce

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/viant/sqlite-kdtree/index"
	"github.com/viant/sqlite-kdtree/vector"
)

// Index is a brute-force Euclidean nearest-neighbor index.
type Index struct {
	labels []string
	vecs   [][]float64
	dim    int
}

var _ index.Index = (*Index)(nil)

// Build loads labels and vectors.
func (i *Index) Build(labels []string, vectors [][]float64) error {
	if len(labels) != len(vectors) {
		return fmt.Errorf("bruteforce: labels and vectors length mismatch: %d != %d", len(labels), len(vectors))
	}
	if len(labels) == 0 {
		i.labels, i.vecs, i.dim = nil, nil, 0
		return nil
	}
	dim := len(vectors[0])
	for j := range vectors {
		if len(vectors[j]) != dim {
			return fmt.Errorf("bruteforce: inconsistent vector dims %d vs %d: %w", len(vectors[j]), dim, index.ErrDimension)
		}
	}
	i.labels = append([]string(nil), labels...)
	i.vecs = make([][]float64, len(vectors))
	for j, v := range vectors {
		i.vecs[j] = append([]float64(nil), v...)
	}
	i.dim = dim
	return nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return len(i.vecs) }

// Nearest returns the first vector, in build order, at minimal distance.
func (i *Index) Nearest(query []float64) (index.Match, error) {
	if len(i.vecs) == 0 {
		return index.Match{Row: -1}, index.ErrNotFound
	}
	if len(query) != i.dim {
		return index.Match{Row: -1}, fmt.Errorf("bruteforce: query dim %d != index dim %d: %w", len(query), i.dim, index.ErrDimension)
	}
	best, bestRow := math.Inf(1), -1
	for j, v := range i.vecs {
		d, err := vector.L2Distance(query, v)
		if err != nil {
			return index.Match{Row: -1}, err
		}
		if d < best {
			best, bestRow = d, j
		}
	}
	return index.Match{
		Row:      bestRow,
		Label:    i.labels[bestRow],
		Distance: best,
		Features: append([]float64(nil), i.vecs[bestRow]...),
	}, nil
}

// MarshalBinary stores: dim(uint32), n(uint32), then for each item:
// labelLen(uint32), label bytes, vec(float64[dim]).
func (i *Index) MarshalBinary() ([]byte, error) {
	if i.dim == 0 || len(i.vecs) == 0 {
		// encode empty
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint32(buf[0:4], uint32(0))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(0))
		return buf, nil
	}
	size := 8
	for _, l := range i.labels {
		size += 4 + len(l) + 8*i.dim
	}
	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, uint32(i.dim))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(i.labels)))
	for idx, l := range i.labels {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(l)))
		out = append(out, l...)
		for _, v := range i.vecs[idx] {
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(v))
		}
	}
	return out, nil
}

// UnmarshalBinary restores the index from bytes.
func (i *Index) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errors.New("bruteforce: invalid data")
	}
	off := 0
	getU32 := func() uint32 { v := binary.LittleEndian.Uint32(data[off : off+4]); off += 4; return v }
	dim := int(getU32())
	n := int(getU32())
	// Every row holds at least a label length and dim values.
	if n > 0 && n > (len(data)-off)/(4+8*dim) {
		return fmt.Errorf("bruteforce: %d rows of dim %d exceed %d bytes", n, dim, len(data)-off)
	}
	labels := make([]string, n)
	vecs := make([][]float64, n)
	for idx := 0; idx < n; idx++ {
		if off+4 > len(data) {
			return errors.New("bruteforce: truncated")
		}
		l := int(getU32())
		if off+l > len(data) {
			return errors.New("bruteforce: truncated label")
		}
		labels[idx] = string(data[off : off+l])
		off += l
		if off+8*dim > len(data) {
			return errors.New("bruteforce: truncated vec")
		}
		vec := make([]float64, dim)
		for j := 0; j < dim; j++ {
			vec[j] = math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+8]))
			off += 8
		}
		vecs[idx] = vec
	}
	return i.Build(labels, vecs)
}

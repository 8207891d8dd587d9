package kd

import (
	"encoding/binary"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/viant/sqlite-kdtree/index"
	"github.com/viant/sqlite-kdtree/index/bruteforce"
	"github.com/viant/sqlite-kdtree/matrix"
)

func TestIndex_BuildNearest(t *testing.T) {
	idx := New()
	err := idx.Build(
		[]string{"red", "blue", "red"},
		[][]float64{{1, 1}, {5, 5}, {9, 1}},
	)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	m, err := idx.Nearest([]float64{8, 2})
	if err != nil {
		t.Fatalf("Nearest failed: %v", err)
	}
	if m.Label != "red" || !reflect.DeepEqual(m.Features, []float64{9, 1}) {
		t.Fatalf("Nearest = %+v, want red [9 1]", m)
	}
	if math.Abs(m.Distance-math.Sqrt2) > 1e-12 {
		t.Fatalf("distance = %v, want sqrt(2)", m.Distance)
	}
	if idx.Len() != 3 || idx.Dim() != 2 {
		t.Fatalf("Len/Dim = %d/%d, want 3/2", idx.Len(), idx.Dim())
	}
	if got := idx.Labels().Len(); got != 2 {
		t.Fatalf("labels = %d, want 2", got)
	}
}

func TestIndex_FromMatrix(t *testing.T) {
	m, labels, err := matrix.ReadLabeled(strings.NewReader("3 3\na 9 1\nb 5 5\nc 1 1\n"))
	if err != nil {
		t.Fatalf("ReadLabeled failed: %v", err)
	}
	idx := FromMatrix(m, labels)
	if idx.Matrix().Get(0, 1) != 1 {
		t.Fatalf("tree should be sorted on x at the root, got %v", idx.Matrix().Row(0))
	}
	match, err := idx.Nearest([]float64{8, 2})
	if err != nil {
		t.Fatalf("Nearest failed: %v", err)
	}
	if match.Label != "a" || match.Row != 2 {
		t.Fatalf("Nearest = %+v, want label a at row 2", match)
	}
}

func TestIndex_Errors(t *testing.T) {
	idx := New()
	if _, err := idx.Nearest([]float64{1}); !errors.Is(err, index.ErrNotFound) {
		t.Fatalf("Nearest on empty index err = %v, want ErrNotFound", err)
	}
	if err := idx.Build([]string{"a"}, nil); err == nil {
		t.Fatalf("expected length mismatch error")
	}
	if err := idx.Build([]string{"a", "b"}, [][]float64{{1, 2}, {3}}); !errors.Is(err, index.ErrDimension) {
		t.Fatalf("Build err = %v, want ErrDimension", err)
	}
	if err := idx.Build([]string{"a"}, [][]float64{{1, 2}}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := idx.Nearest([]float64{1, 2, 3}); !errors.Is(err, index.ErrDimension) {
		t.Fatalf("Nearest err = %v, want ErrDimension", err)
	}
}

func TestIndex_MatchesBruteForceOnOneFeature(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	labels := make([]string, 64)
	vectors := make([][]float64, 64)
	for i := range vectors {
		labels[i] = string(rune('a' + i%26))
		vectors[i] = []float64{rng.Float64() * 1000}
	}
	kdIdx := New()
	if err := kdIdx.Build(labels, vectors); err != nil {
		t.Fatalf("kd Build failed: %v", err)
	}
	bf := &bruteforce.Index{}
	if err := bf.Build(labels, vectors); err != nil {
		t.Fatalf("bruteforce Build failed: %v", err)
	}
	for q := 0; q < 100; q++ {
		query := []float64{rng.Float64() * 1000}
		got, err := kdIdx.Nearest(query)
		if err != nil {
			t.Fatalf("kd Nearest failed: %v", err)
		}
		want, err := bf.Nearest(query)
		if err != nil {
			t.Fatalf("bruteforce Nearest failed: %v", err)
		}
		if got.Distance != want.Distance || got.Label != want.Label {
			t.Fatalf("query %v: kd %+v, brute %+v", query, got, want)
		}
	}
}

func TestIndex_MarshalRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(29))
	labels := make([]string, 50)
	vectors := make([][]float64, 50)
	for i := range vectors {
		labels[i] = []string{"x", "y", "z"}[i%3]
		vectors[i] = []float64{rng.Float64(), rng.Float64(), rng.Float64()}
	}

	for _, compress := range []bool{false, true} {
		src := New(WithCompression(compress))
		if err := src.Build(labels, vectors); err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		data, err := src.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary(compress=%v) failed: %v", compress, err)
		}
		if !IsIndexBlob(data) {
			t.Fatalf("missing kd header")
		}

		dst := New()
		if err := dst.UnmarshalBinary(data); err != nil {
			t.Fatalf("UnmarshalBinary(compress=%v) failed: %v", compress, err)
		}
		for r := 0; r < src.Len(); r++ {
			if !reflect.DeepEqual(src.Matrix().Row(r), dst.Matrix().Row(r)) {
				t.Fatalf("row %d differs after round trip", r)
			}
		}
		if !reflect.DeepEqual(src.Labels().Symbols(), dst.Labels().Symbols()) {
			t.Fatalf("labels differ after round trip")
		}
		q := []float64{0.5, 0.5, 0.5}
		a, _ := src.Nearest(q)
		b, _ := dst.Nearest(q)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("Nearest differs after round trip: %+v vs %+v", a, b)
		}
	}
}

func TestIndex_UnmarshalInvalid(t *testing.T) {
	idx := New()
	if err := idx.UnmarshalBinary([]byte("nope")); err == nil {
		t.Fatalf("expected error on missing header")
	}
	src := New()
	if err := src.Build([]string{"a"}, [][]float64{{1, 2}}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	data, err := src.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	if err := idx.UnmarshalBinary(data[:len(data)-1]); err == nil {
		t.Fatalf("expected error on truncated rows")
	}
}

func TestIndex_UnmarshalOversizedHeader(t *testing.T) {
	cases := map[string][2]uint32{
		"huge rows": {2, 0xFFFFFFFF},
		"huge dim":  {0xFFFFFFFF, 1},
	}
	for name, header := range cases {
		data := append([]byte(magic), 0)
		data = binary.LittleEndian.AppendUint32(data, header[0])
		data = binary.LittleEndian.AppendUint32(data, header[1])
		data = binary.LittleEndian.AppendUint32(data, 0)
		if err := New().UnmarshalBinary(data); !errors.Is(err, errInvalid) {
			t.Fatalf("%s: err = %v, want errInvalid", name, err)
		}
	}
}

func TestIndex_MarshalEmpty(t *testing.T) {
	data, err := New().MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	idx := New()
	if err := idx.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if idx.Len() != 0 {
		t.Fatalf("Len = %d, want 0", idx.Len())
	}
}

func TestIndex_ConcurrentNearest(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	labels := make([]string, 200)
	vectors := make([][]float64, 200)
	for i := range vectors {
		labels[i] = "l"
		vectors[i] = []float64{rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64()}
	}
	idx := New()
	if err := idx.Build(labels, vectors); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	want := make([]index.Match, len(vectors))
	for i, v := range vectors {
		want[i], _ = idx.Nearest(v)
	}

	var wg sync.WaitGroup
	errs := make(chan string, len(vectors))
	for i, v := range vectors {
		wg.Add(1)
		go func(i int, v []float64) {
			defer wg.Done()
			got, err := idx.Nearest(v)
			if err != nil || !reflect.DeepEqual(got, want[i]) {
				errs <- "concurrent query diverged"
			}
		}(i, v)
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatal(e)
	}
}

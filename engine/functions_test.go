package engine

import (
	"math"
	"testing"

	"github.com/viant/sqlite-kdtree/vector"
)

func TestRegisterVectorFunctionsAndUse(t *testing.T) {
	// Register globally before first connection so functions are available.
	if err := RegisterVectorFunctions(nil); err != nil {
		t.Fatalf("RegisterVectorFunctions failed: %v", err)
	}
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	if err := RegisterVectorFunctions(db); err != nil {
		t.Fatalf("RegisterVectorFunctions failed: %v", err)
	}

	// kd_l2 between (0,0) and (3,4) -> 5
	zero, err := vector.EncodeFeatures([]float64{0, 0})
	if err != nil {
		t.Fatalf("EncodeFeatures zero failed: %v", err)
	}
	threeFour, err := vector.EncodeFeatures([]float64{3, 4})
	if err != nil {
		t.Fatalf("EncodeFeatures threeFour failed: %v", err)
	}
	var dist float64
	if err := db.QueryRow(`SELECT kd_l2(?, ?)`, zero, threeFour).Scan(&dist); err != nil {
		t.Fatalf("kd_l2 query failed: %v", err)
	}
	if math.Abs(dist-5) > 1e-12 {
		t.Fatalf("kd_l2 = %v, want 5", dist)
	}

	// vec_l2 on float32 embeddings.
	zero32, err := vector.EncodeEmbedding([]float32{0, 0})
	if err != nil {
		t.Fatalf("EncodeEmbedding zero failed: %v", err)
	}
	threeFour32, err := vector.EncodeEmbedding([]float32{3, 4})
	if err != nil {
		t.Fatalf("EncodeEmbedding threeFour failed: %v", err)
	}
	if err := db.QueryRow(`SELECT vec_l2(?, ?)`, zero32, threeFour32).Scan(&dist); err != nil {
		t.Fatalf("vec_l2 query failed: %v", err)
	}
	if math.Abs(dist-5) > 1e-6 {
		t.Fatalf("vec_l2 = %v, want 5", dist)
	}

	// Mismatched widths surface as query errors.
	if err := db.QueryRow(`SELECT kd_l2(?, ?)`, zero, threeFour32).Scan(&dist); err == nil {
		t.Fatalf("expected kd_l2 error on mismatched widths")
	}
}

// Package index defines a minimal abstraction for static nearest-neighbor
// indexes that can be built from labeled vectors, queried for the single
// closest row, and serialized for persistence. Implementations in this
// module are the implicit k-d tree (kd) and a brute-force baseline.
package index

// Package bruteforce provides a nearest-neighbor index that answers queries
// by scanning all vectors by Euclidean distance. It is exact and serves as
// the ground truth the k-d tree is measured against. It supports a compact
// binary format for persistence in the kd_index table.
package bruteforce

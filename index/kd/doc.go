// Package kd provides a nearest-neighbor index backed by an implicit k-d
// tree: the labeled rows are reordered in place so that the median of every
// range is its node. The tree order is what gets persisted, so loading an
// index does not rebuild it.
package kd

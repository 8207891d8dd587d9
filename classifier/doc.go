// Package classifier answers batches of nearest-neighbor queries against a
// built index and wires index construction to the sample store.
package classifier

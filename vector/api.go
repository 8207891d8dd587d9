package vector

import (
	"context"
)

// Sample is a labeled feature vector stored in a dataset.
type Sample struct {
	// ID identifies the sample within its dataset. When empty on insert, the
	// store generates one.
	ID string

	// Label is the known classification of the sample.
	Label string

	// Features holds the coordinates used for distance computations.
	Features []float64
}

// Store defines the durable sample store. A dataset groups the samples one
// tree is built from; each dataset may carry one persisted index blob.
type Store interface {
	// AddSamples inserts or replaces samples and returns their IDs. Any
	// persisted index of the dataset is dropped.
	AddSamples(ctx context.Context, dataset string, samples []Sample) ([]string, error)

	// Samples returns all samples of a dataset in insertion order.
	Samples(ctx context.Context, dataset string) ([]Sample, error)

	// Remove deletes a sample and drops the dataset's persisted index.
	Remove(ctx context.Context, dataset, id string) error

	// SaveIndex stores a serialized index for the dataset.
	SaveIndex(ctx context.Context, dataset, kind string, blob []byte) error

	// LoadIndex returns the serialized index for the dataset, if present.
	LoadIndex(ctx context.Context, dataset string) (kind string, blob []byte, ok bool, err error)
}

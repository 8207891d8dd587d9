package classifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/viant/sqlite-kdtree/index"
	"github.com/viant/sqlite-kdtree/vector"
)

// Loader resolves the index of a dataset from a sample store, reusing the
// persisted blob when one exists and rebuilding it otherwise.
type Loader struct {
	Store    vector.Store
	Kind     string
	Compress bool
	Logger   *zap.Logger
}

// Load returns a ready index for dataset. The boolean reports whether the
// index was rebuilt from samples.
func (l *Loader) Load(ctx context.Context, dataset string) (index.Index, bool, error) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	kind, blob, ok, err := l.Store.LoadIndex(ctx, dataset)
	if err != nil {
		return nil, false, fmt.Errorf("classifier: load index %s: %w", dataset, err)
	}
	if ok && kindOrDefault(kind) == kindOrDefault(l.Kind) {
		idx, err := NewIndex(kind, l.Compress)
		if err != nil {
			return nil, false, err
		}
		err = idx.UnmarshalBinary(blob)
		if err == nil {
			logger.Debug("index loaded", zap.String("dataset", dataset), zap.String("kind", kind), zap.Int("rows", idx.Len()))
			return idx, false, nil
		}
		logger.Warn("persisted index unreadable, rebuilding", zap.String("dataset", dataset), zap.Error(err))
	}
	idx, err := l.Rebuild(ctx, dataset)
	if err != nil {
		return nil, false, err
	}
	return idx, true, nil
}

// Rebuild builds the dataset's index from its samples and persists it.
func (l *Loader) Rebuild(ctx context.Context, dataset string) (index.Index, error) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	samples, err := l.Store.Samples(ctx, dataset)
	if err != nil {
		return nil, fmt.Errorf("classifier: samples %s: %w", dataset, err)
	}
	labels := make([]string, len(samples))
	vectors := make([][]float64, len(samples))
	for i, s := range samples {
		labels[i] = s.Label
		vectors[i] = s.Features
	}
	idx, err := NewIndex(l.Kind, l.Compress)
	if err != nil {
		return nil, err
	}
	if err := idx.Build(labels, vectors); err != nil {
		return nil, fmt.Errorf("classifier: build %s: %w", dataset, err)
	}
	blob, err := idx.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if err := l.Store.SaveIndex(ctx, dataset, kindOrDefault(l.Kind), blob); err != nil {
		return nil, fmt.Errorf("classifier: save index %s: %w", dataset, err)
	}
	logger.Info("index built",
		zap.String("dataset", dataset),
		zap.String("kind", kindOrDefault(l.Kind)),
		zap.Int("rows", idx.Len()),
		zap.Int("bytes", len(blob)),
	)
	return idx, nil
}

func kindOrDefault(kind string) string {
	if kind == "" {
		return index.KindKD
	}
	return kind
}

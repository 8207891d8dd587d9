package classifier

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/viant/sqlite-kdtree/index"
)

// Result is the answer to one query of a batch.
type Result struct {
	Query    int
	Row      int
	Label    string
	Distance float64
	Features []float64
}

// Classifier runs queries against a built index. The index is only read, so
// queries run in parallel.
type Classifier struct {
	Index       index.Index
	Logger      *zap.Logger
	Parallelism int
}

// New returns a Classifier over idx. A nil logger discards output and a
// non-positive parallelism uses GOMAXPROCS.
func New(idx index.Index, logger *zap.Logger, parallelism int) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	return &Classifier{Index: idx, Logger: logger, Parallelism: parallelism}
}

// Classify returns one result per query, in query order. The first failing
// query or a cancelled context aborts the batch.
func (c *Classifier) Classify(ctx context.Context, queries [][]float64) ([]Result, error) {
	if c.Index == nil {
		return nil, fmt.Errorf("classifier: index is nil")
	}
	results := make([]Result, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	if c.Parallelism > 0 {
		g.SetLimit(c.Parallelism)
	}
	for i, q := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := c.Index.Nearest(q)
			if err != nil {
				return fmt.Errorf("classifier: query %d: %w", i, err)
			}
			results[i] = Result{
				Query:    i,
				Row:      m.Row,
				Label:    m.Label,
				Distance: m.Distance,
				Features: m.Features,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	c.Logger.Debug("classified batch",
		zap.Int("queries", len(queries)),
		zap.Int("rows", c.Index.Len()),
		zap.Int("parallelism", c.Parallelism),
	)
	return results, nil
}

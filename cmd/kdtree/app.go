package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/viant/sqlite-kdtree/classifier"
	"github.com/viant/sqlite-kdtree/config"
	"github.com/viant/sqlite-kdtree/engine"
	"github.com/viant/sqlite-kdtree/index/kd"
	"github.com/viant/sqlite-kdtree/matrix"
	"github.com/viant/sqlite-kdtree/vector"
)

// solve reads labeled training data and query items, prints the tree-ordered
// training matrix, then the nearest training row for every item.
func solve(w io.Writer, train, items io.Reader) error {
	m, labels, err := matrix.ReadLabeled(train)
	if err != nil {
		return fmt.Errorf("training data: %w", err)
	}
	queries, err := matrix.Read(items)
	if err != nil {
		return fmt.Errorf("items: %w", err)
	}
	if queries.NumRows() > 0 && queries.NumCols() != m.NumCols()-1 {
		return fmt.Errorf("items have %d columns, training data has %d features", queries.NumCols(), m.NumCols()-1)
	}

	idx := kd.FromMatrix(m, labels)

	fmt.Fprintln(w, "KDTree version of matrix")
	if err := matrix.WriteLabeled(w, idx.Matrix(), labels); err != nil {
		return err
	}
	for r := 0; r < queries.NumRows(); r++ {
		item := queries.Row(r)
		fmt.Fprintf(w, "\nSOLVE: %s\n", matrix.FormatVector(item))
		match, err := idx.Nearest(item)
		if err != nil {
			return fmt.Errorf("item %d: %w", r, err)
		}
		fmt.Fprintf(w, "ANS: %d %s %s\n", match.Row, match.Label, matrix.FormatVector(match.Features))
	}
	return nil
}

// app holds the components shared by the store-backed commands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
	store  *vector.SQLiteStore
	loader *classifier.Loader
}

func newApp(configPath string, debug bool) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	l, err := newLogger(cfg, debug)
	if err != nil {
		return nil, err
	}
	return newAppWith(cfg, l)
}

func newAppWith(cfg *config.Config, l *zap.Logger) (*app, error) {
	if err := engine.RegisterVectorFunctions(nil); err != nil {
		return nil, err
	}
	db, err := engine.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, err
	}
	store, err := vector.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	l.Debug("store opened", zap.String("database_path", cfg.Storage.DatabasePath))
	return &app{
		cfg:    cfg,
		logger: l,
		db:     db,
		store:  store,
		loader: &classifier.Loader{
			Store:    store,
			Kind:     cfg.Index.Kind,
			Compress: cfg.Index.CompressionOrDefault(),
			Logger:   l,
		},
	}, nil
}

func (a *app) Close() error {
	_ = a.logger.Sync()
	return a.db.Close()
}

// importSamples stores every training row as a new sample and rebuilds the
// dataset index. The store assigns the sample IDs.
func (a *app) importSamples(ctx context.Context, dataset string, train io.Reader) (int, error) {
	m, labels, err := matrix.ReadLabeled(train)
	if err != nil {
		return 0, fmt.Errorf("training data: %w", err)
	}
	samples := make([]vector.Sample, m.NumRows())
	for r := range samples {
		samples[r] = vector.Sample{
			Label:    labels.String(m.Label(r)),
			Features: m.Features(r),
		}
	}
	if _, err := a.store.AddSamples(ctx, dataset, samples); err != nil {
		return 0, err
	}
	if _, err := a.loader.Rebuild(ctx, dataset); err != nil {
		return 0, err
	}
	return len(samples), nil
}

// query answers every item against the dataset index.
func (a *app) query(ctx context.Context, w io.Writer, dataset string, items io.Reader) error {
	queries, err := matrix.Read(items)
	if err != nil {
		return fmt.Errorf("items: %w", err)
	}
	idx, _, err := a.loader.Load(ctx, dataset)
	if err != nil {
		return err
	}
	vectors := make([][]float64, queries.NumRows())
	for r := range vectors {
		vectors[r] = queries.Row(r)
	}
	results, err := classifier.New(idx, a.logger, a.cfg.Search.Parallelism).Classify(ctx, vectors)
	if err != nil {
		return err
	}
	for _, res := range results {
		fmt.Fprintf(w, "SOLVE: %s\n", matrix.FormatVector(vectors[res.Query]))
		fmt.Fprintf(w, "ANS: %d %s %s %s\n",
			res.Row, res.Label, matrix.FormatVector(res.Features), strconv.FormatFloat(res.Distance, 'g', 6, 64))
	}
	return nil
}

// Package main is the kdtree CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/viant/sqlite-kdtree/config"
	"github.com/viant/sqlite-kdtree/internal/logger"
)

var version = "dev"

const defaultConfigPath = "kdtree.yaml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch command := os.Args[1]; command {
	case "solve":
		err = runSolveCommand(os.Args[2:])
	case "import":
		err = runImportCommand(ctx, os.Args[2:])
	case "query":
		err = runQueryCommand(ctx, os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("kdtree version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "kdtree: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Usage: kdtree <command> [flags]

Commands:
  solve    build a tree from a labeled file and answer items from another file
  import   store labeled samples in a dataset and build its index
  query    answer items against a stored dataset
  version  print the version

Run "kdtree <command> -h" for command flags.
`)
}

func runSolveCommand(args []string) error {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	trainPath := fs.String("train", "", "labeled training matrix file")
	itemsPath := fs.String("items", "", "items matrix file")
	_ = fs.Parse(args)
	if *trainPath == "" || *itemsPath == "" {
		return fmt.Errorf("solve: -train and -items are required")
	}
	train, err := os.Open(*trainPath)
	if err != nil {
		return err
	}
	defer train.Close()
	items, err := os.Open(*itemsPath)
	if err != nil {
		return err
	}
	defer items.Close()
	return solve(os.Stdout, train, items)
}

func runImportCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	dataset := fs.String("dataset", "default", "dataset name")
	trainPath := fs.String("train", "", "labeled training matrix file")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(args)
	if *trainPath == "" {
		return fmt.Errorf("import: -train is required")
	}

	a, err := newApp(*configPath, *debug)
	if err != nil {
		return err
	}
	defer a.Close()

	train, err := os.Open(*trainPath)
	if err != nil {
		return err
	}
	defer train.Close()
	n, err := a.importSamples(ctx, *dataset, train)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d samples into %s\n", n, *dataset)
	return nil
}

func runQueryCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	dataset := fs.String("dataset", "default", "dataset name")
	itemsPath := fs.String("items", "", "items matrix file")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(args)
	if *itemsPath == "" {
		return fmt.Errorf("query: -items is required")
	}

	a, err := newApp(*configPath, *debug)
	if err != nil {
		return err
	}
	defer a.Close()

	items, err := os.Open(*itemsPath)
	if err != nil {
		return err
	}
	defer items.Close()
	return a.query(ctx, os.Stdout, *dataset, items)
}

// loadConfig loads path when it exists and falls back to defaults when the
// default config file is absent.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func newLogger(cfg *config.Config, debug bool) (*zap.Logger, error) {
	l, err := logger.New(cfg.Debug || debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return l, nil
}

// Package cli provides the command-line interface for roomscout.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lberndt/roomscout/internal/config"
	"github.com/lberndt/roomscout/internal/db"
	"github.com/lberndt/roomscout/internal/llm"
	"github.com/lberndt/roomscout/internal/metrics"
	"github.com/lberndt/roomscout/internal/repo"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool
	jsonOut bool

	// Global config and logger
	cfg      config.Config
	log      *slog.Logger
	closeLog func() error

	// Lazy-initialized components
	repository *repo.Repository
	dbClient   *db.Client
	embedder   *llm.Embedder
	model      *llm.Model

	collector = metrics.NewCollector()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "roomscout",
	Short: "Room comparison and completion engine",
	Long: `Roomscout compares interior-design rooms and suggests what a room is
missing. It works from a local chunk directory of room and item records,
optionally backed by a SurrealDB vector store for nearest-neighbor
retrieval and an LLM for narrative output.

Structured numbers always come from the deterministic engine; the model
only phrases them.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		log, closeLog = config.SetupLogger(cfg.LogFile, level)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbClient != nil {
			if err := dbClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
			}
		}
		if log != nil {
			log.Debug("run finished", "metrics", collector.Snapshot())
		}
		if closeLog != nil {
			if err := closeLog(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// chunkRepo loads the chunk directory snapshot once per process.
func chunkRepo() (*repo.Repository, error) {
	if repository != nil {
		return repository, nil
	}
	r, err := repo.Load(cfg.ChunksDir, log)
	if err != nil {
		return nil, fmt.Errorf("load chunks from %s: %w", cfg.ChunksDir, err)
	}
	repository = r
	return repository, nil
}

// connectDB connects to the vector store and applies the schema, once per
// process. Commands that can run offline call this only when needed.
func connectDB(ctx context.Context) (*db.Client, error) {
	if dbClient != nil {
		return dbClient, nil
	}
	client, err := db.NewClient(ctx, db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := client.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	dbClient = client
	return dbClient, nil
}

// llmComponents initializes the embedder and chat model lazily.
func llmComponents() (*llm.Embedder, *llm.Model, error) {
	if embedder != nil {
		return embedder, model, nil
	}
	e, err := llm.NewEmbedder(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init embedder: %w", err)
	}
	m, err := llm.NewModel(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init model: %w", err)
	}
	embedder, model = e, m
	return embedder, model, nil
}

// commandContext returns the context a single command invocation runs under,
// bounded by the configured request timeout.
func commandContext() (context.Context, context.CancelFunc) {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	return context.WithTimeout(context.Background(), timeout)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print results as JSON")

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(assistCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(statsCmd)
}

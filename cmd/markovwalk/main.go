package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/CTAG07/markovwalk/pkg/store"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// app carries the state shared by every subcommand for one invocation.
type app struct {
	out    io.Writer
	logOut io.Writer

	configPath string
	logLevel   string
	dbPath     string

	config *Config
	logger *slog.Logger
}

func newRootCmd(out, logOut io.Writer) *cobra.Command {
	a := &app{out: out, logOut: logOut}

	rootCmd := &cobra.Command{
		Use:   "markovwalk",
		Short: "Generate random walks over Markov chains",
		Long: `markovwalk builds Markov chains and prints random walks over them.

Available subcommands:
  tweets - Generate tweets from a text corpus
  snakes - Generate snakes-and-ladders paths
  models - Manage chains saved in the database`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "./markovwalk.json", "path to the JSON config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config file")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "path to the SQLite database; overrides the config file")

	rootCmd.AddCommand(a.tweetsCmd(), a.snakesCmd(), a.modelsCmd())
	return rootCmd
}

// setup loads the configuration and builds the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	config, err := LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.logLevel != "" {
		config.LogLevel = a.logLevel
	}
	if a.dbPath != "" {
		config.DatabasePath = a.dbPath
	}
	a.config = config

	a.logger = slog.New(slog.NewTextHandler(a.logOut, &slog.HandlerOptions{Level: parseLogLevel(config.LogLevel)}))
	a.logger.Debug("Configuration loaded",
		slog.String("config_path", a.configPath),
		slog.String("database_path", config.DatabasePath),
	)
	return nil
}

// openStore opens the configured database, ensures its schema and returns a
// ready Store. The returned function closes both.
func (a *app) openStore(ctx context.Context) (*store.Store, func(), error) {
	db, err := initDB(a.config.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = store.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to setup schema: %w", err)
	}
	s, err := store.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	s.SetLogger(a.logger)

	return s, func() {
		s.Close()
		closeDB(db, a.logger)
	}, nil
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}
}

func main() {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stdout, "Error:", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/schemactl/schemactl/internal/config"
	"github.com/schemactl/schemactl/internal/database"
	"github.com/schemactl/schemactl/internal/logging"
	"github.com/schemactl/schemactl/internal/schema"
	"github.com/schemactl/schemactl/internal/watch"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	dbPath     string
	schemaPath string
	echo       bool
	logFile    string
	verbosity  int

	dropYes       bool
	dropRecreate  bool
	watchDebounce time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "schemactl",
		Short: "schemactl - SQLite schema initializer",
		Long:  `schemactl opens a local SQLite database file and idempotently creates the tables declared in a schema file.`,
		RunE:  runRoot,
	}

	// Flags
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", config.DefaultDatabasePath, "SQLite database path (or set SCHEMACTL_DB)")
	rootCmd.PersistentFlags().StringVarP(&schemaPath, "schema", "s", config.DefaultSchemaPath, "Schema file path (or set SCHEMACTL_SCHEMA)")
	rootCmd.PersistentFlags().BoolVar(&echo, "echo", false, "Log every schema statement as it is executed (or set SCHEMACTL_ECHO)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this rotating file (or set SCHEMACTL_LOG_FILE)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	ensureCmd := &cobra.Command{
		Use:   "ensure",
		Short: "Create missing tables and indexes",
		RunE:  runEnsure,
	}

	dropCmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop every table declared in the schema file",
		RunE:  runDrop,
	}
	dropCmd.Flags().BoolVar(&dropYes, "yes", false, "Confirm the destructive drop")
	dropCmd.Flags().BoolVar(&dropRecreate, "recreate", false, "Recreate the schema after dropping it")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Compare the schema file against the database",
		RunE:  runStatus,
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Reapply the schema whenever the schema file changes",
		RunE:  runWatch,
	}
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Delay between a file change and the reapply")

	rootCmd.AddCommand(ensureCmd, dropCmd, statusCmd, watchCmd, &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "schemactl %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	return rootCmd
}

// setup resolves configuration and initializes logging. Called at the
// top of every RunE.
func setup() config.Config {
	config.LoadDotenv()

	cfg := config.Config{
		DatabasePath: dbPath,
		SchemaPath:   schemaPath,
		Echo:         echo,
		LogFile:      logFile,
	}
	config.ApplyEnv(&cfg)

	logging.Apply(verbosity, cfg.LogFile, logging.DefaultRotation())
	return cfg
}

// openDatabase opens the SQLite file with the configured options.
func openDatabase(cfg config.Config) (*database.DB, error) {
	opts := database.DefaultOptions()
	opts.Echo = cfg.Echo
	return database.Open(cfg.DatabasePath, opts)
}

// loadRegistry loads the table registry from the schema file. A
// missing file at the default path yields an empty registry, so
// running without a schema file is a harmless no-op; a missing file
// given explicitly is an error.
func loadRegistry(cfg config.Config) (*schema.Registry, error) {
	if _, err := os.Stat(cfg.SchemaPath); errors.Is(err, os.ErrNotExist) {
		if cfg.SchemaPath == config.DefaultSchemaPath {
			log.Debug().Str("path", cfg.SchemaPath).Msg("No schema file; registry is empty")
			return schema.New(), nil
		}
		return nil, fmt.Errorf("schema file %s does not exist", cfg.SchemaPath)
	}
	return schema.Load(cfg.SchemaPath)
}

func ensureOnce(cfg config.Config) error {
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.EnsureSchema(context.Background(), reg)
}

// runRoot is the bare invocation: ensure the schema, then print the
// smoke-test greeting.
func runRoot(cmd *cobra.Command, args []string) error {
	cfg := setup()
	if err := ensureOnce(cfg); err != nil {
		log.Error().Err(err).Msg("Schema initialization failed")
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Hello, World!")
	return nil
}

func runEnsure(cmd *cobra.Command, args []string) error {
	cfg := setup()
	if err := ensureOnce(cfg); err != nil {
		log.Error().Err(err).Msg("Schema initialization failed")
		return err
	}
	log.Info().Str("database", cfg.DatabasePath).Msg("Schema is up to date")
	return nil
}

func runDrop(cmd *cobra.Command, args []string) error {
	cfg := setup()

	if !dropYes {
		return fmt.Errorf("drop is destructive; pass --yes to confirm")
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.DropSchema(ctx, reg); err != nil {
		return err
	}
	if dropRecreate {
		return db.EnsureSchema(ctx, reg)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := setup()

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	statuses, err := db.SchemaStatus(context.Background(), reg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(statuses) == 0 {
		fmt.Fprintln(out, "No tables declared")
		return nil
	}

	for _, s := range statuses {
		switch {
		case !s.Present:
			fmt.Fprintf(out, "%s\tmissing\n", s.Name)
		case len(s.MissingColumns) > 0:
			fmt.Fprintf(out, "%s\tpresent (missing columns: %v)\n", s.Name, s.MissingColumns)
		default:
			fmt.Fprintf(out, "%s\tok\n", s.Name)
		}
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := setup()

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	apply := func(ctx context.Context) error {
		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}
		return db.EnsureSchema(ctx, reg)
	}

	watcher, err := watch.New(cfg.SchemaPath, watchDebounce, apply)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	return nil
}

// Package cli implements the gafaws CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rcliao/gafaws/internal/catalog"
	"github.com/rcliao/gafaws/internal/config"
	"github.com/rcliao/gafaws/internal/store"
)

var (
	dbPath     string
	formatFlag string
	configPath string
	verbose    bool

	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "gafaws",
	Short: "Infer affix position classes from segmented words",
	Long: "gafaws reads corpora of segmented words, infers the position classes " +
		"their prefixes and suffixes occupy, and keeps versioned results in SQLite.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = c

		l, err := newLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $GAFAWS_DB or ~/.gafaws/gafaws.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "Output format: json or text (default from config, else json)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $GAFAWS_CONFIG or ~/.gafaws/config.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.DatabasePath
}

func outputFormat() string {
	if formatFlag != "" {
		return formatFlag
	}
	return cfg.DefaultFormat
}

func openStore() (*store.SQLiteStore, error) {
	logger.Debug("opening store", zap.String("path", getDBPath()))
	return store.NewSQLiteStore(getDBPath())
}

func openCatalog() *catalog.Catalog {
	c, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Warn("falling back to built-in catalog", zap.Error(err))
		return catalog.Default()
	}
	return c
}

func printJSON(cmd *cobra.Command, v interface{}) {
	if err := writeJSON(cmd.OutOrStdout(), v); err != nil {
		exitErr("write output", err)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func exitErr(msg string, err error) {
	logger.Debug("command failed", zap.String("op", msg), zap.Error(err))
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

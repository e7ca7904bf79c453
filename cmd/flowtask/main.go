package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/flowtask/internal/config"
	"github.com/groblegark/flowtask/internal/store"
	"github.com/groblegark/flowtask/internal/store/postgres"
	"github.com/groblegark/flowtask/internal/store/sqlite"
	"github.com/groblegark/flowtask/internal/ui"
)

var (
	dbFlag     string
	jsonOutput bool
	noColor    bool

	cfg    *config.Config
	st     store.Store
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "flowtask",
	Short: "Dependency-aware personal task manager",
	Long: `flowtask tracks tasks and the dependencies between them. A task is
ready when every task it depends on is done; adding a dependency that
would close a cycle is rejected up front.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel(),
		}))

		if noColor || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if dbFlag != "" {
			cfg.DatabaseURL = dbFlag
		}

		if config.IsPostgres(cfg.DatabaseURL) {
			st, err = postgres.Open(cfg.DatabaseURL)
		} else {
			st, err = sqlite.Open(cfg.DatabaseURL)
		}
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if st != nil {
			st.Close()
		}
	},
}

func logLevel() slog.Level {
	if os.Getenv("FLOWTASK_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "database path or postgres:// URL (default ~/.flowtask/flowtask.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(depCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(backupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

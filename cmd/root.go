package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-teamsheet/internal/config"
	"github.com/pable/go-teamsheet/internal/logging"
	"github.com/pable/go-teamsheet/internal/stats"
	"github.com/pable/go-teamsheet/internal/storage"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "teamsheet",
	Short: "Rugby teamsheet statistics",
	Long: `Record one teamsheet per match and derive appearance counts, season results,
shirt-number spreads and squad churn. Similar player names are flagged on entry and can
be merged later.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { _ = logger.Sync() },
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	home := mustUserHome()
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.teamsheet/teamsheet.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.FilePath(home), "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(seasonsCmd)
	rootCmd.AddCommand(seasonCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(appearancesCmd)
	rootCmd.AddCommand(namesCmd)
	rootCmd.AddCommand(milestonesCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(duplicatesCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(mergesCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
}

// setup loads config, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath, mustUserHome())
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	l, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		return err
	}
	logger = l
	logger.Debug("config loaded", zap.String("db", cfg.DBPath), zap.String("config", configPath))
	return nil
}

// openService opens the configured database and wraps it in a stats service. The caller
// closes the returned store.
func openService() (*stats.Service, *storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	svc := stats.NewService(db, logger, stats.Options{
		SuggestThreshold: cfg.SuggestThreshold,
		GroupThreshold:   cfg.GroupThreshold,
		MilestoneEvery:   cfg.MilestoneEvery,
	})
	return svc, db, nil
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

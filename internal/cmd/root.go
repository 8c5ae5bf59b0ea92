package cmd

import (
	"context"
	"fmt"
	"os"

	"auction-marketplace/internal/backup"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "marketplace",
	Short: "Auction marketplace backend",
	Long: `Auction marketplace backend: listings, bidding, orders, reviews, chats,
support tickets and saved lists over a SQL store, served as a JSON API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default: search ./, ./config/, /etc/auction-marketplace/)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies the logging settings
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	utils.Configure(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

// backupManager returns the backup manager for a SQLite store, or nil for other drivers
func backupManager(cfg *config.Config) *backup.Manager {
	d, err := repository.DialectFor(cfg.DB.Driver)
	if err != nil || d.Name != repository.SQLite.Name || cfg.Backup.Dir == "" {
		return nil
	}
	return backup.NewManager(cfg.DB.Path, cfg.Backup.Dir)
}

// openStore connects to the configured database, restoring a missing SQLite file from the
// newest backup, installs it as the process default and applies the schema
func openStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	var restorer repository.Restorer
	if m := backupManager(cfg); m != nil && cfg.Backup.Enabled {
		restorer = m
	}

	db, dialect, err := repository.Open(ctx, cfg.DB, restorer)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repository.SetDefault(db, dialect)

	store := repository.NewStore(db, dialect)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

package cmd

import (
	"errors"
	"fmt"

	market "auction-marketplace/internal/marketService"
	"auction-marketplace/internal/models"
	"auction-marketplace/utils"

	"github.com/spf13/cobra"
)

var errSQLiteOnly = errors.New("backups are only supported for the sqlite driver")

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.DB().Close()

		utils.Info("database schema applied", map[string]any{"driver": cfg.DB.Driver})
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a gzip SQL dump of the SQLite database now",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		m := backupManager(cfg)
		if m == nil {
			return errSQLiteOnly
		}

		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.DB().Close()

		path, err := m.Backup(cmd.Context(), store.DB())
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Rebuild a missing SQLite database from the newest backup",
	Long: `Rebuild a missing SQLite database from the newest backup, then delete that backup.
The command refuses to run while the database file exists.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		m := backupManager(cfg)
		if m == nil {
			return errSQLiteOnly
		}

		path, err := m.RestoreLatest(cmd.Context())
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var (
	promoteUsername string
	promoteRole     string
)

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Set the role of a user",
	Long:  `Set the role of a user. This is how the first administrator is created.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.DB().Close()

		user, err := market.NewUserService(store).Promote(cmd.Context(), promoteUsername, promoteRole)
		if err != nil {
			return err
		}
		utils.Info("user role updated", map[string]any{"user_id": user.ID, "username": user.Username, "role": user.Role})
		return nil
	},
}

func init() {
	promoteCmd.Flags().StringVar(&promoteUsername, "username", "", "user to promote")
	promoteCmd.Flags().StringVar(&promoteRole, "role", models.RoleAdmin, "new role (user, staff or admin)")
	_ = promoteCmd.MarkFlagRequired("username")

	rootCmd.AddCommand(migrateCmd, backupCmd, restoreCmd, promoteCmd)
}

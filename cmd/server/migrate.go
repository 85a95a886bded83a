package main

import (
	"github.com/spf13/cobra"

	platformdb "auth_backend/internal/platform/db"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users table",
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cmd.Println("Connecting to database...")
	db, err := platformdb.Open(cfg.DB)
	if err != nil {
		return err
	}

	cmd.Println("Running migrations...")
	if err := platformdb.Migrate(db); err != nil {
		return err
	}

	cmd.Println("Migrations completed successfully")
	return nil
}

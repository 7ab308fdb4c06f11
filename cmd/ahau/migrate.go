package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ldflores83/falconcore/internal/config"
	"github.com/ldflores83/falconcore/internal/store/gormstore"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the SQL schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		if cfg.DB.Driver == config.DriverFirestore {
			return fmt.Errorf("migrate: the %s driver has no schema", cfg.DB.Driver)
		}

		db, err := gormstore.Open(cfg.DB)
		if err != nil {
			return err
		}
		st := gormstore.New(db)
		defer st.Close()

		if err := gormstore.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s database\n", cfg.DB.Driver)
		return nil
	},
}

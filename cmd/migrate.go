package main

import (
	"context"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the store schema and seed the default roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStores(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		logger.Infow("store ready", "driver", cfg.Database.Driver)
		return st.close(context.Background())
	},
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mealprep/internal/importer"
	"mealprep/internal/service"
)

var (
	importSheet string
	importRange string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import orders from a Google Sheets spreadsheet",
	Long: `Reads an order sheet (one row per menu line, columns A to N) and stores
every order it contains. Rows with an empty order id continue the order above.

Example:
  mealprep import --sheet 1AbC...xyz --range "Pedidos!A:N"`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "Spreadsheet ID")
	importCmd.Flags().StringVar(&importRange, "range", "", "Range to read (default from config)")
	_ = importCmd.MarkFlagRequired("sheet")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if cfg.Sheets.CredentialsFile == "" {
		return fmt.Errorf("sheets.credentials_file is not configured")
	}
	credentials, err := os.ReadFile(cfg.Sheets.CredentialsFile)
	if err != nil {
		return fmt.Errorf("failed to read sheets credentials: %w", err)
	}

	source, err := importer.NewGoogleSheetsSource(ctx, importer.Config{CredentialsJSON: credentials})
	if err != nil {
		return err
	}

	readRange := importRange
	if readRange == "" {
		readRange = cfg.Sheets.Range
	}
	orders, err := importer.New(source).Import(ctx, importSheet, readRange)
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close(context.Background())

	planner := service.NewPlanner(st.orders, st.roster, planningOptions(), logger)
	n, err := planner.ImportOrders(ctx, orders)
	if err != nil {
		return fmt.Errorf("imported %d of %d orders: %w", n, len(orders), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d orders\n", n)
	return nil
}

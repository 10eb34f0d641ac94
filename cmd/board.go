package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mealprep/internal/board"
	"mealprep/internal/models"
)

var (
	boardDate   string
	boardServer string
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the live production board of a delivery date",
	Long: `Subscribes to a running API server and shows the workload split, the
kitchen sheet and the packaging list, refreshed whenever an order or the
roster changes.

Examples:
  mealprep board --date 2026-10-19
  mealprep board --server https://kitchen.example.com`,
	RunE: runBoard,
}

func init() {
	boardCmd.Flags().StringVarP(&boardDate, "date", "d", "", "Delivery date YYYY-MM-DD (default tomorrow)")
	boardCmd.Flags().StringVar(&boardServer, "server", "", "API server URL (default http://localhost:<server.port>)")
}

func runBoard(cmd *cobra.Command, args []string) error {
	date := boardDate
	if date == "" {
		date = time.Now().AddDate(0, 0, 1).Format(models.DateLayout)
	}
	server := boardServer
	if server == "" {
		server = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}

	source, err := board.Dial(cmd.Context(), server, date)
	if err != nil {
		return err
	}
	defer source.Close()

	logger.Debugw("board subscribed", "server", server, "date", date)
	return board.Run(date, source)
}

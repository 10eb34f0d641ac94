package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"mealprep/internal/models"
	"mealprep/internal/service"
)

var (
	planDate string
	planJSON bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the production plan for a delivery date",
	Long: `Computes the kitchen sheet, the workload split and the packaging list
for one delivery date and prints them.

Examples:
  mealprep plan --date 2026-10-19
  mealprep plan --json > plan.json`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planDate, "date", "d", "", "Delivery date YYYY-MM-DD (default tomorrow)")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Print the plan as JSON")
}

func runPlan(cmd *cobra.Command, args []string) error {
	date := planDate
	if date == "" {
		date = time.Now().AddDate(0, 0, 1).Format(models.DateLayout)
	}

	st, err := openStores(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer st.close(context.Background())

	planner := service.NewPlanner(st.orders, st.roster, planningOptions(), logger)
	plan, err := planner.Plan(cmd.Context(), date)
	if err != nil {
		return err
	}

	if planJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}
	renderPlan(cmd.OutOrStdout(), plan)
	return nil
}

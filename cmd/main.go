package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mealprep/internal/config"
	"mealprep/internal/logging"
)

var (
	configFile string
	verbose    bool

	cfg    *config.Config
	logger *zap.SugaredLogger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mealprep",
	Short: "Daily production planning for a meal-subscription kitchen",
	Long: `mealprep turns the day's subscription orders into a kitchen production
sheet, a per-worker workload split and a client-by-client packaging list.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.Logging.Development)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(boardCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

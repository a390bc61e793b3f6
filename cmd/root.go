package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "restaurant",
	Short: "Restaurant ordering backend",
	Long:  `Serves the menu, orders, inventory and promotions API, and runs analytics and customer migration jobs.`,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(migrationCmd)
}

// Execute is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"restaurant/migration"
)

var migrationCmd = &cobra.Command{
	Use:   "migration",
	Short: "Link past orders to customer profiles",
}

var migrationReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print which orders can be linked, without writing anything",
	RunE: func(c *cobra.Command, _ []string) error {
		ctx := c.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		report, err := a.migrator.GenerateReport(ctx)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

var reportFile string

var migrationRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Link the migratable orders of a report",
	Long: `Run a report saved by "migration report". Without --report a fresh report
is generated and executed straight away.`,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx := c.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		var report migration.Report
		if reportFile != "" {
			raw, err := os.ReadFile(reportFile)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(raw, &report); err != nil {
				return fmt.Errorf("parse %s: %w", reportFile, err)
			}
		} else if report, err = a.migrator.GenerateReport(ctx); err != nil {
			return err
		}

		res, err := a.migrator.MigrateAll(ctx, report)
		if err != nil {
			return err
		}
		if err := printJSON(res); err != nil {
			return err
		}
		if res.Errors > 0 {
			return fmt.Errorf("%d orders could not be migrated", res.Errors)
		}
		return nil
	},
}

func init() {
	migrationRunCmd.Flags().StringVar(&reportFile, "report", "", "report JSON file to execute")
	migrationCmd.AddCommand(migrationReportCmd)
	migrationCmd.AddCommand(migrationRunCmd)
}

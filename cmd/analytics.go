package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Analytics maintenance",
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Rebuild the analytics snapshot from the order log and print it",
	RunE: func(c *cobra.Command, _ []string) error {
		ctx := c.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		snap, res := a.svc.RecomputeAnalytics(ctx)
		if !res.Success {
			return errors.New(res.Warning)
		}
		a.log.Info("analytics stored", "backend", res.Backend, "fallback", res.Fallback)
		return printJSON(snap)
	},
}

func init() {
	analyticsCmd.AddCommand(recomputeCmd)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

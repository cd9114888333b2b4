package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modq/internal/review"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show queue counts by status and risk level",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			stats, err := client.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch stats: %w", err)
			}
			if jsonOutput {
				return writeJSON(cmd, stats)
			}

			out := cmd.OutOrStdout()
			statusRows := make([][]string, 0, len(stats.ByStatus))
			for _, status := range []review.Status{review.StatusPending, review.StatusApproved, review.StatusRejected} {
				statusRows = append(statusRows, []string{
					string(status),
					fmt.Sprintf("%d", stats.ByStatus[string(status)]),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Status", "Count"}, statusRows, []columnAlignment{alignLeft, alignRight}))

			riskRows := make([][]string, 0, len(stats.ByRisk))
			for _, level := range []review.RiskLevel{review.RiskMinimal, review.RiskLow, review.RiskMedium, review.RiskHigh} {
				count, ok := stats.ByRisk[string(level)]
				if !ok {
					continue
				}
				riskRows = append(riskRows, []string{string(level), fmt.Sprintf("%d", count)})
			}
			if len(riskRows) > 0 {
				fmt.Fprintln(out, renderTable([]string{"Risk", "Count"}, riskRows, []columnAlignment{alignLeft, alignRight}))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable output")
	return cmd
}

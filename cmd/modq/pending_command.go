package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modq/internal/review"
)

func newPendingCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var offset int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List pending submissions awaiting review",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			page, err := client.ListPending(cmd.Context(), limit, offset)
			if err != nil {
				return fmt.Errorf("list pending: %w", err)
			}
			if jsonOutput {
				return writeJSON(cmd, page)
			}

			out := cmd.OutOrStdout()
			if len(page.Items) == 0 {
				fmt.Fprintln(out, "No pending submissions")
				return nil
			}

			items := make([]review.Item, 0, len(page.Items))
			for _, payload := range page.Items {
				items = append(items, *payload.ToItem())
			}
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderTable(pendingHeaders, pendingRows(items, colorize), pendingAligns))
			fmt.Fprintf(out, "Showing %d of %d pending\n", len(items), page.TotalCount)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum items to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "Pagination offset")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable output")
	return cmd
}

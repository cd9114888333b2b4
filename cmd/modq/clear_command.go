package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove resolved submissions from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			removed, err := client.ClearResolved(cmd.Context(), days)
			if err != nil {
				return fmt.Errorf("clear resolved: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d resolved items\n", removed)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Only remove items resolved more than this many days ago")
	return cmd
}

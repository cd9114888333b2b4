package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"modq/internal/itemstore"
	"modq/internal/review"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Display a submission in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			item, err := client.GetItem(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, review.ErrNotFound) {
					return fmt.Errorf("no item with id %s", args[0])
				}
				return fmt.Errorf("fetch item: %w", err)
			}
			if jsonOutput {
				return writeJSON(cmd, itemstore.FromItem(item))
			}

			out := cmd.OutOrStdout()
			printItemDetail(out, item, shouldColorize(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable output")
	return cmd
}

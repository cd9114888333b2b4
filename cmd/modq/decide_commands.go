package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"modq/internal/review"
)

func newApproveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <item-id>",
		Short: "Approve a pending submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecision(ctx, cmd, args[0], review.OutcomeApprove, "")
		},
	}
}

func newRejectCommand(ctx *commandContext) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject <item-id>",
		Short: "Reject a pending submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecision(ctx, cmd, args[0], review.OutcomeReject, reason)
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Reason shown to the author (defaults to the community guidelines notice)")
	return cmd
}

func runDecision(ctx *commandContext, cmd *cobra.Command, id string, outcome review.Outcome, reason string) error {
	client, err := ctx.client()
	if err != nil {
		return err
	}
	item, err := client.Decide(cmd.Context(), id, outcome, reason)
	if err != nil {
		return decisionError(err, id)
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	fmt.Fprintf(out, "%s: %s\n", statusLabel(item.Status, colorize), itemSummary(item))
	return nil
}

// decisionError translates store failures into reviewer-facing messages;
// a conflict reads differently from a missing item so the reviewer knows
// the queue simply moved on.
func decisionError(err error, id string) error {
	switch {
	case errors.Is(err, review.ErrAlreadyResolved):
		return fmt.Errorf("item %s was already resolved by another reviewer", id)
	case errors.Is(err, review.ErrNotFound):
		return fmt.Errorf("no item with id %s", id)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("decision for %s failed: %w", id, err)
	}
}

func itemSummary(item *review.Item) string {
	title := item.Title
	if title == "" {
		title = shortID(item.ID)
	}
	if item.AuthorName != "" {
		return fmt.Sprintf("%s by %s", title, item.AuthorName)
	}
	return title
}

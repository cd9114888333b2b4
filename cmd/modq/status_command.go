package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			status, err := client.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch status: %w", err)
			}
			if jsonOutput {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			pairs := [][2]string{
				{"Running:", yesNo(status.Running)},
				{"PID:", fmt.Sprintf("%d", status.PID)},
				{"Database:", status.DatabasePath},
				{"Pending:", fmt.Sprintf("%d", status.PendingCount)},
			}
			fmt.Fprintln(out, renderKeyValues(pairs))

			db := status.Database
			health := [][2]string{
				{"Readable:", yesNo(db.Readable)},
				{"Table present:", yesNo(db.TableExists)},
				{"Integrity:", yesNo(db.IntegrityOK)},
				{"Total items:", fmt.Sprintf("%d", db.TotalItems)},
			}
			if len(db.MissingColumns) > 0 {
				health = append(health, [2]string{"Missing columns:", strings.Join(db.MissingColumns, ", ")})
			}
			if db.Error != "" {
				health = append(health, [2]string{"Error:", db.Error})
			}
			fmt.Fprintln(out, "Database health:")
			fmt.Fprintln(out, renderKeyValues(health))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable output")
	return cmd
}

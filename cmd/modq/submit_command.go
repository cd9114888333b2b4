package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"modq/internal/config"
	"modq/internal/itemstore"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var author string
	var title string
	var body string
	var file string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Queue a story for moderation",
		Long:  "Queue a story for moderation. The body comes from --body, --file, or stdin, in that order of preference.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := resolveBody(cmd, body, file)
			if err != nil {
				return err
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			item, err := client.Submit(cmd.Context(), itemstore.SubmissionRequest{
				AuthorName: author,
				Title:      title,
				Body:       text,
			})
			if err != nil {
				return fmt.Errorf("submit story: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintf(out, "Queued %s (%s risk, %d words)\n",
				shortID(item.ID), riskLabel(item.RiskLevel, colorize), item.WordCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Author display name")
	cmd.Flags().StringVar(&title, "title", "", "Story title")
	cmd.Flags().StringVar(&body, "body", "", "Story text")
	cmd.Flags().StringVar(&file, "file", "", "Read the story text from a file")
	return cmd
}

func resolveBody(cmd *cobra.Command, body, file string) (string, error) {
	if text := strings.TrimSpace(body); text != "" {
		return text, nil
	}
	if file = strings.TrimSpace(file); file != "" {
		path, err := config.ExpandPath(file)
		if err != nil {
			return "", fmt.Errorf("resolve story file: %w", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read story file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read story from stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("story body is required (use --body, --file, or pipe text on stdin)")
	}
	return text, nil
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"modq/internal/review"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func riskLabel(level review.RiskLevel, colorize bool) string {
	label := string(level)
	if label == "" {
		label = string(review.RiskMinimal)
	}
	if !colorize {
		return label
	}
	switch level {
	case review.RiskHigh:
		return ansiRed + label + ansiReset
	case review.RiskMedium:
		return ansiYellow + label + ansiReset
	case review.RiskLow:
		return ansiBlue + label + ansiReset
	default:
		return label
	}
}

func statusLabel(status review.Status, colorize bool) string {
	label := string(status)
	if !colorize {
		return label
	}
	switch status {
	case review.StatusApproved:
		return ansiGreen + label + ansiReset
	case review.StatusRejected:
		return ansiRed + label + ansiReset
	default:
		return label
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if max <= 0 || len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func printItemDetail(out io.Writer, item *review.Item, colorize bool) {
	fmt.Fprintf(out, "ID:        %s\n", item.ID)
	fmt.Fprintf(out, "Status:    %s\n", statusLabel(item.Status, colorize))
	fmt.Fprintf(out, "Risk:      %s\n", riskLabel(item.RiskLevel, colorize))
	if len(item.FlaggedTerms) > 0 {
		fmt.Fprintf(out, "Flagged:   %s\n", strings.Join(item.FlaggedTerms, ", "))
	}
	fmt.Fprintf(out, "Author:    %s\n", item.AuthorName)
	fmt.Fprintf(out, "Title:     %s\n", item.Title)
	fmt.Fprintf(out, "Submitted: %s\n", formatTimestamp(item.SubmittedAt))
	fmt.Fprintf(out, "Words:     %d\n", item.WordCount)
	if item.DecidedAt != nil {
		fmt.Fprintf(out, "Decided:   %s by %s\n", formatTimestamp(*item.DecidedAt), item.DecidedBy)
	}
	if item.DecisionReason != "" {
		fmt.Fprintf(out, "Reason:    %s\n", item.DecisionReason)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, item.Body)
}

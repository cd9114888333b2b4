package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"modq/internal/config"
	"modq/internal/logging"
	"modq/internal/review"
	"modq/internal/window"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Work through the pending queue interactively",
		Long: "Work through the pending queue interactively. The session keeps a " +
			"small window of pending items topped up as decisions are made and " +
			"reconciles with the store on a fixed interval.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file, ok := cmd.InOrStdin().(*os.File); ok {
				fd := file.Fd()
				if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
					return errors.New("review needs an interactive terminal (use pending/approve/reject for scripting)")
				}
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			logger, err := sessionLogger(cfg)
			if err != nil {
				return err
			}

			session := &reviewSession{
				out:      cmd.OutOrStdout(),
				colorize: shouldColorize(cmd.OutOrStdout()),
				manager:  window.NewManager(client, cfg.Reviewer.QueueCapacity, logger),
			}
			session.detail = window.NewDetailController(client)
			session.controller = window.NewController(client, session.manager, session.detail, logger)

			interval := time.Duration(cfg.Reviewer.StatsPollInterval) * time.Second
			scheduler := window.NewScheduler(client, session.manager, interval, logger)
			scheduler.Start(cmd.Context())
			defer scheduler.Stop()

			if err := session.manager.LoadInitial(cmd.Context()); err != nil {
				fmt.Fprintf(session.out, "Item store unavailable: %v\n", err)
				fmt.Fprintln(session.out, "Use `l` to retry once the store is reachable.")
			}

			return session.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

// sessionLogger writes to the log file only so structured records do not
// interleave with the interactive display.
func sessionLogger(cfg *config.Config) (*slog.Logger, error) {
	if cfg.Paths.LogDir == "" {
		return logging.NewNop(), nil
	}
	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	logPath := filepath.Join(cfg.Paths.LogDir, "modq.log")
	return logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           "json",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
}

type reviewSession struct {
	out        io.Writer
	colorize   bool
	manager    *window.Manager
	controller *window.Controller
	detail     *window.DetailController
}

func (s *reviewSession) run(ctx context.Context, in io.Reader) error {
	s.render()
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "q", "quit", "exit":
			return nil
		case "h", "help", "?":
			s.printHelp()
		case "l", "reload":
			if err := s.manager.LoadInitial(ctx); err != nil {
				fmt.Fprintf(s.out, "Reload failed: %v\n", err)
				continue
			}
			s.render()
		case "s", "show":
			s.showDetail(ctx, fields[1:])
		case "b", "back":
			s.detail.Close()
			s.render()
		case "a", "approve":
			s.decide(ctx, fields[1:], review.OutcomeApprove, "")
		case "r", "reject":
			reason := ""
			if len(fields) > 2 {
				reason = strings.Join(fields[2:], " ")
			}
			s.decide(ctx, fields[1:], review.OutcomeReject, reason)
		default:
			fmt.Fprintf(s.out, "Unknown command %q (h for help)\n", fields[0])
		}
	}
}

func (s *reviewSession) render() {
	items := s.manager.Items()
	if !s.manager.Loaded() {
		fmt.Fprintln(s.out, "No items to display; the item store could not be reached.")
		return
	}
	if len(items) == 0 {
		fmt.Fprintln(s.out, "Queue is clear; nothing pending.")
		return
	}
	fmt.Fprintln(s.out, renderTable(pendingHeaders, pendingRows(items, s.colorize), pendingAligns))
	fmt.Fprintf(s.out, "Showing %d of %d pending\n", len(items), s.manager.ServerTotal())
}

func (s *reviewSession) printHelp() {
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintln(s.out, "  a <n>            approve item n")
	fmt.Fprintln(s.out, "  r <n> [reason]   reject item n")
	fmt.Fprintln(s.out, "  s <n>            show item n in full")
	fmt.Fprintln(s.out, "  b                close the detail view")
	fmt.Fprintln(s.out, "  l                reload the window")
	fmt.Fprintln(s.out, "  q                quit")
}

// resolveIndex maps a 1-based window position to the item id it holds.
func (s *reviewSession) resolveIndex(args []string) (string, bool) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Item number required")
		return "", false
	}
	n, err := strconv.Atoi(args[0])
	items := s.manager.Items()
	if err != nil || n < 1 || n > len(items) {
		fmt.Fprintf(s.out, "No item %q in the window (1-%d)\n", args[0], len(items))
		return "", false
	}
	return items[n-1].ID, true
}

func (s *reviewSession) showDetail(ctx context.Context, args []string) {
	id, ok := s.resolveIndex(args)
	if !ok {
		return
	}
	item, err := s.detail.Open(ctx, id)
	if err != nil {
		fmt.Fprintf(s.out, "Could not load item: %v\n", err)
		return
	}
	fmt.Fprintln(s.out)
	printItemDetail(s.out, item, s.colorize)
	fmt.Fprintln(s.out)
}

func (s *reviewSession) decide(ctx context.Context, args []string, outcome review.Outcome, reason string) {
	id, ok := s.resolveIndex(args)
	if !ok {
		return
	}
	item, err := s.controller.Decide(ctx, id, outcome, reason)
	if err != nil {
		fmt.Fprintln(s.out, decisionError(err, shortID(id)).Error())
		return
	}
	fmt.Fprintf(s.out, "%s: %s\n", statusLabel(item.Status, s.colorize), itemSummary(item))
	s.render()
}

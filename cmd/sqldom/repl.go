package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newReplCmd(opts *options) *cobra.Command {
	var historyFile string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Build and run queries interactively",
		Long: "Starts an interactive query builder. When stdin is not a terminal the\n" +
			"commands are read from it one per line and the first failing command\n" +
			"stops the run.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := NewSession(*opts.cfg, opts.logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			if opts.cfg.DSN != "" {
				if err := sess.Execute(ctx, "connect"); err != nil {
					opts.logger.Warn("configured dsn not connected", "error", err)
				}
			}

			if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				return runInteractive(ctx, sess, historyFile, cmd.ErrOrStderr())
			}
			return runScript(ctx, sess, cmd.InOrStdin())
		},
	}
	cmd.Flags().StringVar(&historyFile, "history", historyPath(), "history file, empty to disable")
	return cmd
}

func isExit(line string) bool {
	lower := strings.ToLower(line)
	return lower == "exit" || lower == "quit"
}

// runScript executes one command per line. Blank lines and lines starting
// with # or -- are skipped.
func runScript(ctx context.Context, sess *Session, in io.Reader) error {
	sc := bufio.NewScanner(in)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "--") {
			continue
		}
		if isExit(line) {
			return nil
		}
		if err := sess.Execute(ctx, line); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

func runInteractive(ctx context.Context, sess *Session, history string, errOut io.Writer) error {
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          prompt(sess),
		HistoryFile:     history,
		HistoryLimit:    500,
		AutoComplete:    &replCompleter{sess: sess},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(sess.out, "sqldom "+version+": type 'help' for commands, 'exit' to quit")
	for ctx.Err() == nil {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if isExit(line) {
			break
		}
		if err := sess.Execute(ctx, line); err != nil {
			_, _ = fmt.Fprintf(errOut, "  Error: %v\n", err)
		}
		rl.SetPrompt(prompt(sess))
	}
	return nil
}

func prompt(sess *Session) string {
	p := "sqldom(" + sess.cfg.Provider
	if sess.conn != nil {
		p += "*"
	}
	return p + ")> "
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sqldom_history")
}

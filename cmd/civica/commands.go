package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/civica/civica/internal/content"
	"github.com/civica/civica/internal/progress"
)

func newProgressCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show XP, scores, and completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTracker(cmd.Context(), func(t *progress.Tracker) error {
				p, err := t.Progress(cmd.Context())
				if err != nil {
					fmt.Fprintf(a.out, "warning: %v; showing defaults\n", err)
				}
				printProgress(a.out, p)
				return nil
			})
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Erase all progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTracker(cmd.Context(), func(t *progress.Tracker) error {
				if err := t.ResetProgress(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Progress reset.")
				return nil
			})
		},
	}
}

func newLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file>",
		Short: "Check a content file for schema and answer-key problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading content file: %w", err)
			}

			err = content.Lint(data, content.FormatForPath(path))
			var lintErr *content.LintError
			if errors.As(err, &lintErr) {
				for _, issue := range lintErr.Issues {
					fmt.Fprintf(a.out, "%s: %s\n", path, issue)
				}
				return fmt.Errorf("%d issue(s) found", len(lintErr.Issues))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s: ok\n", path)
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write all questions and answer keys to a spreadsheet for review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := a.bank()
			if err != nil {
				return err
			}
			return exportTo(args[0], bank)
		},
	}
}

func exportTo(path string, bank *content.Bank) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return content.ExportWorkbook(f, bank)
}

func printProgress(w io.Writer, p progress.UserProgress) {
	fmt.Fprintf(w, "Total XP:        %d\n", p.TotalXP)
	fmt.Fprintf(w, "Answers:         %d correct, %d incorrect\n", p.TotalCorrect, p.TotalIncorrect)
	for _, st := range content.SimulationTypes {
		fmt.Fprintf(w, "%-16s %s\n", st.String()+":", scoreLine(p.SimulationCompleted(st), p.SimulationScore(st)))
	}
	fmt.Fprintf(w, "%-16s %s\n", "citizen quiz:", scoreLine(p.CitizenQuizCompleted, p.CitizenQuizScore))
	if p.CitizenBadge != progress.BadgeNone {
		fmt.Fprintf(w, "Badge:           %s\n", p.CitizenBadge)
	}
	fmt.Fprintf(w, "Completion:      %d%%\n", progress.CompletionPercent(p))
}

func scoreLine(completed bool, score int) string {
	if !completed {
		return "not attempted"
	}
	return fmt.Sprintf("%d%%", score)
}

// ctxErr reports whether the command was interrupted.
func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted: %w", err)
	}
	return nil
}

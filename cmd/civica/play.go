package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/civica/civica/internal/content"
	"github.com/civica/civica/internal/progress"
	"github.com/civica/civica/internal/session"
)

var errAbandoned = errors.New("session abandoned; nothing recorded")

func newPlayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "play [fir|arrest|remand|citizen]",
		Short:     "Play a simulation or the citizen quiz",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"fir", "arrest", "remand", "citizen"},
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := a.bank()
			if err != nil {
				return err
			}

			var name string
			if len(args) == 1 {
				name = args[0]
			}
			s, err := newPlaySession(a.out, bank, name)
			if err != nil {
				return err
			}

			if err := runSession(cmd, a.in, a.out, s); err != nil {
				return err
			}

			return a.withTracker(cmd.Context(), func(t *progress.Tracker) error {
				p, err := s.Record(cmd.Context(), t)
				if errors.Is(err, progress.ErrNotPersisted) {
					fmt.Fprintln(a.out, "\nwarning: progress could not be saved; this result will not be kept")
				} else if err != nil {
					return err
				}
				fmt.Fprintln(a.out)
				printProgress(a.out, p)
				return nil
			})
		},
	}
}

func newPlaySession(w io.Writer, bank *content.Bank, name string) (*session.Session, error) {
	if name == "citizen" {
		fmt.Fprintln(w, "Citizen Rights Quiz")
		return session.NewCitizenQuiz(bank)
	}

	st, err := content.ParseSimulationType(name)
	if err != nil {
		return nil, err
	}
	ds, err := bank.SimulationDataset(st)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(w, ds.Title)
	if ds.Description != "" {
		fmt.Fprintln(w, ds.Description)
	}
	if ds.ConstitutionalBasis != "" {
		fmt.Fprintf(w, "Basis: %s\n", ds.ConstitutionalBasis)
	}
	return session.NewSimulation(bank, st)
}

// runSession drives s to Finished from line-oriented input.
func runSession(cmd *cobra.Command, in io.Reader, out io.Writer, s *session.Session) error {
	scanner := bufio.NewScanner(in)
	if err := s.Start(); err != nil {
		return err
	}

	for {
		if err := ctxErr(cmd.Context()); err != nil {
			return err
		}
		q, err := s.Current()
		if err != nil {
			return err
		}
		printQuestion(out, s.Index(), s.Len(), q)

		if err := readSelection(scanner, out, s, q); err != nil {
			return err
		}
		res, err := s.Submit()
		if err != nil {
			return err
		}
		printResult(out, res)

		if s.IsLast() {
			break
		}
		if err := s.Next(); err != nil {
			return err
		}
	}

	if _, err := s.Finish(); err != nil {
		return err
	}
	printSummary(out, s.Summary())
	return nil
}

func readSelection(scanner *bufio.Scanner, out io.Writer, s *session.Session, q content.Question) error {
	for {
		fmt.Fprint(out, "Your answer: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading answer: %w", err)
			}
			fmt.Fprintln(out)
			return errAbandoned
		}

		choice := norm.NFC.String(strings.ToLower(strings.TrimSpace(scanner.Text())))
		if choice == "" {
			continue
		}
		err := s.Select(choice)
		if errors.Is(err, session.ErrUnknownOption) {
			fmt.Fprintf(out, "Choose one of: %s\n", optionIDs(q))
			continue
		}
		return err
	}
}

func printQuestion(w io.Writer, index, total int, q content.Question) {
	fmt.Fprintf(w, "\nQuestion %d/%d\n", index+1, total)
	if q.Scenario != "" && q.Question != "" {
		fmt.Fprintln(w, q.Scenario)
		fmt.Fprintln(w, q.Question)
	} else {
		fmt.Fprintln(w, q.Prompt())
	}
	for _, opt := range q.Options {
		fmt.Fprintf(w, "  %s) %s\n", opt.ID, opt.Text)
	}
}

func printResult(w io.Writer, res content.ValidationResult) {
	if res.IsCorrect {
		fmt.Fprintln(w, "Correct!")
	} else if res.CorrectOptionID != "" {
		fmt.Fprintf(w, "Incorrect. The answer was %s.\n", res.CorrectOptionID)
	} else {
		fmt.Fprintln(w, "Incorrect.")
	}
	if res.Explanation != "" {
		fmt.Fprintln(w, res.Explanation)
	}
	if res.Article != "" {
		fmt.Fprintf(w, "Law: %s\n", res.Article)
	}
	if res.Consequence != "" {
		fmt.Fprintf(w, "Consequence: %s\n", res.Consequence)
	}
}

func printSummary(w io.Writer, sum progress.Summary) {
	fmt.Fprintf(w, "\n%s: %d/%d correct (%d%%), +%d XP\n", sum.Grade, sum.Correct, sum.Total, sum.Percent, sum.XPEarned)
	if sum.Badge != progress.BadgeNone {
		fmt.Fprintf(w, "Badge earned: %s\n", sum.Badge)
	}
}

func optionIDs(q content.Question) string {
	ids := make([]string, len(q.Options))
	for i, opt := range q.Options {
		ids[i] = opt.ID
	}
	return strings.Join(ids, ", ")
}

// Command civica is the terminal front end: play a simulation or the citizen
// quiz, inspect or reset progress, and maintain content files.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/civica/civica/internal/content"
	"github.com/civica/civica/internal/platform/config"
	"github.com/civica/civica/internal/platform/storage"
	"github.com/civica/civica/internal/progress"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app carries settings shared by every subcommand.
type app struct {
	in  io.Reader
	out io.Writer

	contentPath string
	driver      string
	sqlitePath  string
	key         string
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	root := &cobra.Command{
		Use:           "civica",
		Short:         "Practice legal procedures and track your progress",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.contentPath, "content", "", "content file (JSON or YAML); defaults to CIVICA_CONTENT_PATH or the bundled set")
	flags.StringVar(&a.driver, "store", "", "progress store driver; defaults to CIVICA_STORE_DRIVER")
	flags.StringVar(&a.sqlitePath, "sqlite-path", "", "SQLite file; defaults to CIVICA_SQLITE_PATH")
	flags.StringVar(&a.key, "key", "", "progress record key; defaults to CIVICA_STORE_KEY")

	root.AddCommand(
		newPlayCmd(a),
		newProgressCmd(a),
		newResetCmd(a),
		newLintCmd(a),
		newExportCmd(a),
	)
	return root
}

// config loads environment settings and applies flag overrides.
func (a *app) config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if a.contentPath != "" {
		cfg.ContentPath = a.contentPath
	}
	if a.driver != "" {
		cfg.Store.Driver = a.driver
	}
	if a.sqlitePath != "" {
		cfg.Store.SQLitePath = a.sqlitePath
	}
	if a.key != "" {
		cfg.Store.Key = a.key
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) bank() (*content.Bank, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return content.LoadBank(cfg.ContentPath)
}

// withTracker opens the configured store for the duration of fn.
func (a *app) withTracker(ctx context.Context, fn func(*progress.Tracker) error) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Warn("closing store", "error", err)
		}
	}()
	return fn(backend.Tracker(cfg.Store.Key))
}

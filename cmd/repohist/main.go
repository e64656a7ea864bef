// Command repohist inspects and edits a recent-repositories history.
//
// Usage:
//
//	repohist [flags] list
//	repohist [flags] add <path>
//	repohist [flags] remove <path>
//	repohist [flags] trim
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/billy"
	"github.com/jmgilman/go/repohistory"
	"github.com/jmgilman/go/repohistory/settings"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("repohist", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", settings.DefaultSettingsPath(), "path to settings YAML")
	maxSize := flags.Int("max", -1, "override the maximum history size")
	verbose := flags.Bool("v", false, "enable debug logging")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: repohist [flags] list | add <path> | remove <path> | trim")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	if err := execute(ctx, logger, *configPath, *maxSize, flags.Args(), stdout); err != nil {
		logger.Error("command failed", "error", err, "code", errors.GetCode(err))
		return 1
	}
	return 0
}

func execute(ctx context.Context, logger *slog.Logger, configPath string, maxSize int, args []string, stdout io.Writer) error {
	configPath, err := filepath.Abs(configPath)
	if err != nil {
		return errors.Wrap(err, errors.CodeInvalidConfig, "failed to resolve settings path")
	}

	cfg, err := settings.Load(billy.NewLocal(), configPath)
	if err != nil {
		return err
	}

	live := settings.NewLive(cfg)
	if maxSize >= 0 {
		live.SetMaxHistorySize(maxSize)
	}

	store, closeStore, err := openStorage(cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	key := cfg.Store.Key
	if key == "" {
		key = repohistory.HistoryKey
	}

	mgr := repohistory.New(store, live.SizeFunc(),
		repohistory.WithKey(key),
		repohistory.WithLogger(logger),
	)

	command, rest := args[0], args[1:]
	switch command {
	case "list":
		if len(rest) != 0 {
			return errors.New(errors.CodeInvalidInput, "list takes no arguments")
		}
		entries, err := mgr.Load(ctx)
		if err != nil {
			return err
		}
		printEntries(stdout, entries)

	case "add":
		if len(rest) != 1 {
			return errors.New(errors.CodeInvalidInput, "add requires exactly one path")
		}
		entries, err := mgr.AddAsMostRecent(ctx, rest[0])
		if err != nil {
			return err
		}
		printEntries(stdout, entries)

	case "remove":
		if len(rest) != 1 {
			return errors.New(errors.CodeInvalidInput, "remove requires exactly one path")
		}
		entries, err := mgr.RemoveRecent(ctx, rest[0])
		if err != nil {
			return err
		}
		printEntries(stdout, entries)

	case "trim":
		if len(rest) != 0 {
			return errors.New(errors.CodeInvalidInput, "trim takes no arguments")
		}
		entries, err := store.Load(ctx, key)
		if err != nil {
			return err
		}
		if entries == nil {
			entries = []repohistory.Entry{}
		}
		if err := mgr.Save(ctx, entries); err != nil {
			return err
		}
		logger.Info("trimmed history", "before", len(entries), "limit", live.MaxHistorySize())

	default:
		return errors.Newf(errors.CodeInvalidInput, "unknown command: %q", command)
	}

	return nil
}

func printEntries(w io.Writer, entries []repohistory.Entry) {
	for i, entry := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i, entry.Path, entry.Category)
	}
}

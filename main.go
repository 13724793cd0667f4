// dataguard - A terminal dashboard for reviewing sensitive-data detections.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/dataguard/internal/cli"
	"github.com/morganforge/dataguard/internal/config"
	"github.com/morganforge/dataguard/internal/feed"
	"github.com/morganforge/dataguard/internal/logging"
	"github.com/morganforge/dataguard/internal/scan"
	"github.com/morganforge/dataguard/internal/ui/components"
	"github.com/morganforge/dataguard/internal/ui/dashboard"
	"github.com/morganforge/dataguard/internal/ui/styles"
	"github.com/morganforge/dataguard/internal/worklist"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	cmd, args, err := cli.Parse(argv)
	if err != nil {
		cli.DisplayError(os.Stderr, "dataguard", err, args.JSON)
		return cli.GetExitCode(err)
	}

	cfg, err := loadConfig(args)
	if err != nil {
		cli.DisplayError(os.Stderr, cmd.String(), err, args.JSON)
		return cli.GetExitCode(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := &cli.Env{
		Config:    cfg,
		Logger:    cliLogger(cfg, args),
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Now:       time.Now,
		Highlight: cli.IsStdoutTTY() && cli.ColorsEnabled(),
	}

	switch cmd {
	case cli.CmdTUI:
		err = runTUI(ctx, env, args)
	case cli.CmdList:
		err = cli.HandleList(ctx, env, args)
	case cli.CmdScan:
		err = cli.HandleScan(ctx, env, args)
	case cli.CmdReview:
		err = cli.HandleReview(ctx, env, args)
	case cli.CmdConfig:
		err = cli.HandleConfig(env, args)
	case cli.CmdVersion:
		err = cli.HandleVersion(env, args)
	case cli.CmdHelp:
		err = cli.HandleHelp(env)
	default:
		err = runTUI(ctx, env, args)
	}

	if err != nil {
		cli.DisplayError(os.Stderr, cmd.String(), err, args.JSON)
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}

// loadConfig reads --config when given, else the default locations. A
// missing --config file yields defaults so "config init" can create it.
func loadConfig(args cli.Args) (*config.Config, error) {
	if args.ConfigPath != "" {
		if _, err := os.Stat(args.ConfigPath); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return config.LoadFromPath(args.ConfigPath)
	}
	cfg, err := config.Load()
	if cfg != nil && err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", styles.StatusIndicators.Warning, err)
		return cfg, nil
	}
	return cfg, err
}

// cliLogger logs to stderr only when asked; the commands own stdout.
func cliLogger(cfg *config.Config, args cli.Args) *slog.Logger {
	if args.Verbose {
		level := cfg.Log.Level
		if level == "info" {
			level = "debug"
		}
		return logging.ToStderr(level)
	}
	return logging.Discard()
}

// runTUI starts the dashboard. While it owns the terminal, logs go to the
// configured log file.
func runTUI(ctx context.Context, env *cli.Env, args cli.Args) error {
	if err := cli.RequiresTTY("open the dashboard"); err != nil {
		return err
	}
	cfg := env.Config

	logger, closer, err := logging.ToFile(cfg.LogPath(), cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s logging disabled: %v\n", styles.StatusIndicators.Warning, err)
		logger, closer = logging.Discard(), io.NopCloser(nil)
	}
	defer closer.Close()
	env.Logger = logger

	journal, err := cli.OpenJournal(cfg, env)
	if err != nil {
		logger.Warn("audit journal unavailable", "error", err)
	}
	if journal != nil {
		defer journal.Close()
		logger.Info("audit journal open", "path", journal.Path(), "session", journal.SessionID())
	}

	sources := env.Sources(args)
	ds, err := cli.LoadDetections(cli.RecordClamps(ctx, env, journal), env, sources)
	if err != nil {
		return err
	}

	toasts := components.NewToastManager()
	sinks := worklist.Notifier(toasts)
	if journal != nil {
		sinks = worklist.MultiNotifier{toasts, journal}
	}
	wl := worklist.New(sinks, worklist.WithLogger(logger))
	if _, err := wl.Load(ds); err != nil {
		return &cli.FeedError{Err: err}
	}

	history := scan.NewHistory(cfg.Scan.HistorySize)
	scan.SeedDemo(history, time.Now())

	var watcher *feed.Watcher
	if cfg.Feed.Watch {
		if paths := feed.WatchPaths(sources); len(paths) > 0 {
			watcher, err = feed.NewWatcher(paths, 0, logger)
			if err != nil {
				logger.Warn("feed watcher unavailable", "error", err)
				watcher = nil
			} else {
				defer watcher.Close()
			}
		}
	}

	m := dashboard.New(dashboard.Deps{
		Worklist: wl,
		Toasts:   toasts,
		Simulator: scan.NewSimulator(
			scan.WithInterval(cfg.Scan.Interval()),
			scan.WithMaxIncrement(cfg.Scan.MaxIncrement),
		),
		History:  history,
		Journal:  journal,
		Watcher:  watcher,
		Theme:    styles.NewTheme(cfg.UI.Theme),
		Logger:   logger,
		Context:  ctx,
		Compact:  cfg.UI.Compact,
		ShowHelp: cfg.UI.ShowHelp,
	})

	logger.Info("dashboard starting", "detections", wl.Len(), "sources", len(sources))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("dashboard: %w", err)
	}

	st := wl.Stats()
	logger.Info("dashboard closed", "encrypted", st.Encrypted, "ignored", st.Ignored, "remaining", st.Remaining)
	return nil
}

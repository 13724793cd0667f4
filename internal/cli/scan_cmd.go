// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/morganforge/dataguard/internal/audit"
	"github.com/morganforge/dataguard/internal/scan"
	"github.com/morganforge/dataguard/internal/ui/styles"
)

// ScanData is the --json payload of the scan command.
type ScanData struct {
	Kind       string  `json:"kind"`
	Run        uint64  `json:"run"`
	State      string  `json:"state"`
	Progress   float64 `json:"progress"`
	Ticks      int     `json:"ticks"`
	DurationMS int64   `json:"duration_ms"`
}

// HandleScan runs one simulated scan to completion, drawing progress on
// stderr. Canceling ctx aborts the run.
func HandleScan(ctx context.Context, env *Env, args Args) error {
	p := args.Parser
	if p == nil {
		p = NewArgParser(nil)
	}
	kind, err := scan.ParseKind(p.FlagOrDefault("kind", string(scan.Quick)))
	if err != nil {
		return &UsageError{Field: "--kind", Value: p.Flag("kind"), Reason: "must be quick, full or custom"}
	}

	sim := scan.NewSimulator(
		scan.WithInterval(env.Config.Scan.Interval()),
		scan.WithMaxIncrement(env.Config.Scan.MaxIncrement),
	)

	j, err := OpenJournal(env.Config, env)
	if err != nil {
		env.Logger.Warn("audit journal unavailable", "error", err)
	}
	if j != nil {
		defer j.Close()
	}

	data, err := RunScan(ctx, env, sim, kind, j, !args.JSON && !args.Quiet)
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("scan", data).Write(env.Stdout, env.Highlight)
	}
	fmt.Fprintln(env.Stdout, styles.RenderSuccess(fmt.Sprintf("%s completed in %s",
		kind.Info().Title, time.Duration(data.DurationMS)*time.Millisecond)))
	return nil
}

// RunScan drives sim through one run of kind. When draw is set, a progress
// bar is redrawn on stderr after every tick.
func RunScan(ctx context.Context, env *Env, sim *scan.Simulator, kind scan.Kind, j *audit.Journal, draw bool) (ScanData, error) {
	start := env.Now()
	data := ScanData{Kind: string(kind)}

	var runLabel string
	onUpdate := func(s scan.Snapshot) {
		if runLabel == "" {
			data.Run = uint64(s.Run)
			runLabel = strconv.FormatUint(data.Run, 10)
			if j != nil {
				if err := j.ScanStarted(runLabel, string(kind)); err != nil {
					env.Logger.Warn("audit scan start", "error", err)
				}
			}
		} else {
			data.Ticks++
		}
		if draw {
			fmt.Fprintf(env.Stderr, "\r%s %s %3d%%", kind.Info().Title,
				styles.RenderBar(30, s.Percent()), s.Percent())
		}
	}

	snap, err := sim.Run(ctx, onUpdate)
	if draw {
		fmt.Fprintln(env.Stderr)
	}

	data.State = snap.State.String()
	data.Progress = snap.Progress
	data.DurationMS = env.Now().Sub(start).Milliseconds()

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			env.Logger.Info("scan canceled", "kind", kind, "progress", snap.Progress)
		}
		return data, err
	}
	if j != nil {
		if err := j.ScanCompleted(runLabel, string(kind), 0); err != nil {
			env.Logger.Warn("audit scan complete", "error", err)
		}
	}
	env.Logger.Info("scan completed", "kind", kind, "ticks", data.Ticks)
	return data, nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"

	"github.com/morganforge/dataguard/internal/audit"
	"github.com/morganforge/dataguard/internal/config"
	"github.com/morganforge/dataguard/internal/detection"
	"github.com/morganforge/dataguard/internal/feed"
	"github.com/morganforge/dataguard/internal/worklist"
)

// LoadDetections opens every feed spec and loads them concurrently.
func LoadDetections(ctx context.Context, env *Env, specs []string) ([]detection.Detection, error) {
	sources, err := feed.OpenAll(specs, env.Logger)
	if err != nil {
		return nil, &FeedError{Err: err}
	}
	ds, err := feed.LoadAll(ctx, sources...)
	if err != nil {
		return nil, &FeedError{Err: err}
	}
	env.Logger.Debug("detections loaded", "count", len(ds), "sources", len(sources))
	return ds, nil
}

// OpenJournal opens the audit journal when auditing is enabled. It returns
// nil without error when disabled.
func OpenJournal(cfg *config.Config, env *Env) (*audit.Journal, error) {
	if !cfg.Audit.Enabled {
		return nil, nil
	}
	j, err := audit.Open(cfg.AuditPath(), env.Logger)
	if err != nil {
		return nil, err
	}
	j.SetMaxSize(int64(cfg.Audit.MaxSizeMB) * 1024 * 1024)
	return j, nil
}

// RecordClamps returns a context under which feed loads write every clamped
// confidence to j. A nil j returns ctx unchanged.
func RecordClamps(ctx context.Context, env *Env, j *audit.Journal) context.Context {
	if j == nil {
		return ctx
	}
	return feed.WithClampFunc(ctx, func(d detection.Detection, raw float64) {
		if err := j.ConfidenceClamped(d, raw); err != nil {
			env.Logger.Warn("audit confidence clamp", "id", d.ID, "error", err)
		}
	})
}

// NewWorklist loads ds into a worklist that notifies n and, when non-nil,
// the journal.
func NewWorklist(env *Env, ds []detection.Detection, j *audit.Journal, n worklist.Notifier) (*worklist.Worklist, error) {
	sinks := worklist.MultiNotifier{n}
	if j != nil {
		sinks = append(sinks, j)
	}
	wl := worklist.New(sinks, worklist.WithLogger(env.Logger), worklist.WithClock(env.Now))
	if _, err := wl.Load(ds); err != nil {
		return nil, &FeedError{Err: err}
	}
	return wl, nil
}

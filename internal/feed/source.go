// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/morganforge/dataguard/internal/detection"
)

// ErrUnsupportedFormat is returned for a spec that names no known source kind.
var ErrUnsupportedFormat = errors.New("unsupported feed format")

// =============================================================================
// SOURCE
// =============================================================================

// Source produces a batch of detections.
type Source interface {
	Load(ctx context.Context) ([]detection.Detection, error)
	Name() string
}

// Open builds a Source from a spec string.
func Open(spec string, logger *slog.Logger) (Source, error) {
	spec = strings.TrimSpace(spec)
	if logger == nil {
		logger = slog.Default()
	}

	switch {
	case spec == "" || strings.EqualFold(spec, "demo"):
		return Demo{}, nil
	case strings.HasPrefix(spec, "sqlite:"):
		return NewSQLite(strings.TrimPrefix(spec, "sqlite:"), logger), nil
	}

	switch strings.ToLower(filepath.Ext(spec)) {
	case ".json", ".yaml", ".yml":
		return NewFile(spec, logger), nil
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLite(spec, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, spec)
	}
}

// OpenAll builds a Source for each spec.
func OpenAll(specs []string, logger *slog.Logger) ([]Source, error) {
	if len(specs) == 0 {
		return []Source{Demo{}}, nil
	}
	sources := make([]Source, 0, len(specs))
	for _, spec := range specs {
		src, err := Open(spec, logger)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// LoadAll loads every source concurrently and concatenates the results in
// source order. The first failure cancels the rest.
func LoadAll(ctx context.Context, sources ...Source) ([]detection.Detection, error) {
	results := make([][]detection.Detection, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			ds, err := src.Load(gctx)
			if err != nil {
				return fmt.Errorf("load %s: %w", src.Name(), err)
			}
			results[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, ds := range results {
		total += len(ds)
	}
	out := make([]detection.Detection, 0, total)
	for _, ds := range results {
		out = append(out, ds...)
	}
	return out, nil
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// record is the loose on-disk shape shared by the file and SQLite sources.
type record struct {
	ID         string  `json:"id" yaml:"id"`
	Timestamp  string  `json:"timestamp" yaml:"timestamp"`
	Value      string  `json:"value" yaml:"value"`
	Type       string  `json:"type" yaml:"type"`
	Source     string  `json:"source" yaml:"source"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ClampFunc observes a record whose confidence was forced into [0,1].
// raw is the value the feed supplied.
type ClampFunc func(d detection.Detection, raw float64)

type clampKey struct{}

// WithClampFunc returns a context under which Load calls fn for every
// clamped record.
func WithClampFunc(ctx context.Context, fn ClampFunc) context.Context {
	return context.WithValue(ctx, clampKey{}, fn)
}

// StableID derives an id from the source label and raw value. Repeats of
// the same pair within one feed get a "-N" suffix from the second on.
func StableID(source, value string) string {
	sum := blake2b.Sum256([]byte(source + "\x00" + value))
	return hex.EncodeToString(sum[:8])
}

// normalize turns a record into a Detection, clamping confidence and
// filling a missing id. origin names the feed for log lines.
func normalize(ctx context.Context, r record, origin string, logger *slog.Logger) (detection.Detection, error) {
	t, err := detection.ParseType(r.Type)
	if err != nil {
		return detection.Detection{}, err
	}
	ts, err := parseTimestamp(r.Timestamp)
	if err != nil {
		return detection.Detection{}, err
	}

	conf, clamped := detection.ClampConfidence(r.Confidence)
	id := strings.TrimSpace(r.ID)
	if id == "" {
		id = StableID(r.Source, r.Value)
	}
	if clamped {
		logger.Warn("confidence clamped",
			"feed", origin, "id", id, "raw", r.Confidence, "clamped", conf)
	}

	d := detection.Detection{
		ID:         id,
		Timestamp:  ts,
		Value:      r.Value,
		Type:       t,
		Source:     r.Source,
		Confidence: conf,
	}
	if err := d.Validate(); err != nil {
		return detection.Detection{}, err
	}
	if clamped {
		if fn, ok := ctx.Value(clampKey{}).(ClampFunc); ok {
			fn(d, r.Confidence)
		}
	}
	return d, nil
}

func normalizeAll(ctx context.Context, rs []record, origin string, logger *slog.Logger) ([]detection.Detection, error) {
	out := make([]detection.Detection, 0, len(rs))
	derived := make(map[string]int)
	for i, r := range rs {
		if strings.TrimSpace(r.ID) == "" {
			r.ID = StableID(r.Source, r.Value)
			derived[r.ID]++
			if n := derived[r.ID]; n > 1 {
				r.ID = fmt.Sprintf("%s-%d", r.ID, n)
			}
		}
		d, err := normalize(ctx, r, origin, logger)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package worklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/morganforge/dataguard/internal/detection"
)

// ErrDuplicateID is returned by Load when two records share an id.
var ErrDuplicateID = errors.New("duplicate detection id")

// =============================================================================
// WORKLIST
// =============================================================================

// Worklist is the set of unresolved detections for one session.
// It is safe for concurrent use; all mutations are serialized.
type Worklist struct {
	// order holds ids in insertion order
	order []string

	// items maps id to record
	items map[string]detection.Detection

	// resolved remembers every id removed this session
	resolved map[string]OutcomeKind

	notifier Notifier
	backend  EncryptionBackend
	logger   *slog.Logger
	now      func() time.Time

	stats Stats

	mu sync.Mutex
}

// Stats are running counters for the session.
type Stats struct {
	Loaded    int `json:"loaded"`
	Encrypted int `json:"encrypted"`
	Ignored   int `json:"ignored"`
	Remaining int `json:"remaining"`
}

// LoadReport describes what Load accepted.
type LoadReport struct {
	Loaded int
	// Skipped lists ids already resolved earlier in the session.
	Skipped []string
}

// Option configures a Worklist.
type Option func(*Worklist)

// WithBackend sets the encryption backend invoked on Encrypt.
func WithBackend(b EncryptionBackend) Option {
	return func(w *Worklist) {
		if b != nil {
			w.backend = b
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Worklist) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithClock overrides the outcome timestamp source.
func WithClock(now func() time.Time) Option {
	return func(w *Worklist) {
		if now != nil {
			w.now = now
		}
	}
}

// New creates an empty worklist reporting to n. A nil notifier discards events.
func New(n Notifier, opts ...Option) *Worklist {
	if n == nil {
		n = noopNotifier{}
	}
	w := &Worklist{
		items:    make(map[string]detection.Detection),
		resolved: make(map[string]OutcomeKind),
		notifier: n,
		backend:  noopBackend{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// =============================================================================
// LOAD
// =============================================================================

// Load replaces the contents with ds. The whole batch is rejected, leaving
// the previous contents untouched, if any record is invalid or any id repeats.
// Ids resolved earlier in the session are skipped rather than resurrected.
func (w *Worklist) Load(ds []detection.Detection) (LoadReport, error) {
	seen := make(map[string]struct{}, len(ds))
	for _, d := range ds {
		if err := d.Validate(); err != nil {
			return LoadReport{}, err
		}
		if _, dup := seen[d.ID]; dup {
			return LoadReport{}, fmt.Errorf("%w: %q", ErrDuplicateID, d.ID)
		}
		seen[d.ID] = struct{}{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var report LoadReport
	order := make([]string, 0, len(ds))
	items := make(map[string]detection.Detection, len(ds))
	for _, d := range ds {
		if _, done := w.resolved[d.ID]; done {
			report.Skipped = append(report.Skipped, d.ID)
			continue
		}
		order = append(order, d.ID)
		items[d.ID] = d
	}

	w.order = order
	w.items = items
	w.stats.Loaded += len(order)
	w.stats.Remaining = len(order)
	report.Loaded = len(order)

	if len(report.Skipped) > 0 {
		w.logger.Info("skipped resolved detections on load", "count", len(report.Skipped))
	}
	return report, nil
}

// =============================================================================
// REMOVAL
// =============================================================================

// Encrypt removes id and hands the record to the encryption backend.
// It returns false when id is not present.
func (w *Worklist) Encrypt(ctx context.Context, id string) (Outcome, bool) {
	return w.resolve(ctx, id, Encrypted)
}

// Ignore removes id without encrypting it.
// It returns false when id is not present.
func (w *Worklist) Ignore(ctx context.Context, id string) (Outcome, bool) {
	return w.resolve(ctx, id, Ignored)
}

// EncryptAll encrypts each listed id still present and returns how many
// were removed. A nil ids encrypts everything currently listed.
func (w *Worklist) EncryptAll(ctx context.Context, ids []string) int {
	if ids == nil {
		ids = w.IDs()
	}
	n := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if _, ok := w.Encrypt(ctx, id); ok {
			n++
		}
	}
	return n
}

func (w *Worklist) resolve(ctx context.Context, id string, kind OutcomeKind) (Outcome, bool) {
	d, ok := w.take(id, kind)
	if !ok {
		w.logger.Debug("resolve no-op", "id", id, "kind", kind)
		return Outcome{}, false
	}

	out := Outcome{Kind: kind, ID: id, Detection: d, At: w.now()}
	if kind == Encrypted {
		if err := w.backend.Encrypt(ctx, d); err != nil {
			out.Err = err
			w.logger.Warn("encryption backend failed", "id", id, "error", err)
		}
	}

	w.notifier.Notify(ctx, out)
	return out, true
}

// take removes id under the lock. Notification happens after it returns.
func (w *Worklist) take(id string, kind OutcomeKind) (detection.Detection, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	d, ok := w.items[id]
	if !ok {
		return detection.Detection{}, false
	}
	delete(w.items, id)
	if i := slices.Index(w.order, id); i >= 0 {
		w.order = slices.Delete(w.order, i, i+1)
	}
	w.resolved[id] = kind

	switch kind {
	case Encrypted:
		w.stats.Encrypted++
	case Ignored:
		w.stats.Ignored++
	}
	w.stats.Remaining = len(w.order)
	return d, true
}

// =============================================================================
// READS
// =============================================================================

// List returns a copy of the contents in insertion order.
func (w *Worklist) List() []detection.Detection {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]detection.Detection, len(w.order))
	for i, id := range w.order {
		out[i] = w.items[id]
	}
	return out
}

// IDs returns the current ids in insertion order.
func (w *Worklist) IDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.order)
}

// Get returns the record for id.
func (w *Worklist) Get(id string) (detection.Detection, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, ok := w.items[id]
	return d, ok
}

// Len returns the number of unresolved detections.
func (w *Worklist) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}

// Resolution reports how id was resolved this session, if it was.
func (w *Worklist) Resolution(id string) (OutcomeKind, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	k, ok := w.resolved[id]
	return k, ok
}

// Stats returns a snapshot of the session counters.
func (w *Worklist) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

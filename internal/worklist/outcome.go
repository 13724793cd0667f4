// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package worklist

import (
	"context"
	"time"

	"github.com/morganforge/dataguard/internal/detection"
)

// =============================================================================
// OUTCOME
// =============================================================================

// OutcomeKind names how a detection left the worklist.
type OutcomeKind string

const (
	// Encrypted means the operator asked for the value to be encrypted.
	Encrypted OutcomeKind = "encrypted"

	// Ignored means the operator dismissed the finding.
	Ignored OutcomeKind = "ignored"
)

// String returns the kind label.
func (k OutcomeKind) String() string {
	return string(k)
}

// Outcome is emitted once for every removal.
type Outcome struct {
	Kind      OutcomeKind
	ID        string
	Detection detection.Detection
	At        time.Time

	// Err carries an encryption backend failure. The record stays removed.
	Err error
}

// =============================================================================
// COLLABORATORS
// =============================================================================

// Notifier receives outcome events. Implementations must not call back into
// the Worklist that notified them from the same goroutine while holding
// their own locks.
type Notifier interface {
	Notify(ctx context.Context, o Outcome)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, o Outcome)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, o Outcome) {
	f(ctx, o)
}

// MultiNotifier fans an outcome out to several sinks in order.
type MultiNotifier []Notifier

// Notify forwards o to every non-nil sink.
func (m MultiNotifier) Notify(ctx context.Context, o Outcome) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, o)
		}
	}
}

// EncryptionBackend performs the real cryptographic work for an encrypted
// detection. The worklist only signals intent.
type EncryptionBackend interface {
	Encrypt(ctx context.Context, d detection.Detection) error
}

type noopBackend struct{}

func (noopBackend) Encrypt(context.Context, detection.Detection) error { return nil }

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Outcome) {}

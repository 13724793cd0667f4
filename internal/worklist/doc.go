// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package worklist holds the session's unresolved detections.
//
// A Worklist is the only mutable aggregate in dataguard. Records are loaded
// once from a feed and then removed one at a time by Encrypt or Ignore; no
// record is ever edited in place. Every removal emits exactly one Outcome to
// the configured Notifier. Removing an id that is not present is a silent
// no-op, so two racing actions on the same record resolve it once.
//
// Usage:
//
//	wl := worklist.New(toasts, worklist.WithBackend(vault))
//	if _, err := wl.Load(ds); err != nil { ... }
//	if out, ok := wl.Encrypt(ctx, "4"); ok { ... }
package worklist

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scan models the visible progress of a scan run.
//
// The Simulator is a small state machine (Idle, Running, Completed) that
// advances a percentage by a bounded random step on every tick. It does not
// scan anything; the real scanner is an external process. Each Start opens
// a new run generation and ticks carrying an older RunID are dropped, so a
// superseded timer can never move the current run.
//
// History keeps a bounded list of recent runs for the Scans view.
package scan

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard is the Bubble Tea application for the dataguard TUI.
//
// It has two pages. Monitoring lists the open detections with search, type
// tabs and the Encrypt/Ignore actions. Scans starts simulated scan runs and
// shows their progress and recent history.
//
// The model owns no domain rules. Removal goes through the worklist, which
// notifies the toast manager and the audit journal; scan progress comes from
// the simulator, driven by tea.Tick messages tagged with the run id so a
// superseded run's ticks are dropped.
package dashboard

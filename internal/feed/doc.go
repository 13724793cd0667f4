// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed supplies the initial detections for a session.
//
// A Source is anything that can produce a batch of detections: the built-in
// demo set, a JSON or YAML file, or a SQLite table written by an external
// scanner. Sources normalize their input (type parsing, confidence clamping,
// stable ids) but never decide what the operator sees; that is the
// worklist's job.
//
// Spec strings, as used in config and on the command line:
//
//	demo                     built-in sample detections
//	path/to/findings.json    JSON array or {"detections": [...]}
//	path/to/findings.yaml    YAML list or {detections: [...]}
//	sqlite:path/to/scan.db   table "detections"
package feed

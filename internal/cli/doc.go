// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-interactive
// dataguard commands: list, scan, review, config, version and help.
//
// Every command accepts --json and then writes a JSONResponse envelope to
// stdout, keeping human-readable progress on stderr.
package cli

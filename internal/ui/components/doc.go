// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable view pieces of the dataguard
// dashboard: detection cards with confidence meters, type tabs, the scan
// progress panel and non-blocking toasts.
//
// Components render values they are given. Masking and confidence rules
// come from package detection; nothing here re-implements them.
package components

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for dataguard.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - FeedConfig: Where the session's detections come from
//   - ScanConfig: Scan progress simulator tuning
//   - AuditConfig: Outcome journal settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (DATAGUARD_*), including ones set by ./.env
//   - ~/.dataguard/config.toml
//   - ~/.dataguard/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sources := cfg.Feed.Sources
package config

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/dataguard/internal/cli"
)

func TestRunExitCodes(t *testing.T) {
	assert.Equal(t, cli.ExitUsageError, run([]string{"frobnicate"}))
	assert.Equal(t, cli.ExitUsageError, run([]string{"--feed"}))
}

func TestRunVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	assert.Equal(t, cli.ExitSuccess, run([]string{"--config", path, "version"}))
}

func TestRunBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600))
	assert.Equal(t, cli.ExitConfigError, run([]string{"--config", path, "version"}))
}

func TestRunDashboardNeedsTerminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	assert.NotEqual(t, cli.ExitSuccess, run([]string{"--config", path, "--feed", "demo"}))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/morganforge/dataguard/internal/scan"
	"github.com/morganforge/dataguard/internal/ui/styles"
)

func TestScanProgressView(t *testing.T) {
	p := NewScanProgress()
	p.SetWidth(60)
	p.Kind = scan.Quick

	assert.Contains(t, p.View(time.Now()), "No scan running")

	p.SetSnapshot(scan.Snapshot{Run: 1, State: scan.Running, Progress: 42.4})
	out := p.View(time.Now())
	assert.Contains(t, out, "Quick Scan in progress")
	assert.Contains(t, out, "42%")

	p.SetSnapshot(scan.Snapshot{Run: 1, State: scan.Completed, Progress: 100})
	out = p.View(time.Now())
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "100%")
}

func TestScanProgressSetWidthFloor(t *testing.T) {
	p := NewScanProgress()
	p.SetWidth(5)
	assert.Equal(t, 10, p.Bar.Width)
}

func TestRenderRunHistory(t *testing.T) {
	theme := styles.NewTheme("dark")
	now := time.Date(2025, 5, 4, 16, 0, 0, 0, time.UTC)

	assert.Contains(t, RenderRunHistory(theme, nil, now), "No scans yet")

	h := scan.NewHistory(10)
	scan.SeedDemo(h, now)
	out := RenderRunHistory(theme, h.Recent(0), now)
	assert.Contains(t, out, "Employee Database Scan")
	assert.Contains(t, out, "156 found")
	assert.Contains(t, out, "2h ago")
}

func TestHumanAgo(t *testing.T) {
	assert.Equal(t, "<1m", humanAgo(10*time.Second))
	assert.Equal(t, "10m", humanAgo(10*time.Minute))
	assert.Equal(t, "24h", humanAgo(24*time.Hour))
	assert.Equal(t, "3d", humanAgo(72*time.Hour))
}

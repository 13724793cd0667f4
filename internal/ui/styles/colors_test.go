// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/morganforge/dataguard/internal/detection"
)

// =============================================================================
// SHADE TESTS
// =============================================================================

func TestShadeColor(t *testing.T) {
	tests := []struct {
		typ   detection.Type
		shade detection.Shade
		want  string
	}{
		{detection.Personal, detection.Shade300, Purple300.Dark},
		{detection.Personal, detection.Shade400, Purple400.Dark},
		{detection.Personal, detection.Shade500, Purple500.Dark},
		{detection.Financial, detection.Shade300, Pink300.Dark},
		{detection.Financial, detection.Shade400, Pink400.Dark},
		{detection.Financial, detection.Shade500, Pink500.Dark},
	}
	for _, tt := range tests {
		got := ShadeColor(tt.typ, tt.shade)
		if got.Dark != tt.want {
			t.Errorf("ShadeColor(%s, %d).Dark = %s, want %s", tt.typ, tt.shade, got.Dark, tt.want)
		}
	}
}

func TestShadeRampsDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range []string{Purple300.Dark, Purple400.Dark, Purple500.Dark, Pink300.Dark, Pink400.Dark, Pink500.Dark} {
		if seen[c] {
			t.Errorf("shade %s used twice", c)
		}
		seen[c] = true
	}
}

func TestTypeColor(t *testing.T) {
	if TypeColor(detection.Personal) != Purple {
		t.Error("personal should use purple")
	}
	if TypeColor(detection.Financial) != Pink {
		t.Error("financial should use pink")
	}
}

// =============================================================================
// STATUS INDICATOR TESTS
// =============================================================================

func TestRenderHelpers(t *testing.T) {
	tests := []struct {
		name   string
		render func(string) string
		want   string
	}{
		{"success", RenderSuccess, StatusIndicators.Success},
		{"error", RenderError, StatusIndicators.Error},
		{"warning", RenderWarning, StatusIndicators.Warning},
		{"info", RenderInfo, StatusIndicators.Info},
	}
	for _, tt := range tests {
		out := tt.render("message")
		if !strings.Contains(out, tt.want) || !strings.Contains(out, "message") {
			t.Errorf("%s: %q missing indicator or message", tt.name, out)
		}
	}
}

// =============================================================================
// BAR TESTS
// =============================================================================

func TestRenderBar(t *testing.T) {
	tests := []struct {
		width, percent int
		full, empty    int
	}{
		{10, 0, 0, 10},
		{10, 50, 5, 5},
		{10, 95, 9, 1},
		{10, 100, 10, 0},
		{10, 150, 10, 0},
		{10, -5, 0, 10},
		{20, 62, 12, 8},
	}
	for _, tt := range tests {
		bar := RenderBar(tt.width, tt.percent)
		if got := strings.Count(bar, BarFull); got != tt.full {
			t.Errorf("RenderBar(%d, %d) full = %d, want %d", tt.width, tt.percent, got, tt.full)
		}
		if got := strings.Count(bar, BarEmpty); got != tt.empty {
			t.Errorf("RenderBar(%d, %d) empty = %d, want %d", tt.width, tt.percent, got, tt.empty)
		}
	}
	if RenderBar(0, 50) != "" {
		t.Error("zero width should render nothing")
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "strings"

// =============================================================================
// BARS
// =============================================================================

// Bar characters for confidence meters.
var (
	BarFull  = "█"
	BarEmpty = "░"
)

// RenderBar draws a meter of the given width filled to percent (0-100).
// Out-of-range percentages are clamped.
func RenderBar(width, percent int) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := width * percent / 100
	var sb strings.Builder
	sb.Grow(width * 3)
	sb.WriteString(strings.Repeat(BarFull, filled))
	sb.WriteString(strings.Repeat(BarEmpty, width-filled))
	return sb.String()
}

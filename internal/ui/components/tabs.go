// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/dataguard/internal/detection"
	"github.com/morganforge/dataguard/internal/ui/styles"
)

// TypeTabs lists the tab filters in display order.
var TypeTabs = []detection.TypeFilter{
	detection.AllTypes,
	detection.Only(detection.Personal),
	detection.Only(detection.Financial),
}

// TabLabel returns the caption for a tab, e.g. "Personal (3)".
func TabLabel(tf detection.TypeFilter, counts detection.TabCounts) string {
	name := "All"
	if t, ok := tf.Type(); ok {
		name = t.Label()
	}
	return fmt.Sprintf("%s (%d)", name, counts.For(tf))
}

// RenderTabs renders the type tabs with active highlighted.
func RenderTabs(theme *styles.Theme, active detection.TypeFilter, counts detection.TabCounts) string {
	parts := make([]string, len(TypeTabs))
	for i, tf := range TypeTabs {
		style := theme.TabInactive
		if tf == active {
			style = theme.TabActive
		}
		parts[i] = style.Render(TabLabel(tf, counts))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}

// NextTab returns the tab after current, wrapping around.
func NextTab(current detection.TypeFilter, step int) detection.TypeFilter {
	idx := 0
	for i, tf := range TypeTabs {
		if tf == current {
			idx = i
			break
		}
	}
	n := len(TypeTabs)
	return TypeTabs[((idx+step)%n+n)%n]
}

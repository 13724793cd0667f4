// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/dataguard/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES FOR ALL CLI COMMANDS
// =============================================================================

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Purple).MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(14)

	ValueStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)

	SuccessStyle = lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)

	ErrorStyle = lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)

	WarningStyle = lipgloss.NewStyle().Foreground(styles.Amber)

	DimStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)

	SeparatorStyle = lipgloss.NewStyle().Foreground(styles.OverlayDim)
)

// RenderSeparator renders a horizontal rule, 70 columns unless width is given.
func RenderSeparator(width ...int) string {
	w := 70
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return SeparatorStyle.Render(strings.Repeat("-", w))
}

// RenderLabel renders a fixed-width field label.
func RenderLabel(label string) string {
	return LabelStyle.Render(label + ":")
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/dataguard/internal/detection"
	"github.com/morganforge/dataguard/internal/ui/styles"
	"github.com/morganforge/dataguard/internal/util"
)

// =============================================================================
// CONFIDENCE BAR
// =============================================================================

// RenderConfidence draws the "Confidence  87%" label over a shaded meter.
func RenderConfidence(a detection.Assessment, width int) string {
	if width < 12 {
		width = 12
	}
	pct := strconv.Itoa(a.Percent) + "%"
	color := styles.ShadeColor(a.Type, a.Shade)

	label := lipgloss.NewStyle().Foreground(styles.TextSecondary).Render("Confidence")
	value := lipgloss.NewStyle().Foreground(color).Bold(a.Urgent).Render(pct)
	gap := width - util.StringWidth("Confidence") - util.StringWidth(pct)
	if gap < 1 {
		gap = 1
	}

	bar := lipgloss.NewStyle().Foreground(color).Render(styles.RenderBar(width, a.Percent))
	return label + strings.Repeat(" ", gap) + value + "\n" + bar
}

// =============================================================================
// DETECTION CARD
// =============================================================================

// DetectionCard renders one worklist entry. It never shows the raw value.
type DetectionCard struct {
	Detection detection.Detection
	Selected  bool
	Width     int
}

// View renders the card.
func (c DetectionCard) View(theme *styles.Theme) string {
	d := c.Detection
	a := d.Assess()

	width := c.Width
	if width < 30 {
		width = 30
	}
	inner := width - 4

	badge := theme.BadgeFor(d.Type).Render(d.Type.Label())
	valueWidth := inner - lipgloss.Width(badge) - 1
	value := theme.CardValue.Render(util.TruncateWidth(d.Masked(), valueWidth))
	pad := inner - lipgloss.Width(value) - lipgloss.Width(badge)
	if pad < 1 {
		pad = 1
	}
	top := value + strings.Repeat(" ", pad) + badge

	meta := theme.CardMeta.Render(util.TruncateWidth(
		detection.FormatTimestamp(d.Timestamp)+"  |  "+d.Source, inner))

	lines := []string{top, meta, RenderConfidence(a, inner)}
	if c.Selected {
		lines = append(lines, theme.HelpKey.Render("[e]")+theme.HelpDesc.Render(" Encrypt  ")+
			theme.HelpKey.Render("[i]")+theme.HelpDesc.Render(" Ignore"))
	}

	return theme.CardFor(a, c.Selected).Width(width - 2).Render(strings.Join(lines, "\n"))
}

// RenderDetectionList renders cards for ds with the cursor on selected.
// An empty list renders the empty-state message.
func RenderDetectionList(theme *styles.Theme, ds []detection.Detection, selected, width int) string {
	if len(ds) == 0 {
		return theme.Empty.Render("No detections match the current filters.")
	}
	cards := make([]string, len(ds))
	for i, d := range ds {
		cards[i] = DetectionCard{Detection: d, Selected: i == selected, Width: width}.View(theme)
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

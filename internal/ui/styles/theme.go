// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/morganforge/dataguard/internal/detection"
)

// Theme holds all the styled components for the dashboard.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER AND NAVIGATION
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderSub   lipgloss.Style
	NavActive   lipgloss.Style
	NavInactive lipgloss.Style

	// ==========================================================================
	// TABS AND SEARCH
	// ==========================================================================

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	TabCount    lipgloss.Style
	SearchBox   lipgloss.Style
	SearchLabel lipgloss.Style

	// ==========================================================================
	// DETECTION CARDS
	// ==========================================================================

	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardValue    lipgloss.Style
	CardMeta     lipgloss.Style
	Badge        lipgloss.Style
	Empty        lipgloss.Style

	// ==========================================================================
	// SCANS PAGE
	// ==========================================================================

	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
	Option     lipgloss.Style
	OptionSel  lipgloss.Style

	// ==========================================================================
	// FOOTER
	// ==========================================================================

	Footer   lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
	Muted    lipgloss.Style
}

// NewTheme creates a theme for the given mode: "dark", "light" or "auto".
// Non-auto modes override background detection for the whole process.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()
	isDark := true
	switch strings.ToLower(mode) {
	case "light":
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.HeaderSub = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)
	t.NavActive = lipgloss.NewStyle().Bold(true).Foreground(TextInverse).Background(Purple).Padding(0, 1)
	t.NavInactive = lipgloss.NewStyle().Foreground(TextSecondary).Padding(0, 1)

	t.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		BorderStyle(lipgloss.ThickBorder()).
		BorderBottom(true).
		BorderForeground(Purple).
		Padding(0, 1)
	t.TabInactive = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderBottom(true).
		Padding(0, 1)
	t.TabCount = lipgloss.NewStyle().Foreground(TextMuted)

	t.SearchBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)
	t.SearchLabel = lipgloss.NewStyle().Foreground(TextMuted)

	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1).
		MarginBottom(1)
	t.CardSelected = t.Card.BorderForeground(Cyan)
	t.CardValue = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	t.CardMeta = lipgloss.NewStyle().Foreground(TextMuted)
	t.Badge = lipgloss.NewStyle().Bold(true).Foreground(TextInverse).Padding(0, 1)
	t.Empty = lipgloss.NewStyle().Foreground(TextMuted).Italic(true).Padding(1, 2)

	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(Purple).MarginBottom(1)
	t.Option = lipgloss.NewStyle().Foreground(TextSecondary).PaddingLeft(2)
	t.OptionSel = lipgloss.NewStyle().Bold(true).Foreground(Purple).PaddingLeft(2)

	t.Footer = lipgloss.NewStyle().Foreground(TextMuted).Padding(0, 1)
	t.HelpKey = lipgloss.NewStyle().Foreground(Cyan)
	t.HelpDesc = lipgloss.NewStyle().Foreground(TextMuted)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
}

// CardFor returns the card style for a detection. Urgent detections get a
// thick border in their type's 500 shade.
func (t *Theme) CardFor(a detection.Assessment, selected bool) lipgloss.Style {
	s := t.Card
	if selected {
		s = t.CardSelected
	}
	if a.Urgent {
		s = s.BorderStyle(lipgloss.ThickBorder())
		if !selected {
			s = s.BorderForeground(ShadeColor(a.Type, detection.Shade500))
		}
	}
	return s
}

// BadgeFor returns the type badge style.
func (t *Theme) BadgeFor(dt detection.Type) lipgloss.Style {
	return t.Badge.Background(TypeColor(dt))
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

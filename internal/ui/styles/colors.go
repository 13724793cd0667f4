// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/dataguard/internal/detection"
)

// =============================================================================
// BRAND COLORS
// =============================================================================

// Purple - Primary accent, selections, personal data
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// PurpleDeep - Darker purple for backgrounds
var PurpleDeep = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#4C1D95"}

// Pink - Financial data accent
var Pink = lipgloss.AdaptiveColor{Light: "#DB2777", Dark: "#F472B6"}

// Cyan - Info, commands
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Emerald - Success states, encrypted outcomes
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors, critical alerts
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, feed changes
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE AND TEXT COLORS
// =============================================================================

var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}
var OverlayDim = lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#45475A"}

var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// CONFIDENCE SHADES
// =============================================================================

// Purple ramp for personal detections.
var (
	Purple300 = lipgloss.AdaptiveColor{Light: "#A855F7", Dark: "#D8B4FE"}
	Purple400 = lipgloss.AdaptiveColor{Light: "#9333EA", Dark: "#C084FC"}
	Purple500 = lipgloss.AdaptiveColor{Light: "#7E22CE", Dark: "#A855F7"}
)

// Pink ramp for financial detections.
var (
	Pink300 = lipgloss.AdaptiveColor{Light: "#EC4899", Dark: "#F9A8D4"}
	Pink400 = lipgloss.AdaptiveColor{Light: "#DB2777", Dark: "#F472B6"}
	Pink500 = lipgloss.AdaptiveColor{Light: "#BE185D", Dark: "#EC4899"}
)

// ShadeColor returns the bar color for a detection type at a confidence shade.
func ShadeColor(t detection.Type, s detection.Shade) lipgloss.AdaptiveColor {
	if t == detection.Financial {
		switch s {
		case detection.Shade500:
			return Pink500
		case detection.Shade400:
			return Pink400
		default:
			return Pink300
		}
	}
	switch s {
	case detection.Shade500:
		return Purple500
	case detection.Shade400:
		return Purple400
	default:
		return Purple300
	}
}

// TypeColor returns the badge color for a detection type.
func TypeColor(t detection.Type) lipgloss.AdaptiveColor {
	if t == detection.Financial {
		return Pink
	}
	return Purple
}

// =============================================================================
// ACCESSIBILITY: Shapes alongside color
// =============================================================================

// StatusIndicatorSet contains text indicators for status states.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Pending string
	Active  string
}

// StatusIndicators are ASCII-only.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Pending: "[ ]",
	Active:  "[*]",
}

// RenderSuccess renders a success message with its indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with its indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning message with its indicator.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).
		Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an info message with its indicator.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(Cyan).Bold(true).
		Render(StatusIndicators.Info + " " + message)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the dataguard TUI.
//
// All colors use Lip Gloss AdaptiveColor for automatic light/dark
// detection. Detection types have their own shade ramps: purple for
// personal data and pink for financial data, each at weights 300, 400
// and 500 matching the confidence tiers.
//
// # Usage
//
//	theme := styles.NewTheme("auto")
//	card := theme.Card.Render(body)
//	bar := lipgloss.NewStyle().Foreground(styles.ShadeColor(detection.Financial, detection.Shade500))
package styles

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/dataguard/internal/detection"
)

func TestNewTheme(t *testing.T) {
	for _, mode := range []string{"dark", "light", "auto"} {
		theme := NewTheme(mode)
		if theme == nil {
			t.Fatalf("NewTheme(%q) returned nil", mode)
		}
		if theme.Card.Render("x") == "" {
			t.Errorf("NewTheme(%q) did not initialize card style", mode)
		}
	}
	if NewTheme("light").IsDark {
		t.Error("light theme should not be dark")
	}
	if !NewTheme("dark").IsDark {
		t.Error("dark theme should be dark")
	}
}

func TestCardForUrgent(t *testing.T) {
	theme := NewTheme("dark")

	urgent := detection.Assess(0.95, detection.Financial)
	s := theme.CardFor(urgent, false)
	if s.GetBorderStyle() != lipgloss.ThickBorder() {
		t.Error("urgent card should use a thick border")
	}
	if s.GetBorderTopForeground() != Pink500 {
		t.Errorf("urgent financial border = %v, want Pink500", s.GetBorderTopForeground())
	}

	calm := detection.Assess(0.60, detection.Personal)
	if theme.CardFor(calm, false).GetBorderStyle() == lipgloss.ThickBorder() {
		t.Error("non-urgent card should not use a thick border")
	}
	if theme.CardFor(calm, true).GetBorderTopForeground() != Cyan {
		t.Error("selected card should use the selection color")
	}
}

func TestLayoutMode(t *testing.T) {
	theme := NewTheme("dark")
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{80, LayoutMedium},
		{120, LayoutWide},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: got %v, want %v", tt.width, got, tt.want)
		}
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/morganforge/dataguard/internal/detection"
	"github.com/morganforge/dataguard/internal/ui/styles"
)

func card(value string, typ detection.Type, conf float64) detection.Detection {
	return detection.Detection{
		ID:         "1",
		Timestamp:  time.Date(2025, 5, 4, 14, 32, 0, 0, time.Local),
		Value:      value,
		Type:       typ,
		Source:     "payment_records.xlsx",
		Confidence: conf,
	}
}

func TestDetectionCardNeverShowsRawValue(t *testing.T) {
	theme := styles.NewTheme("dark")
	d := card("4532015112830366", detection.Financial, 0.95)

	out := DetectionCard{Detection: d, Width: 70}.View(theme)
	assert.NotContains(t, out, d.Value)
	assert.Contains(t, out, "45************66")
	assert.Contains(t, out, "Financial")
	assert.Contains(t, out, "95%")
	assert.Contains(t, out, "payment_records.xlsx")
	assert.Contains(t, out, "May 4, 2025, 2:32 PM")
}

func TestDetectionCardActionsOnlyWhenSelected(t *testing.T) {
	theme := styles.NewTheme("dark")
	d := card("john.doe@example.com", detection.Personal, 0.6)

	assert.NotContains(t, DetectionCard{Detection: d, Width: 70}.View(theme), "Encrypt")
	assert.Contains(t, DetectionCard{Detection: d, Width: 70, Selected: true}.View(theme), "Encrypt")
}

func TestRenderConfidence(t *testing.T) {
	out := RenderConfidence(detection.Assess(0.5, detection.Personal), 20)
	assert.Contains(t, out, "Confidence")
	assert.Contains(t, out, "50%")
	assert.Equal(t, 10, strings.Count(out, styles.BarFull))
}

func TestRenderDetectionListEmpty(t *testing.T) {
	theme := styles.NewTheme("dark")
	assert.Contains(t, RenderDetectionList(theme, nil, 0, 70), "No detections")
}

func TestRenderDetectionList(t *testing.T) {
	theme := styles.NewTheme("dark")
	ds := []detection.Detection{
		card("john.doe@example.com", detection.Personal, 0.6),
		card("4532015112830366", detection.Financial, 0.95),
	}
	out := RenderDetectionList(theme, ds, 1, 70)
	assert.Contains(t, out, "****.***@*******.***")
	assert.Contains(t, out, "45************66")
	assert.Equal(t, 1, strings.Count(out, "[e]"))
}

// =============================================================================
// TABS
// =============================================================================

func TestTabLabel(t *testing.T) {
	counts := detection.TabCounts{All: 6, Personal: 3, Financial: 2}
	assert.Equal(t, "All (6)", TabLabel(detection.AllTypes, counts))
	assert.Equal(t, "Personal (3)", TabLabel(detection.Only(detection.Personal), counts))
	assert.Equal(t, "Financial (2)", TabLabel(detection.Only(detection.Financial), counts))
}

func TestRenderTabs(t *testing.T) {
	theme := styles.NewTheme("dark")
	out := RenderTabs(theme, detection.AllTypes, detection.TabCounts{All: 1, Personal: 1})
	assert.Contains(t, out, "All (1)")
	assert.Contains(t, out, "Financial (0)")
}

func TestNextTab(t *testing.T) {
	assert.Equal(t, detection.Only(detection.Personal), NextTab(detection.AllTypes, 1))
	assert.Equal(t, detection.AllTypes, NextTab(detection.Only(detection.Financial), 1))
	assert.Equal(t, detection.Only(detection.Financial), NextTab(detection.AllTypes, -1))
}

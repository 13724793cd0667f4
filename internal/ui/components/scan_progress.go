// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/dataguard/internal/scan"
	"github.com/morganforge/dataguard/internal/ui/styles"
	"github.com/morganforge/dataguard/internal/util"
)

// =============================================================================
// SCAN PROGRESS
// =============================================================================

// ScanProgress renders a simulator snapshot with a spinner while running.
type ScanProgress struct {
	Bar     progress.Model
	Spinner spinner.Model
	Kind    scan.Kind
	Snap    scan.Snapshot
	Started time.Time
	Width   int
}

// NewScanProgress creates an idle progress panel.
func NewScanProgress() ScanProgress {
	bar := progress.New(
		progress.WithGradient(styles.Purple300.Dark, styles.Pink500.Dark),
		progress.WithoutPercentage(),
	)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Purple)
	return ScanProgress{Bar: bar, Spinner: sp, Width: 60}
}

// SetSnapshot records the latest simulator state.
func (p *ScanProgress) SetSnapshot(s scan.Snapshot) {
	p.Snap = s
}

// SetWidth resizes the bar.
func (p *ScanProgress) SetWidth(w int) {
	p.Width = w
	p.Bar.Width = w - 8
	if p.Bar.Width < 10 {
		p.Bar.Width = 10
	}
}

// Update advances the spinner. Other messages are ignored.
func (p ScanProgress) Update(msg tea.Msg) (ScanProgress, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok || !p.Snap.IsRunning() {
		return p, nil
	}
	var cmd tea.Cmd
	p.Spinner, cmd = p.Spinner.Update(msg)
	return p, cmd
}

// View renders the status line and bar.
func (p ScanProgress) View(now time.Time) string {
	var status string
	switch p.Snap.State {
	case scan.Running:
		status = p.Spinner.View() + " " + p.Kind.Info().Title + " in progress"
		if !p.Started.IsZero() {
			status += lipgloss.NewStyle().Foreground(styles.TextMuted).
				Render(fmt.Sprintf("  %s", now.Sub(p.Started).Round(time.Second)))
		}
	case scan.Completed:
		status = styles.RenderSuccess(p.Kind.Info().Title + " completed")
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted).Render("No scan running. Press [s] to start.")
	}

	pct := lipgloss.NewStyle().Bold(true).Foreground(styles.Purple).
		Render(fmt.Sprintf("%3d%%", p.Snap.Percent()))
	return util.TruncateWidth(status, p.Width) + "\n" + p.Bar.ViewAs(p.Snap.Fraction()) + " " + pct
}

// =============================================================================
// RECENT RUNS
// =============================================================================

// RenderRunHistory renders recent scan records as a small table.
func RenderRunHistory(theme *styles.Theme, runs []scan.RunRecord, now time.Time) string {
	if len(runs) == 0 {
		return theme.Empty.Render("No scans yet.")
	}
	lines := make([]string, 0, len(runs))
	for _, r := range runs {
		var status string
		switch r.Status {
		case scan.StatusCompleted:
			status = lipgloss.NewStyle().Foreground(styles.Emerald).Render(styles.StatusIndicators.Success)
		case scan.StatusCanceled:
			status = lipgloss.NewStyle().Foreground(styles.Amber).Render(styles.StatusIndicators.Warning)
		default:
			status = lipgloss.NewStyle().Foreground(styles.Cyan).Render(styles.StatusIndicators.Active)
		}
		name := util.PadRight(util.TruncateWidth(r.Name, 24), 24)
		target := util.PadRight(util.TruncateWidth(r.Target, 12), 12)
		detail := fmt.Sprintf("%3d found  %s ago", r.Detections, humanAgo(now.Sub(r.StartedAt)))
		lines = append(lines, strings.Join([]string{status, name, target, theme.Muted.Render(detail)}, "  "))
	}
	return strings.Join(lines, "\n")
}

func humanAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

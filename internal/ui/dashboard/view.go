// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/dataguard/internal/scan"
	"github.com/morganforge/dataguard/internal/ui/components"
	"github.com/morganforge/dataguard/internal/ui/styles"
)

// cardHeight is the rendered height of one detection card including margin.
const cardHeight = 7

// View renders the dashboard.
func (m Model) View() string {
	var body string
	if m.page == PageScans {
		body = m.viewScans()
	} else {
		body = m.viewMonitoring()
	}

	parts := []string{m.viewHeader(), body}
	if toasts := m.deps.Toasts.Toasts(); len(toasts) > 0 {
		stack := components.RenderToastStack(toasts, m.width, 0, m.now())
		parts = append(parts, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, stack))
	}
	if m.deps.ShowHelp {
		parts = append(parts, m.theme.Footer.Render(m.help.View(pageKeys{k: m.keys, page: m.page})))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewHeader() string {
	title := m.theme.HeaderTitle.Render("DataGuard") + " " +
		m.theme.HeaderSub.Render("Sensitive Data Protection")

	nav := make([]string, 0, 2)
	for i, p := range []Page{PageMonitoring, PageScans} {
		label := fmt.Sprintf("[%d] %s", i+1, p)
		if p == m.page {
			nav = append(nav, m.theme.NavActive.Render(label))
		} else {
			nav = append(nav, m.theme.NavInactive.Render(label))
		}
	}

	stats := m.deps.Worklist.Stats()
	summary := m.theme.Muted.Render(fmt.Sprintf("open %d  encrypted %d  ignored %d",
		stats.Remaining, stats.Encrypted, stats.Ignored))

	left := title + "  " + strings.Join(nav, "")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(summary) - 2
	if gap < 1 {
		return m.theme.Header.Render(left + "\n" + summary)
	}
	return m.theme.Header.Render(left + strings.Repeat(" ", gap) + summary)
}

// =============================================================================
// MONITORING
// =============================================================================

func (m Model) viewMonitoring() string {
	searchStyle := m.theme.SearchBox
	if m.searching {
		searchStyle = searchStyle.BorderForeground(styles.Purple)
	}
	search := searchStyle.Width(m.width - 4).Render(m.search.View())

	tabs := components.RenderTabs(m.theme, m.tab, m.Counts())

	visible := m.Visible()
	start, end := m.window(len(visible))
	list := components.RenderDetectionList(m.theme, visible[start:end], m.cursor-start, m.width-2)
	if len(visible) > 0 && (start > 0 || end < len(visible)) {
		list += "\n" + m.theme.Muted.Render(fmt.Sprintf("showing %d-%d of %d", start+1, end, len(visible)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, search, tabs, list)
}

// window returns the slice bounds of cards that fit on screen and keep the
// cursor visible.
func (m Model) window(n int) (int, int) {
	if n == 0 {
		return 0, 0
	}
	fit := (m.height - 12) / cardHeight
	if fit < 1 {
		fit = 1
	}
	if fit >= n {
		return 0, n
	}
	start := m.cursor - fit + 1
	if start < 0 {
		start = 0
	}
	return start, start + fit
}

// =============================================================================
// SCANS
// =============================================================================

func (m Model) viewScans() string {
	opts := make([]string, 0, len(scan.Kinds))
	for i, k := range scan.Kinds {
		line := fmt.Sprintf("%s  %s", k.Title, m.theme.Muted.Render("("+k.Duration+")"))
		desc := m.theme.Muted.Render("    " + k.Description)
		if i == m.kindIdx {
			opts = append(opts, m.theme.OptionSel.Render("> "+line)+"\n"+desc)
		} else {
			opts = append(opts, m.theme.Option.Render("  "+line)+"\n"+desc)
		}
	}

	panelWidth := m.width - 4
	kinds := m.theme.Panel.Width(panelWidth).Render(
		m.theme.PanelTitle.Render("Start a scan") + "\n" + strings.Join(opts, "\n"))
	progress := m.theme.Panel.Width(panelWidth).Render(
		m.theme.PanelTitle.Render("Progress") + "\n" + m.progress.View(m.now()))
	recent := m.theme.Panel.Width(panelWidth).Render(
		m.theme.PanelTitle.Render("Recent scans") + "\n" +
			components.RenderRunHistory(m.theme, m.deps.History.Recent(5), m.now()))

	return lipgloss.JoinVertical(lipgloss.Left, kinds, progress, recent)
}

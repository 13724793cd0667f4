// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/dataguard/internal/audit"
	"github.com/morganforge/dataguard/internal/detection"
	"github.com/morganforge/dataguard/internal/feed"
	"github.com/morganforge/dataguard/internal/logging"
	"github.com/morganforge/dataguard/internal/scan"
	"github.com/morganforge/dataguard/internal/ui/components"
	"github.com/morganforge/dataguard/internal/ui/styles"
	"github.com/morganforge/dataguard/internal/worklist"
)

// =============================================================================
// PAGES
// =============================================================================

// Page is a top-level view.
type Page int

const (
	PageMonitoring Page = iota
	PageScans
)

// String returns the navigation label.
func (p Page) String() string {
	if p == PageScans {
		return "Scans"
	}
	return "Monitoring"
}

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Deps are the collaborators the dashboard drives. Worklist, Toasts,
// Simulator and History are required; the rest may be nil.
type Deps struct {
	Worklist  *worklist.Worklist
	Toasts    *components.ToastManager
	Simulator *scan.Simulator
	History   *scan.History
	Journal   *audit.Journal
	Watcher   *feed.Watcher
	Theme     *styles.Theme
	Logger    *slog.Logger

	// Context is passed to worklist operations. Defaults to Background.
	Context context.Context

	Compact  bool
	ShowHelp bool
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	deps   Deps
	ctx    context.Context
	theme  *styles.Theme
	keys   KeyMap
	help   help.Model
	logger *slog.Logger

	width  int
	height int
	page   Page

	// Monitoring
	search    textinput.Model
	searching bool
	tab       detection.TypeFilter
	cursor    int

	// Scans
	kindIdx  int
	progress components.ScanProgress
	runRecID string

	toastTicking bool
	now          func() time.Time
}

// New creates the dashboard model.
func New(deps Deps) Model {
	theme := deps.Theme
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	if deps.Compact {
		theme.Card = theme.Card.MarginBottom(0)
		theme.CardSelected = theme.CardSelected.MarginBottom(0)
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	ctx := deps.Context
	if ctx == nil {
		ctx = context.Background()
	}

	ti := textinput.New()
	ti.Placeholder = "Search by file name or value..."
	ti.Prompt = "Search: "
	ti.CharLimit = 128

	h := help.New()
	h.ShowAll = false

	return Model{
		deps:     deps,
		ctx:      ctx,
		theme:    theme,
		keys:     DefaultKeyMap(),
		help:     h,
		logger:   logger,
		search:   ti,
		tab:      detection.AllTypes,
		progress: components.NewScanProgress(),
		width:    100,
		height:   40,
		now:      time.Now,
	}
}

// Init starts the feed watcher loop when one is configured.
func (m Model) Init() tea.Cmd {
	if m.deps.Watcher == nil {
		return nil
	}
	return waitForFeedChange(m.deps.Watcher.Changes())
}

// =============================================================================
// DERIVED STATE
// =============================================================================

// Visible returns the detections shown under the current tab and search.
func (m Model) Visible() []detection.Detection {
	return detection.Filter(m.deps.Worklist.List(), m.tab, m.search.Value())
}

// Counts returns the tab counts under the current search.
func (m Model) Counts() detection.TabCounts {
	return detection.Counts(m.deps.Worklist.List(), m.search.Value())
}

// Page returns the active page.
func (m Model) Page() Page {
	return m.page
}

// Tab returns the active type filter.
func (m Model) Tab() detection.TypeFilter {
	return m.tab
}

// Cursor returns the selected index into Visible.
func (m Model) Cursor() int {
	return m.cursor
}

// SearchTerm returns the current search text.
func (m Model) SearchTerm() string {
	return m.search.Value()
}

// Searching reports whether the search box has focus.
func (m Model) Searching() bool {
	return m.searching
}

// ScanKind returns the kind selected on the Scans page.
func (m Model) ScanKind() scan.Kind {
	return scan.Kinds[m.kindIdx].Kind
}

// clampCursor keeps the cursor inside the visible list.
func (m *Model) clampCursor() {
	n := len(m.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

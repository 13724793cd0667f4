// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/dataguard/internal/scan"
	"github.com/morganforge/dataguard/internal/ui/components"
)

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.progress.SetWidth(msg.Width - 6)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case scanTickMsg:
		return m.handleScanTick(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd

	case components.ToastTickMsg:
		if m.deps.Toasts.Tick(); m.deps.Toasts.HasToasts() {
			return m, components.ToastTickCmd()
		}
		m.toastTicking = false
		return m, nil

	case feedChangedMsg:
		m.logger.Info("feed changed on disk", "path", msg.Change.Path)
		m.deps.Toasts.Add(components.NewWarningToast("Feed changed",
			filepath.Base(msg.Change.Path)+" was modified. Restart to reload detections."))
		cmds := []tea.Cmd{m.ensureToastTick()}
		if m.deps.Watcher != nil {
			cmds = append(cmds, waitForFeedChange(m.deps.Watcher.Changes()))
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// ensureToastTick starts the expiry loop if toasts are showing and no loop
// is already running.
func (m *Model) ensureToastTick() tea.Cmd {
	if m.toastTicking || !m.deps.Toasts.HasToasts() {
		return nil
	}
	m.toastTicking = true
	return components.ToastTickCmd()
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.deps.Simulator.IsRunning() {
			m.abortScan()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Dismiss):
		m.deps.Toasts.DismissNewest()
		return m, nil
	case key.Matches(msg, m.keys.DismissAll):
		m.deps.Toasts.Clear()
		return m, nil
	case key.Matches(msg, m.keys.Monitoring):
		m.page = PageMonitoring
		return m, nil
	case key.Matches(msg, m.keys.Scans):
		m.page = PageScans
		return m, nil
	}

	if m.page == PageScans {
		return m.handleScansKey(msg)
	}
	return m.handleMonitoringKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.SetValue("")
		m.search.Blur()
		m.searching = false
		m.clampCursor()
		return m, nil
	case tea.KeyEnter:
		m.search.Blur()
		m.searching = false
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor = 0
	return m, cmd
}

func (m Model) handleMonitoringKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.Visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.NextTab):
		m.tab = components.NextTab(m.tab, 1)
		m.cursor = 0
	case key.Matches(msg, m.keys.PrevTab):
		m.tab = components.NextTab(m.tab, -1)
		m.cursor = 0
	case key.Matches(msg, m.keys.Encrypt):
		return m.resolveSelected(true)
	case key.Matches(msg, m.keys.Ignore):
		return m.resolveSelected(false)
	case key.Matches(msg, m.keys.EncryptAll):
		return m.encryptAllVisible()
	}
	return m, nil
}

func (m Model) resolveSelected(encrypt bool) (tea.Model, tea.Cmd) {
	visible := m.Visible()
	if len(visible) == 0 {
		return m, nil
	}
	id := visible[m.cursor].ID
	if encrypt {
		m.deps.Worklist.Encrypt(m.ctx, id)
	} else {
		m.deps.Worklist.Ignore(m.ctx, id)
	}
	m.clampCursor()
	return m, m.ensureToastTick()
}

func (m Model) encryptAllVisible() (tea.Model, tea.Cmd) {
	visible := m.Visible()
	if len(visible) == 0 {
		return m, nil
	}
	ids := make([]string, len(visible))
	for i, d := range visible {
		ids[i] = d.ID
	}
	n := m.deps.Worklist.EncryptAll(m.ctx, ids)
	m.logger.Info("encrypt all", "requested", len(ids), "encrypted", n)
	m.clampCursor()
	return m, m.ensureToastTick()
}

// =============================================================================
// SCANS
// =============================================================================

func (m Model) handleScansKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.kindIdx > 0 {
			m.kindIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.kindIdx < len(scan.Kinds)-1 {
			m.kindIdx++
		}
	case key.Matches(msg, m.keys.StartScan):
		return m.startScan()
	case key.Matches(msg, m.keys.AbortScan):
		if m.deps.Simulator.IsRunning() {
			m.abortScan()
			m.deps.Toasts.Add(components.NewWarningToast("Scan canceled", m.progress.Kind.Info().Title+" was stopped."))
			return m, m.ensureToastTick()
		}
	}
	return m, nil
}

func (m Model) startScan() (tea.Model, tea.Cmd) {
	run, err := m.deps.Simulator.Start()
	if errors.Is(err, scan.ErrAlreadyRunning) {
		m.deps.Toasts.Add(components.NewWarningToast("Scan in progress", "Wait for the current scan to finish or abort it first."))
		return m, m.ensureToastTick()
	}

	kind := m.ScanKind()
	m.progress.Kind = kind
	m.progress.Started = m.now()
	m.progress.SetSnapshot(m.deps.Simulator.Snapshot())
	m.runRecID = m.deps.History.Begin(kind, "All sources")
	if m.deps.Journal != nil {
		if err := m.deps.Journal.ScanStarted(runLabel(run), string(kind)); err != nil {
			m.logger.Warn("audit scan start", "error", err)
		}
	}
	m.logger.Info("scan started", "run", run, "kind", kind)

	return m, tea.Batch(
		scanTickCmd(run, m.deps.Simulator.Interval()),
		m.progress.Spinner.Tick,
	)
}

func (m Model) handleScanTick(msg scanTickMsg) (tea.Model, tea.Cmd) {
	if prev := m.progress.Snap; prev.Run == msg.Run && !prev.IsRunning() {
		return m, nil
	}
	snap := m.deps.Simulator.Tick(msg.Run)
	if snap.Run != msg.Run {
		return m, nil
	}
	m.progress.SetSnapshot(snap)

	if snap.IsRunning() {
		return m, scanTickCmd(msg.Run, m.deps.Simulator.Interval())
	}
	if snap.State != scan.Completed {
		return m, nil
	}

	found := m.deps.Worklist.Len()
	if err := m.deps.History.Finish(m.runRecID, scan.StatusCompleted, found); err != nil {
		m.logger.Warn("scan history", "error", err)
	}
	if m.deps.Journal != nil {
		if err := m.deps.Journal.ScanCompleted(runLabel(msg.Run), string(m.progress.Kind), found); err != nil {
			m.logger.Warn("audit scan complete", "error", err)
		}
	}
	m.logger.Info("scan completed", "run", msg.Run, "detections", found)
	m.deps.Toasts.Add(components.NewSuccessToast("Scan complete",
		fmt.Sprintf("%s finished with %d open detections.", m.progress.Kind.Info().Title, found)))
	return m, m.ensureToastTick()
}

func (m *Model) abortScan() {
	m.deps.Simulator.Abort()
	m.progress.SetSnapshot(m.deps.Simulator.Snapshot())
	if err := m.deps.History.Finish(m.runRecID, scan.StatusCanceled, 0); err != nil {
		m.logger.Warn("scan history", "error", err)
	}
	m.logger.Info("scan aborted")
}

func runLabel(run scan.RunID) string {
	return strconv.FormatUint(uint64(run), 10)
}

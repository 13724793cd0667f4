// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/dataguard/internal/feed"
	"github.com/morganforge/dataguard/internal/scan"
)

// scanTickMsg asks the simulator to advance run by one step.
type scanTickMsg struct {
	Run scan.RunID
}

// feedChangedMsg reports that a watched feed file changed on disk.
type feedChangedMsg struct {
	Change feed.Change
}

// scanTickCmd schedules the next tick for run.
func scanTickCmd(run scan.RunID, every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return scanTickMsg{Run: run}
	})
}

// waitForFeedChange blocks on the watcher channel. A closed channel ends
// the loop.
func waitForFeedChange(ch <-chan feed.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return feedChangedMsg{Change: c}
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the dashboard.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Search     key.Binding
	Encrypt    key.Binding
	Ignore     key.Binding
	EncryptAll key.Binding
	Monitoring key.Binding
	Scans      key.Binding
	StartScan  key.Binding
	AbortScan  key.Binding
	Dismiss    key.Binding
	DismissAll key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "previous tab"),
		),
		Search: key.NewBinding(
			key.WithKeys("/", "ctrl+f"),
			key.WithHelp("/", "search"),
		),
		Encrypt: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "encrypt"),
		),
		Ignore: key.NewBinding(
			key.WithKeys("i", "delete"),
			key.WithHelp("i", "ignore"),
		),
		EncryptAll: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "encrypt all shown"),
		),
		Monitoring: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "monitoring"),
		),
		Scans: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "scans"),
		),
		StartScan: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s", "start scan"),
		),
		AbortScan: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "abort scan"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss toast"),
		),
		DismissAll: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "dismiss all toasts"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// =============================================================================
// PER-PAGE HELP
// =============================================================================

// pageKeys adapts KeyMap to help.KeyMap for one page.
type pageKeys struct {
	k    KeyMap
	page Page
}

// ShortHelp returns the footer bindings for the page.
func (p pageKeys) ShortHelp() []key.Binding {
	if p.page == PageScans {
		return []key.Binding{p.k.StartScan, p.k.AbortScan, p.k.Monitoring, p.k.Help, p.k.Quit}
	}
	return []key.Binding{p.k.Search, p.k.Encrypt, p.k.Ignore, p.k.NextTab, p.k.Scans, p.k.Help, p.k.Quit}
}

// FullHelp returns grouped bindings for the expanded help view.
func (p pageKeys) FullHelp() [][]key.Binding {
	if p.page == PageScans {
		return [][]key.Binding{
			{p.k.Up, p.k.Down, p.k.StartScan, p.k.AbortScan},
			{p.k.Monitoring, p.k.Scans, p.k.Dismiss, p.k.DismissAll},
			{p.k.Help, p.k.Quit},
		}
	}
	return [][]key.Binding{
		{p.k.Up, p.k.Down, p.k.NextTab, p.k.PrevTab},
		{p.k.Search, p.k.Encrypt, p.k.Ignore, p.k.EncryptAll},
		{p.k.Monitoring, p.k.Scans, p.k.Dismiss, p.k.DismissAll},
		{p.k.Help, p.k.Quit},
	}
}

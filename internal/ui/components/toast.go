// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/dataguard/internal/ui/styles"
	"github.com/morganforge/dataguard/internal/util"
	"github.com/morganforge/dataguard/internal/worklist"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast (cyan color)
	ToastKindStatus ToastKind = iota
	// ToastKindError is an error toast (rose color)
	ToastKindError
	// ToastKindWarning is a warning toast (amber color)
	ToastKindWarning
	// ToastKindSuccess is a success toast (emerald color)
	ToastKindSuccess
)

// DefaultToastDuration is the auto-dismiss duration for status and success toasts.
const DefaultToastDuration = 4 * time.Second

// ErrorToastDuration is the auto-dismiss duration for error toasts.
const ErrorToastDuration = 8 * time.Second

// WarningToastDuration is the auto-dismiss duration for warning toasts.
const WarningToastDuration = 6 * time.Second

// Outcome toast copy.
const (
	EncryptedTitle   = "Data encrypted"
	EncryptedMessage = "The sensitive data has been successfully encrypted."
	IgnoredTitle     = "Detection ignored"
	IgnoredMessage   = "This detection will no longer be flagged."
)

// Toast is a transient, non-blocking notification.
type Toast struct {
	ID        int
	Title     string
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

func newToast(kind ToastKind, title, message string, d time.Duration) Toast {
	return Toast{
		Title:     title,
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// NewErrorToast creates an error toast.
func NewErrorToast(title, message string) Toast {
	return newToast(ToastKindError, title, message, ErrorToastDuration)
}

// NewWarningToast creates a warning toast.
func NewWarningToast(title, message string) Toast {
	return newToast(ToastKindWarning, title, message, WarningToastDuration)
}

// NewStatusToast creates a status toast.
func NewStatusToast(title, message string) Toast {
	return newToast(ToastKindStatus, title, message, DefaultToastDuration)
}

// NewSuccessToast creates a success toast.
func NewSuccessToast(title, message string) Toast {
	return newToast(ToastKindSuccess, title, message, DefaultToastDuration)
}

// IsExpired reports whether the toast should be dismissed at now.
func (t Toast) IsExpired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// TimeRemaining returns how much time is left before auto-dismiss.
func (t Toast) TimeRemaining(now time.Time) time.Duration {
	remaining := t.Duration - now.Sub(t.CreatedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// OutcomeToast builds the toast shown after an operator action.
func OutcomeToast(o worklist.Outcome) Toast {
	if o.Err != nil {
		return NewErrorToast("Encryption failed", o.Err.Error())
	}
	if o.Kind == worklist.Encrypted {
		return NewSuccessToast(EncryptedTitle, EncryptedMessage)
	}
	return NewStatusToast(IgnoredTitle, IgnoredMessage)
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager holds the visible toasts, newest first.
type ToastManager struct {
	toasts    []Toast
	nextID    int
	maxToasts int
	now       func() time.Time
	mu        sync.Mutex
}

// NewToastManager creates a toast manager showing at most five toasts.
func NewToastManager() *ToastManager {
	return &ToastManager{
		nextID:    1,
		maxToasts: 5,
		now:       time.Now,
	}
}

// Add pushes a toast and returns its id.
func (m *ToastManager) Add(t Toast) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.ID == 0 {
		t.ID = m.nextID
		m.nextID++
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = m.now()
	}
	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	return t.ID
}

// Remove dismisses a toast by id.
func (m *ToastManager) Remove(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range m.toasts {
		if t.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// DismissNewest removes the most recent toast.
func (m *ToastManager) DismissNewest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.toasts) > 0 {
		m.toasts = m.toasts[1:]
	}
}

// Tick drops expired toasts and returns the survivors.
func (m *ToastManager) Tick() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
	return m.snapshotLocked()
}

// Toasts returns a copy of the current toasts.
func (m *ToastManager) Toasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *ToastManager) snapshotLocked() []Toast {
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// HasToasts reports whether any toast is visible.
func (m *ToastManager) HasToasts() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts) > 0
}

// Clear removes all toasts.
func (m *ToastManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = nil
}

// Notify turns worklist outcomes into toasts.
func (m *ToastManager) Notify(_ context.Context, o worklist.Outcome) {
	m.Add(OutcomeToast(o))
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically to expire toasts.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd returns a command that ticks toasts every 100ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToast renders a single toast.
func RenderToast(t Toast, width int, now time.Time) string {
	maxWidth := 56
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	var color lipgloss.AdaptiveColor
	var icon string
	switch t.Kind {
	case ToastKindError:
		color, icon = styles.Rose, styles.StatusIndicators.Error
	case ToastKindWarning:
		color, icon = styles.Amber, styles.StatusIndicators.Warning
	case ToastKindSuccess:
		color, icon = styles.Emerald, styles.StatusIndicators.Success
	default:
		color, icon = styles.Cyan, styles.StatusIndicators.Info
	}

	head := lipgloss.NewStyle().Foreground(color).Bold(true).Render(icon + " " + t.Title)
	body := lipgloss.NewStyle().Foreground(styles.TextPrimary).
		Render(wrapText(t.Message, maxWidth-6))

	hints := []string{"[x] Dismiss"}
	if secs := int(t.TimeRemaining(now).Seconds()); secs > 0 {
		hints = append(hints, strconv.Itoa(secs)+"s")
	}
	hint := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true).
		Render(strings.Join(hints, "  "))

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 2).
		MaxWidth(maxWidth).
		Render(head + "\n" + body + "\n" + hint)
}

// RenderToastStack renders toasts stacked in the bottom-right corner.
func RenderToastStack(toasts []Toast, width, height int, now time.Time) string {
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, RenderToast(t, width, now))
	}
	stack := lipgloss.NewStyle().
		MarginRight(2).
		MarginBottom(1).
		Render(lipgloss.JoinVertical(lipgloss.Right, rendered...))

	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Right, lipgloss.Bottom, stack)
	}
	return stack
}

// wrapText word-wraps by display width.
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, w := range words {
		ww := util.StringWidth(w)
		switch {
		case lineWidth == 0:
			line.WriteString(w)
			lineWidth = ww
		case lineWidth+1+ww <= maxWidth:
			line.WriteString(" ")
			line.WriteString(w)
			lineWidth += 1 + ww
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(w)
			lineWidth = ww
		}
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

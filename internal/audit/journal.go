// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audit keeps an append-only journal of operator outcomes.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/morganforge/dataguard/internal/detection"
	"github.com/morganforge/dataguard/internal/util"
	"github.com/morganforge/dataguard/internal/worklist"
)

// DefaultMaxFileSize is the default max file size before rotation (10MB).
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// maxErrorRunes caps the error text kept per event.
const maxErrorRunes = 256

// =============================================================================
// EVENT
// =============================================================================

// Kind is the journal event kind.
type Kind string

const (
	KindEncrypted         Kind = "encrypted"
	KindIgnored           Kind = "ignored"
	KindScanStarted       Kind = "scan_started"
	KindScanCompleted     Kind = "scan_completed"
	KindConfidenceClamped Kind = "confidence_clamped"
)

// Event is one journal line. It never carries a raw detection value.
type Event struct {
	Timestamp  time.Time         `json:"timestamp"`
	Kind       Kind              `json:"kind"`
	SessionID  string            `json:"session_id"`
	ID         string            `json:"id,omitempty"`
	Type       string            `json:"type,omitempty"`
	Source     string            `json:"source,omitempty"`
	Masked     string            `json:"masked,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
	Tier       string            `json:"tier,omitempty"`
	Error      string            `json:"error,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// FromDetection fills the record fields of an event from d, masked.
func FromDetection(kind Kind, d detection.Detection) Event {
	a := d.Assess()
	return Event{
		Kind:       kind,
		ID:         d.ID,
		Type:       d.Type.String(),
		Source:     d.Source,
		Masked:     d.Masked(),
		Confidence: d.Confidence,
		Tier:       a.Tier.String(),
	}
}

// =============================================================================
// REDACTION
// =============================================================================

// digitRun matches card and account numbers that may leak into error text.
var digitRun = regexp.MustCompile(`\d[\d\- ]{6,}\d`)

// Redact masks long digit runs in free text.
func Redact(s string) string {
	return digitRun.ReplaceAllStringFunc(s, func(m string) string {
		return detection.Mask(m, detection.Financial)
	})
}

// =============================================================================
// JOURNAL
// =============================================================================

// Journal is a thread-safe JSON-lines outcome log.
type Journal struct {
	path      string
	file      *os.File
	maxSize   int64
	sessionID string
	logger    *slog.Logger
	now       func() time.Time
	mu        sync.Mutex
}

// Open opens or creates the journal at path with 0600 permissions.
func Open(path string, logger *slog.Logger) (*Journal, error) {
	if path == "" {
		path = DefaultPath()
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit journal: %w", err)
	}

	return &Journal{
		path:      path,
		file:      file,
		maxSize:   DefaultMaxFileSize,
		sessionID: uuid.New().String(),
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Log appends ev. Timestamp and session are filled when empty.
func (j *Journal) Log(ev Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return nil
	}

	if ev.Timestamp.IsZero() {
		ev.Timestamp = j.now()
	}
	if ev.SessionID == "" {
		ev.SessionID = j.sessionID
	}
	ev.Error = util.TruncateRunes(Redact(ev.Error), maxErrorRunes)
	for k, v := range ev.Metadata {
		ev.Metadata[k] = Redact(v)
	}

	if err := j.checkRotationLocked(); err != nil {
		return err
	}

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode audit event: %w", err)
	}
	line = append(line, '\n')
	if _, err := j.file.Write(line); err != nil {
		return fmt.Errorf("failed to write audit journal: %w", err)
	}
	return nil
}

// Notify records a worklist outcome. It satisfies worklist.Notifier.
func (j *Journal) Notify(_ context.Context, o worklist.Outcome) {
	kind := KindIgnored
	if o.Kind == worklist.Encrypted {
		kind = KindEncrypted
	}
	ev := FromDetection(kind, o.Detection)
	ev.Timestamp = o.At
	if o.Err != nil {
		ev.Error = o.Err.Error()
	}
	if err := j.Log(ev); err != nil {
		j.logger.Error("audit write failed", "kind", kind, "id", o.ID, "error", err)
	}
}

// ScanStarted records the start of a scan run.
func (j *Journal) ScanStarted(runID, kind string) error {
	return j.Log(Event{
		Kind:     KindScanStarted,
		ID:       runID,
		Metadata: map[string]string{"scan_kind": kind},
	})
}

// ScanCompleted records the end of a scan run.
func (j *Journal) ScanCompleted(runID, kind string, detections int) error {
	return j.Log(Event{
		Kind: KindScanCompleted,
		ID:   runID,
		Metadata: map[string]string{
			"scan_kind":  kind,
			"detections": fmt.Sprintf("%d", detections),
		},
	})
}

// ConfidenceClamped records a feed value that was forced into [0,1].
func (j *Journal) ConfidenceClamped(d detection.Detection, raw float64) error {
	ev := FromDetection(KindConfidenceClamped, d)
	ev.Metadata = map[string]string{"raw": fmt.Sprintf("%g", raw)}
	return j.Log(ev)
}

// =============================================================================
// FILE ROTATION
// =============================================================================

func (j *Journal) rotateLocked() error {
	if j.file == nil {
		return nil
	}
	if err := j.file.Close(); err != nil {
		return fmt.Errorf("failed to close audit journal for rotation: %w", err)
	}

	ext := filepath.Ext(j.path)
	base := strings.TrimSuffix(j.path, ext)
	rotated := fmt.Sprintf("%s_%s%s", base, j.now().Format("20060102_150405.000"), ext)

	if err := os.Rename(j.path, rotated); err != nil {
		j.file, _ = os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		return fmt.Errorf("failed to rotate audit journal: %w", err)
	}

	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		j.file = nil
		return fmt.Errorf("failed to create audit journal after rotation: %w", err)
	}
	j.file = file
	return nil
}

func (j *Journal) checkRotationLocked() error {
	if j.maxSize <= 0 {
		return nil
	}
	info, err := j.file.Stat()
	if err != nil {
		return nil
	}
	if info.Size() >= j.maxSize {
		return j.rotateLocked()
	}
	return nil
}

// SetMaxSize sets the rotation threshold in bytes. Zero disables rotation.
func (j *Journal) SetMaxSize(size int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.maxSize = size
}

// Path returns the journal path.
func (j *Journal) Path() string {
	return j.path
}

// SessionID returns the id stamped on this session's events.
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Close syncs and closes the journal.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return nil
	}
	_ = j.file.Sync()
	err := j.file.Close()
	j.file = nil
	return err
}

// DefaultPath returns ~/.dataguard/audit.log.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".dataguard", "audit.log")
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scan

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SCAN KINDS
// =============================================================================

// Kind is the scope of a scan run.
type Kind string

const (
	Quick  Kind = "quick"
	Full   Kind = "full"
	Custom Kind = "custom"
)

// KindInfo describes a scan kind for the Scans view.
type KindInfo struct {
	Kind        Kind
	Title       string
	Description string
	Duration    string
}

// Kinds lists the scan kinds in display order.
var Kinds = []KindInfo{
	{Quick, "Quick Scan", "Scan recent files and databases for immediate threats", "5-10 minutes"},
	{Full, "Full System Scan", "Comprehensive scan of all connected data sources", "30-60 minutes"},
	{Custom, "Custom Scan", "Select specific directories or databases to scan", "Variable"},
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, info := range Kinds {
		if info.Kind == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown scan kind %q (want quick, full or custom)", s)
}

// Info returns the display info for k.
func (k Kind) Info() KindInfo {
	for _, info := range Kinds {
		if info.Kind == k {
			return info
		}
	}
	return KindInfo{Kind: k, Title: string(k)}
}

// =============================================================================
// RUN RECORDS
// =============================================================================

// Status is the state of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// RunRecord is one entry in the scan history.
type RunRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Kind       Kind      `json:"kind"`
	Target     string    `json:"target"`
	Status     Status    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Detections int       `json:"detections"`
}

// Duration returns how long the run took, or has taken so far.
func (r RunRecord) Duration(now time.Time) time.Duration {
	if r.FinishedAt.IsZero() {
		return now.Sub(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// =============================================================================
// HISTORY
// =============================================================================

// History is a bounded, newest-first list of runs.
type History struct {
	records []RunRecord
	max     int
	now     func() time.Time
	mu      sync.RWMutex
}

// NewHistory creates a history keeping at most max records (0 = unlimited).
func NewHistory(max int) *History {
	return &History{max: max, now: time.Now}
}

// Begin records a new running scan and returns its id.
func (h *History) Begin(kind Kind, target string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	rec := RunRecord{
		ID:        uuid.New().String(),
		Name:      kind.Info().Title,
		Kind:      kind,
		Target:    target,
		Status:    StatusRunning,
		StartedAt: h.now(),
	}
	h.records = append([]RunRecord{rec}, h.records...)
	h.trimLocked()
	return rec.ID
}

// Finish closes a running record. Finishing an unknown or already finished
// record returns an error.
func (h *History) Finish(id string, status Status, detections int) error {
	if status == StatusRunning {
		return fmt.Errorf("invalid final status %s", status)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.records {
		if h.records[i].ID != id {
			continue
		}
		if h.records[i].Status != StatusRunning {
			return fmt.Errorf("invalid status transition from %s to %s", h.records[i].Status, status)
		}
		h.records[i].Status = status
		h.records[i].FinishedAt = h.now()
		h.records[i].Detections = detections
		return nil
	}
	return fmt.Errorf("scan run %s not found", id)
}

// Add inserts an already built record, keeping newest first.
func (h *History) Add(rec RunRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	h.records = append(h.records, rec)
	sort.SliceStable(h.records, func(i, j int) bool {
		return h.records[i].StartedAt.After(h.records[j].StartedAt)
	})
	h.trimLocked()
}

// Recent returns up to n records, newest first. n <= 0 returns all.
func (h *History) Recent(n int) []RunRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n <= 0 || n > len(h.records) {
		n = len(h.records)
	}
	out := make([]RunRecord, n)
	copy(out, h.records[:n])
	return out
}

// Len returns the number of records.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

func (h *History) trimLocked() {
	if h.max > 0 && len(h.records) > h.max {
		h.records = h.records[:h.max]
	}
}

// SeedDemo fills h with the sample runs shown on a fresh dashboard.
func SeedDemo(h *History, now time.Time) {
	h.Add(RunRecord{
		Name: "Employee Database Scan", Kind: Full, Target: "Database",
		Status: StatusCompleted, StartedAt: now.Add(-2 * time.Hour),
		FinishedAt: now.Add(-2*time.Hour + 40*time.Minute), Detections: 23,
	})
	h.Add(RunRecord{
		Name: "Document Repository", Kind: Custom, Target: "File System",
		Status: StatusRunning, StartedAt: now.Add(-10 * time.Minute), Detections: 8,
	})
	h.Add(RunRecord{
		Name: "Email Archive Scan", Kind: Full, Target: "Email",
		Status: StatusCompleted, StartedAt: now.Add(-24 * time.Hour),
		FinishedAt: now.Add(-23 * time.Hour), Detections: 156,
	})
}

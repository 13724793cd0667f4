// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/dataguard/internal/detection"
	"github.com/morganforge/dataguard/internal/worklist"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDemo(t *testing.T) {
	ds, err := Demo{}.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds, 6)
	for _, d := range ds {
		require.NoError(t, d.Validate())
	}
	assert.Equal(t, "4532015112830366", ds[0].Value)
	assert.Equal(t, "invoice.pdf", ds[3].Source)

	// Each call hands out a fresh slice.
	ds[0].Value = "x"
	assert.Equal(t, "4532015112830366", DemoDetections()[0].Value)
}

func TestFileJSON(t *testing.T) {
	path := writeFile(t, "f.json", `[
		{"id": "a", "timestamp": "2025-05-04T14:32:00Z", "value": "4532015112830366", "type": "Financial", "source": "x.docx", "confidence": 0.92},
		{"value": "jane@example.com", "type": "personal", "source": "y.csv", "confidence": 1.7}
	]`)

	ds, err := NewFile(path, quietLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds, 2)

	assert.Equal(t, "a", ds[0].ID)
	assert.Equal(t, detection.Financial, ds[0].Type)
	assert.Equal(t, 2025, ds[0].Timestamp.Year())

	assert.Equal(t, StableID("y.csv", "jane@example.com"), ds[1].ID)
	assert.Len(t, ds[1].ID, 16)
	assert.Equal(t, 1.0, ds[1].Confidence)
}

func TestClampFuncSeesRawValue(t *testing.T) {
	path := writeFile(t, "c.json", `[
		{"id": "hi", "timestamp": "2025-05-04", "value": "12345", "type": "financial", "source": "a", "confidence": 1.7},
		{"id": "ok", "timestamp": "2025-05-04", "value": "12345", "type": "financial", "source": "b", "confidence": 0.5},
		{"id": "lo", "timestamp": "2025-05-04", "value": "12345", "type": "financial", "source": "c", "confidence": -2}
	]`)

	seen := map[string]float64{}
	ctx := WithClampFunc(context.Background(), func(d detection.Detection, raw float64) {
		seen[d.ID] = raw
	})
	_, err := NewFile(path, quietLogger()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"hi": 1.7, "lo": -2}, seen)
}

func TestFileJSONEnvelope(t *testing.T) {
	path := writeFile(t, "f.json", `{"detections": [{"id": "1", "value": "v", "type": "personal", "confidence": 0.4}]}`)
	ds, err := NewFile(path, quietLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.True(t, ds[0].Timestamp.IsZero())
}

func TestFileYAML(t *testing.T) {
	list := writeFile(t, "f.yaml", `
- id: "1"
  timestamp: "2025-05-03 16:20"
  value: "475019948"
  type: financial
  source: invoice.pdf
  confidence: 0.95
`)
	ds, err := NewFile(list, quietLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, 16, ds[0].Timestamp.Hour())

	env := writeFile(t, "f.yml", `
detections:
  - id: "2"
    value: "555-123-4567"
    type: personal
    confidence: 0.78
`)
	ds, err = NewFile(env, quietLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, "2", ds[0].ID)

	scalar := writeFile(t, "bad.yaml", "just a string\n")
	_, err = NewFile(scalar, quietLogger()).Load(context.Background())
	assert.Error(t, err)
}

func TestFileRejectsUnknownType(t *testing.T) {
	path := writeFile(t, "f.json", `[{"id": "1", "value": "v", "type": "medical", "confidence": 0.4}]`)
	_, err := NewFile(path, quietLogger()).Load(context.Background())
	require.ErrorIs(t, err, detection.ErrUnknownType)
}

func TestFileRejectsBadTimestamp(t *testing.T) {
	path := writeFile(t, "f.json", `[{"id": "1", "timestamp": "yesterday", "value": "v", "type": "personal", "confidence": 0.4}]`)
	_, err := NewFile(path, quietLogger()).Load(context.Background())
	assert.Error(t, err)
}

func TestFileDerivesDistinctIDsForRepeats(t *testing.T) {
	path := writeFile(t, "r.json", `[
		{"value": "jane@example.com", "type": "personal", "source": "y.csv", "confidence": 0.8},
		{"value": "jane@example.com", "type": "personal", "source": "y.csv", "confidence": 0.6},
		{"value": "jane@example.com", "type": "personal", "source": "y.csv", "confidence": 0.4}
	]`)

	ds, err := NewFile(path, quietLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds, 3)

	base := StableID("y.csv", "jane@example.com")
	assert.Equal(t, base, ds[0].ID)
	assert.Equal(t, base+"-2", ds[1].ID)
	assert.Equal(t, base+"-3", ds[2].ID)

	_, err = worklist.New(nil).Load(ds)
	assert.NoError(t, err)
}

func TestStableID(t *testing.T) {
	assert.Equal(t, StableID("a", "b"), StableID("a", "b"))
	assert.NotEqual(t, StableID("a", "b"), StableID("ab", ""))
}

func TestOpen(t *testing.T) {
	src, err := Open("demo", nil)
	require.NoError(t, err)
	assert.Equal(t, "demo", src.Name())

	src, err = Open("findings.yaml", nil)
	require.NoError(t, err)
	assert.IsType(t, &File{}, src)

	src, err = Open("sqlite:scan.db", nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite:scan.db", src.Name())

	src, err = Open("scan.sqlite", nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, src)

	_, err = Open("notes.txt", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpenAllDefaultsToDemo(t *testing.T) {
	srcs, err := OpenAll(nil, nil)
	require.NoError(t, err)
	require.Len(t, srcs, 1)
	assert.Equal(t, "demo", srcs[0].Name())
}

type staticSource struct {
	name  string
	ds    []detection.Detection
	err   error
	delay time.Duration
}

func (s staticSource) Name() string { return s.name }

func (s staticSource) Load(ctx context.Context) ([]detection.Detection, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.ds, s.err
}

func TestLoadAllKeepsSourceOrder(t *testing.T) {
	a := staticSource{name: "a", delay: 20 * time.Millisecond, ds: []detection.Detection{{ID: "a1"}, {ID: "a2"}}}
	b := staticSource{name: "b", ds: []detection.Detection{{ID: "b1"}}}

	ds, err := LoadAll(context.Background(), a, b)
	require.NoError(t, err)
	require.Len(t, ds, 3)
	assert.Equal(t, "a1", ds[0].ID)
	assert.Equal(t, "b1", ds[2].ID)
}

func TestLoadAllFails(t *testing.T) {
	boom := errors.New("boom")
	a := staticSource{name: "slow", delay: time.Second}
	b := staticSource{name: "broken", err: boom}

	start := time.Now()
	_, err := LoadAll(context.Background(), a, b)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
	assert.Less(t, time.Since(start), time.Second)
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.db")
	ctx := context.Background()

	in := DemoDetections()
	require.NoError(t, WriteSQLite(ctx, path, in))

	ds, err := NewSQLite(path, quietLogger()).Load(ctx)
	require.NoError(t, err)
	require.Len(t, ds, len(in))

	// Newest first.
	assert.Equal(t, "1", ds[0].ID)
	assert.Equal(t, "6", ds[len(ds)-1].ID)
	for i := 1; i < len(ds); i++ {
		assert.False(t, ds[i].Timestamp.After(ds[i-1].Timestamp))
	}
}

func TestSQLiteMissingTable(t *testing.T) {
	path := writeFile(t, "empty.db", "")
	_, err := NewSQLite(path, quietLogger()).Load(context.Background())
	assert.Error(t, err)
}

func TestSQLiteMissingFileIsNotCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")
	_, err := NewSQLite(path, quietLogger()).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist), "load must not create the database")
}

func TestSQLiteLoadKeepsJournalMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scanner.db")
	ctx := context.Background()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, Schema)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO detections (id, ts, value, type, source, confidence)
		VALUES ('a', '2025-05-04T14:32:00Z', '4532015112830366', 'financial', 'x.docx', 0.92)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	ds, err := NewSQLite(path, quietLogger()).Load(ctx)
	require.NoError(t, err)
	require.Len(t, ds, 1)

	db, err = sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	var mode string
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "delete", mode)

	_, walErr := os.Stat(path + "-wal")
	assert.True(t, errors.Is(walErr, fs.ErrNotExist))
}

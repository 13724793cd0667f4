// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/morganforge/dataguard/internal/detection"
)

// File reads detections from a JSON or YAML document.
type File struct {
	Path   string
	logger *slog.Logger
}

// NewFile creates a file source.
func NewFile(path string, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.Default()
	}
	return &File{Path: path, logger: logger}
}

// Name implements Source.
func (f *File) Name() string { return f.Path }

// Load implements Source.
func (f *File) Load(ctx context.Context) ([]detection.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	var recs []record
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".json":
		recs, err = decodeJSON(data)
	case ".yaml", ".yml":
		recs, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}

	return normalizeAll(ctx, recs, f.Path, f.logger)
}

// envelope is the object form: {"detections": [...]}.
type envelope struct {
	Detections []record `json:"detections" yaml:"detections"`
}

func decodeJSON(data []byte) ([]record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var recs []record
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, err
		}
		return recs, nil
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return env.Detections, nil
}

func decodeYAML(data []byte) ([]record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var recs []record
		if err := root.Decode(&recs); err != nil {
			return nil, err
		}
		return recs, nil
	case yaml.MappingNode:
		var env envelope
		if err := root.Decode(&env); err != nil {
			return nil, err
		}
		return env.Detections, nil
	default:
		return nil, fmt.Errorf("line %d: expected a list or a mapping", root.Line)
	}
}

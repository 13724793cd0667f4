// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/morganforge/dataguard/internal/config"
	"github.com/morganforge/dataguard/internal/detection"
	"github.com/morganforge/dataguard/internal/feed"
	"github.com/morganforge/dataguard/internal/scan"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitFeedError    = 4
	ExitCanceled     = 130
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError reports a bad argument.
type UsageError struct {
	Field  string
	Value  string
	Reason string
}

func (e *UsageError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Reason)
}

// FeedError wraps a failure to load detections.
type FeedError struct {
	Err error
}

func (e *FeedError) Error() string {
	return "loading detections: " + e.Err.Error()
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// GetExitCode maps an error to a process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	var feedErr *FeedError
	var cfgErrs config.ValidateErrors
	switch {
	case errors.As(err, &usage),
		errors.Is(err, detection.ErrUnknownType),
		errors.Is(err, scan.ErrAlreadyRunning):
		return ExitUsageError
	case errors.As(err, &cfgErrs):
		return ExitConfigError
	case errors.As(err, &feedErr), errors.Is(err, feed.ErrUnsupportedFormat):
		return ExitFeedError
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	}
	return ExitGeneralError
}

// DisplayError writes err to w, as a JSON envelope when jsonMode is set.
func DisplayError(w io.Writer, command string, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		_ = NewJSONErrorResponse(command, err).Write(w, false)
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[X]"), err.Error())
}

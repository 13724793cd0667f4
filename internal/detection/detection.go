// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package detection holds the detection record and the pure rules applied to it.
package detection

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnknownType is returned when a type label is neither personal nor financial.
	ErrUnknownType = errors.New("unknown detection type")

	// ErrInvalidDetection wraps every validation failure of a Detection.
	ErrInvalidDetection = errors.New("invalid detection")
)

// =============================================================================
// TYPE
// =============================================================================

// Type is the sensitivity category of a detection.
type Type string

const (
	// Personal covers names, emails, phone numbers, addresses.
	Personal Type = "personal"
	// Financial covers card numbers, account numbers, routing numbers.
	Financial Type = "financial"
)

// Types lists every known type in display order.
var Types = []Type{Personal, Financial}

// ParseType parses a type label case-insensitively.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case Personal:
		return Personal, nil
	case Financial:
		return Financial, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	return t == Personal || t == Financial
}

// String returns the lowercase label.
func (t Type) String() string {
	return string(t)
}

// Label returns the capitalized label used on badges.
func (t Type) Label() string {
	switch t {
	case Personal:
		return "Personal"
	case Financial:
		return "Financial"
	default:
		return "Unknown"
	}
}

// =============================================================================
// DETECTION
// =============================================================================

// Detection is a single finding of sensitive content. It is a value object:
// nothing in this module edits a detection after it has been created.
type Detection struct {
	ID         string    `json:"id" yaml:"id" validate:"required"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	Value      string    `json:"value" yaml:"value" validate:"required"`
	Type       Type      `json:"type" yaml:"type" validate:"dgtype"`
	Source     string    `json:"source" yaml:"source"`
	Confidence float64   `json:"confidence" yaml:"confidence" validate:"gte=0,lte=1"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Registration only fails on an empty tag or nil func.
		_ = v.RegisterValidation("dgtype", func(fl validator.FieldLevel) bool {
			return Type(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

// Validate checks the record invariants: non-empty id and value, a known
// type, and a confidence within [0,1].
func (d Detection) Validate() error {
	err := getValidator().Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidDetection, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w %q: %s", ErrInvalidDetection, d.ID, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return strings.ToLower(fe.Field()) + " is required"
	case "dgtype":
		return fmt.Sprintf("type %q must be personal or financial", fe.Value())
	case "gte", "lte":
		return fmt.Sprintf("confidence %v outside [0,1]", fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag())
	}
}

// TimestampLayout is the medium-date, short-time display layout.
const TimestampLayout = "Jan 2, 2006, 3:04 PM"

// FormatTimestamp renders t for display in local time.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(TimestampLayout)
}

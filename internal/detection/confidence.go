// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detection

import "math"

// Tier is a coarse urgency bucket derived from a confidence score.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// Tier thresholds. Both comparisons are strict.
const (
	HighThreshold   = 0.85
	MediumThreshold = 0.50
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "High"
	case TierMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// Shade is the color weight used for the confidence bar and urgent border.
type Shade int

const (
	Shade300 Shade = 300
	Shade400 Shade = 400
	Shade500 Shade = 500
)

// Shade maps a tier to its color weight.
func (t Tier) Shade() Shade {
	switch t {
	case TierHigh:
		return Shade500
	case TierMedium:
		return Shade400
	default:
		return Shade300
	}
}

// Classify buckets a confidence score. Callers holding unchecked input should
// clamp it first with ClampConfidence.
func Classify(confidence float64) Tier {
	switch {
	case confidence > HighThreshold:
		return TierHigh
	case confidence > MediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// ClampConfidence forces c into [0,1]. The second result reports whether the
// input was out of range. NaN clamps to 0.
func ClampConfidence(c float64) (float64, bool) {
	switch {
	case math.IsNaN(c):
		return 0, true
	case c < 0:
		return 0, true
	case c > 1:
		return 1, true
	default:
		return c, false
	}
}

// Percent returns the display percentage, rounding half up.
func Percent(confidence float64) int {
	return int(math.Floor(confidence*100 + 0.5))
}

// Assessment is everything a renderer needs to present a confidence score.
type Assessment struct {
	Tier    Tier
	Percent int
	Shade   Shade
	// Urgent marks the record for an emphasized border.
	Urgent bool
	// Clamped is set when the input was outside [0,1].
	Clamped bool
	Type    Type
}

// Assess clamps, classifies and decorates a confidence score for type t.
// It depends only on its arguments, never on other records.
func Assess(confidence float64, t Type) Assessment {
	c, clamped := ClampConfidence(confidence)
	tier := Classify(c)
	return Assessment{
		Tier:    tier,
		Percent: Percent(c),
		Shade:   tier.Shade(),
		Urgent:  tier == TierHigh,
		Clamped: clamped,
		Type:    t,
	}
}

// Assess is shorthand for Assess(d.Confidence, d.Type).
func (d Detection) Assess() Assessment {
	return Assess(d.Confidence, d.Type)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detection

import (
	"strings"
	"unicode"
)

// MaskRune replaces every hidden character.
const MaskRune = '*'

// financialEdge is how many characters stay visible at each end of a
// financial value. Values of 2*financialEdge characters or fewer are fully masked.
const financialEdge = 2

// Mask returns a display-safe form of value. It is total and deterministic.
//
// Personal values have every word character (any Unicode letter or digit, and
// the underscore) replaced, so
// separators like dashes, dots and spaces keep the shape visible. Financial
// values longer than four characters keep the first two and last two; shorter
// ones are masked entirely. Any other type is masked entirely.
//
// Lengths are counted in runes, so the output always has as many runes as the input.
func Mask(value string, t Type) string {
	switch t {
	case Personal:
		return maskWordRunes(value)
	case Financial:
		return maskInterior(value, financialEdge)
	default:
		return strings.Repeat(string(MaskRune), len([]rune(value)))
	}
}

func maskWordRunes(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if isWordRune(r) {
			b.WriteRune(MaskRune)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func maskInterior(value string, edge int) string {
	runes := []rune(value)
	n := len(runes)
	if n <= 2*edge {
		return strings.Repeat(string(MaskRune), n)
	}
	var b strings.Builder
	b.Grow(len(value))
	b.WriteString(string(runes[:edge]))
	b.WriteString(strings.Repeat(string(MaskRune), n-2*edge))
	b.WriteString(string(runes[n-edge:]))
	return b.String()
}

// isWordRune matches letters and digits in any script, plus '_'.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Masked returns the display-safe value of d.
func (d Detection) Masked() string {
	return Mask(d.Value, d.Type)
}

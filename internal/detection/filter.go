// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detection

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TypeFilter selects detections by type. The zero value selects every type.
type TypeFilter struct {
	t   Type
	set bool
}

// AllTypes is the absent type filter.
var AllTypes = TypeFilter{}

// Only returns a filter matching exactly t.
func Only(t Type) TypeFilter {
	return TypeFilter{t: t, set: true}
}

// Type returns the selected type and whether one is set.
func (f TypeFilter) Type() (Type, bool) {
	return f.t, f.set
}

// Matches reports whether d passes the type predicate.
func (f TypeFilter) Matches(d Detection) bool {
	return !f.set || d.Type == f.t
}

// String returns "all" or the type label.
func (f TypeFilter) String() string {
	if !f.set {
		return "all"
	}
	return f.t.String()
}

// Query is a compiled search term. The zero value matches everything.
type Query struct {
	needle string
}

// NewQuery lower-cases term for matching. An empty term matches everything.
func NewQuery(term string) Query {
	if term == "" {
		return Query{}
	}
	return Query{needle: lower(term)}
}

// Matches reports whether the term occurs in the source label or the raw value.
// Only the masked form is ever rendered.
func (q Query) Matches(d Detection) bool {
	if q.needle == "" {
		return true
	}
	return strings.Contains(lower(d.Source), q.needle) ||
		strings.Contains(lower(d.Value), q.needle)
}

// Empty reports whether the query matches everything.
func (q Query) Empty() bool {
	return q.needle == ""
}

// Filter returns the detections passing both the type filter and the search
// term, in their original order. The input slice is never modified.
func Filter(ds []Detection, tf TypeFilter, term string) []Detection {
	q := NewQuery(term)
	out := make([]Detection, 0, len(ds))
	for _, d := range ds {
		if tf.Matches(d) && q.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}

// TabCounts are the numbers shown on the type tabs.
type TabCounts struct {
	All       int
	Personal  int
	Financial int
}

// Counts recomputes every tab count for the current search term. Call it
// whenever the worklist or the term changes.
func Counts(ds []Detection, term string) TabCounts {
	q := NewQuery(term)
	var c TabCounts
	for _, d := range ds {
		if !q.Matches(d) {
			continue
		}
		c.All++
		switch d.Type {
		case Personal:
			c.Personal++
		case Financial:
			c.Financial++
		}
	}
	return c
}

// For returns the count for a tab filter.
func (c TabCounts) For(tf TypeFilter) int {
	t, ok := tf.Type()
	if !ok {
		return c.All
	}
	switch t {
	case Personal:
		return c.Personal
	case Financial:
		return c.Financial
	default:
		return 0
	}
}

// lower applies Unicode lower-casing. A Caser is stateful, so each call gets its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

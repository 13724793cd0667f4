// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package detection holds the detection record and the pure rules applied to it
before anything reaches the screen.

# Rules

  - Mask turns a raw value into a display-safe string. Personal values keep only
    their separators; financial values keep two characters at each edge when
    longer than four characters.
  - Classify buckets a confidence score into High, Medium or Low. Boundaries
    are exclusive on the upper side: 0.85 is Medium, 0.50 is Low.
  - Filter narrows a detection slice by type and a case-insensitive search term
    without reordering it.

# Usage

	safe := detection.Mask(d.Value, d.Type)
	a := detection.Assess(d.Confidence, d.Type)
	if a.Urgent {
		// emphasized border
	}
	view := detection.Filter(all, detection.Only(detection.Financial), "invoice")

Search matches the raw value as well as the source label. The renderer never
shows the raw value, so this is a sensitivity boundary: callers that expose
search to less trusted operators should be aware that a query can confirm the
presence of a secret it cannot see.
*/
package detection

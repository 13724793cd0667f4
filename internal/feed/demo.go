// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"context"
	"time"

	"github.com/morganforge/dataguard/internal/detection"
)

// Demo is the built-in sample feed.
type Demo struct{}

// Name implements Source.
func (Demo) Name() string { return "demo" }

// Load implements Source.
func (Demo) Load(ctx context.Context) ([]detection.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DemoDetections(), nil
}

// DemoDetections returns a fresh copy of the sample detections.
func DemoDetections() []detection.Detection {
	at := func(day, hour, min int) time.Time {
		return time.Date(2025, time.May, day, hour, min, 0, 0, time.Local)
	}
	return []detection.Detection{
		{ID: "1", Timestamp: at(4, 14, 32), Value: "4532015112830366", Type: detection.Financial, Source: "example.docx", Confidence: 0.92},
		{ID: "2", Timestamp: at(4, 13, 15), Value: "johndoe@example.com", Type: detection.Personal, Source: "contacts.xlsx", Confidence: 0.86},
		{ID: "3", Timestamp: at(4, 10, 45), Value: "555-123-4567", Type: detection.Personal, Source: "customer_data.csv", Confidence: 0.78},
		{ID: "4", Timestamp: at(3, 16, 20), Value: "475019948", Type: detection.Financial, Source: "invoice.pdf", Confidence: 0.95},
		{ID: "5", Timestamp: at(3, 14, 10), Value: "123 Main St, Anytown, USA", Type: detection.Personal, Source: "shipping_info.doc", Confidence: 0.82},
		{ID: "6", Timestamp: at(2, 9, 33), Value: "1234-5678-9012-3456", Type: detection.Financial, Source: "payment_details.txt", Confidence: 0.88},
	}
}

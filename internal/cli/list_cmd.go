// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/dataguard/internal/detection"
	"github.com/morganforge/dataguard/internal/ui/styles"
	"github.com/morganforge/dataguard/internal/util"
)

// ListItem is one detection as printed by list. It never carries the raw value.
type ListItem struct {
	ID         string    `json:"id"`
	Masked     string    `json:"masked"`
	Type       string    `json:"type"`
	Source     string    `json:"source"`
	Confidence int       `json:"confidence"`
	Tier       string    `json:"tier"`
	Urgent     bool      `json:"urgent"`
	Timestamp  time.Time `json:"timestamp"`

	assessment detection.Assessment
}

// ListData is the --json payload of the list command.
type ListData struct {
	Type   string         `json:"type"`
	Search string         `json:"search,omitempty"`
	Counts map[string]int `json:"counts"`
	Items  []ListItem     `json:"detections"`
}

// HandleList prints the detections matching --type and --search.
func HandleList(ctx context.Context, env *Env, args Args) error {
	p := args.Parser
	if p == nil {
		p = NewArgParser(nil)
	}

	tf := detection.AllTypes
	if raw := p.Flag("type", "t"); raw != "" {
		t, err := detection.ParseType(raw)
		if err != nil {
			return &UsageError{Field: "--type", Value: raw, Reason: "must be personal or financial"}
		}
		tf = detection.Only(t)
	}
	term := p.Flag("search", "s")

	ds, err := LoadDetections(ctx, env, env.Sources(args))
	if err != nil {
		return err
	}
	data := BuildListData(ds, tf, term)

	if args.JSON {
		return NewJSONResponse("list", data).Write(env.Stdout, env.Highlight)
	}
	printList(env, data)
	return nil
}

// BuildListData filters ds and converts it to printable items.
func BuildListData(ds []detection.Detection, tf detection.TypeFilter, term string) ListData {
	counts := detection.Counts(ds, term)
	shown := detection.Filter(ds, tf, term)

	items := make([]ListItem, len(shown))
	for i, d := range shown {
		a := d.Assess()
		items[i] = ListItem{
			ID:         d.ID,
			Masked:     d.Masked(),
			Type:       d.Type.String(),
			Source:     d.Source,
			Confidence: a.Percent,
			Tier:       a.Tier.String(),
			Urgent:     a.Urgent,
			Timestamp:  d.Timestamp,
			assessment: a,
		}
	}
	return ListData{
		Type:   tf.String(),
		Search: term,
		Counts: map[string]int{
			"all":       counts.All,
			"personal":  counts.Personal,
			"financial": counts.Financial,
		},
		Items: items,
	}
}

func printList(env *Env, data ListData) {
	fmt.Fprintln(env.Stdout, TitleStyle.Render(fmt.Sprintf("Detections  all %d  personal %d  financial %d",
		data.Counts["all"], data.Counts["personal"], data.Counts["financial"])))

	if len(data.Items) == 0 {
		fmt.Fprintln(env.Stdout, DimStyle.Render("No detections match the current filters."))
		return
	}

	for _, it := range data.Items {
		a := it.assessment
		conf := lipgloss.NewStyle().Foreground(styles.ShadeColor(a.Type, a.Shade)).
			Render(fmt.Sprintf("%3d%%", it.Confidence))
		mark := " "
		if it.Urgent {
			mark = WarningStyle.Render("!")
		}
		fmt.Fprintf(env.Stdout, "%s %-4s %s  %s  %-9s  %s  %s\n",
			mark,
			it.ID,
			util.PadRight(util.TruncateWidth(it.Masked, 28), 28),
			conf,
			a.Type.Label(),
			util.PadRight(util.TruncateWidth(it.Source, 24), 24),
			DimStyle.Render(detection.FormatTimestamp(it.Timestamp)),
		)
	}
}

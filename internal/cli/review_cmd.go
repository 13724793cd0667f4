// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/morganforge/dataguard/internal/detection"
	"github.com/morganforge/dataguard/internal/ui/components"
	"github.com/morganforge/dataguard/internal/worklist"
)

// Prompter reads one line of operator input. *liner.State satisfies it.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// ReviewData is the --json payload of the review command.
type ReviewData struct {
	Encrypted []string `json:"encrypted"`
	Ignored   []string `json:"ignored"`
	Skipped   []string `json:"skipped"`
	Remaining int      `json:"remaining"`
}

// HandleReview walks the open detections and asks for a decision on each.
func HandleReview(ctx context.Context, env *Env, args Args) error {
	if err := RequiresTTY("review detections"); err != nil {
		return err
	}

	j, err := OpenJournal(env.Config, env)
	if err != nil {
		env.Logger.Warn("audit journal unavailable", "error", err)
	}
	if j != nil {
		defer j.Close()
	}
	ds, err := LoadDetections(RecordClamps(ctx, env, j), env, env.Sources(args))
	if err != nil {
		return err
	}

	wl, err := NewWorklist(env, ds, j, printNotifier(env.Stderr))
	if err != nil {
		return err
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	data, err := Review(ctx, env, wl, line)
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("review", data).Write(env.Stdout, env.Highlight)
	}
	fmt.Fprintf(env.Stdout, "%s encrypted %d, ignored %d, skipped %d, open %d\n",
		SuccessStyle.Render("[OK]"), len(data.Encrypted), len(data.Ignored), len(data.Skipped), data.Remaining)
	return nil
}

// Review prompts for every detection currently in wl. Prompt abort or EOF
// ends the session early without error.
func Review(ctx context.Context, env *Env, wl *worklist.Worklist, p Prompter) (ReviewData, error) {
	data := ReviewData{Encrypted: []string{}, Ignored: []string{}, Skipped: []string{}}
	pending := wl.List()

loop:
	for i, d := range pending {
		if err := ctx.Err(); err != nil {
			return data, err
		}
		fmt.Fprintf(env.Stdout, "\n%s\n", RenderSeparator(50))
		fmt.Fprintf(env.Stdout, "%s (%d of %d)\n", TitleStyle.UnsetMarginBottom().Render("Detection "+d.ID), i+1, len(pending))
		printDetection(env.Stdout, d)

		for {
			answer, err := p.Prompt("[e]ncrypt  [i]gnore  [s]kip  [q]uit > ")
			if err != nil {
				if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
					break loop
				}
				return data, err
			}

			switch strings.ToLower(strings.TrimSpace(answer)) {
			case "e", "encrypt":
				if _, ok := wl.Encrypt(ctx, d.ID); ok {
					data.Encrypted = append(data.Encrypted, d.ID)
				}
			case "i", "ignore":
				if _, ok := wl.Ignore(ctx, d.ID); ok {
					data.Ignored = append(data.Ignored, d.ID)
				}
			case "s", "skip", "":
				data.Skipped = append(data.Skipped, d.ID)
			case "q", "quit":
				break loop
			default:
				fmt.Fprintln(env.Stdout, WarningStyle.Render("Please answer e, i, s or q."))
				continue
			}
			break
		}
	}

	data.Remaining = wl.Len()
	return data, nil
}

func printDetection(w io.Writer, d detection.Detection) {
	a := d.Assess()
	fmt.Fprintf(w, "%s %s\n", RenderLabel("Value"), ValueStyle.Render(d.Masked()))
	fmt.Fprintf(w, "%s %s\n", RenderLabel("Type"), d.Type.Label())
	fmt.Fprintf(w, "%s %d%% (%s)\n", RenderLabel("Confidence"), a.Percent, a.Tier)
	fmt.Fprintf(w, "%s %s\n", RenderLabel("Source"), d.Source)
	fmt.Fprintf(w, "%s %s\n", RenderLabel("Detected"), detection.FormatTimestamp(d.Timestamp))
}

// printNotifier reports outcomes with the dashboard's toast wording.
func printNotifier(w io.Writer) worklist.Notifier {
	return worklist.NotifierFunc(func(_ context.Context, o worklist.Outcome) {
		t := components.OutcomeToast(o)
		style := SuccessStyle
		if t.Kind == components.ToastKindError {
			style = ErrorStyle
		}
		fmt.Fprintf(w, "%s %s\n", style.Render(t.Title+":"), t.Message)
	})
}

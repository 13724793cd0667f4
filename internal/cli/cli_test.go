// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/dataguard/internal/audit"
	"github.com/morganforge/dataguard/internal/config"
	"github.com/morganforge/dataguard/internal/detection"
	"github.com/morganforge/dataguard/internal/feed"
	"github.com/morganforge/dataguard/internal/logging"
	"github.com/morganforge/dataguard/internal/scan"
	"github.com/morganforge/dataguard/internal/worklist"
)

func testEnv(t *testing.T) (*Env, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Audit.Enabled = false
	cfg.Scan.IntervalMS = 50
	require.NoError(t, cfg.Validate())
	var out, errOut bytes.Buffer
	return &Env{
		Config: cfg,
		Logger: logging.Discard(),
		Stdout: &out,
		Stderr: &errOut,
		Now:    time.Now,
	}, &out, &errOut
}

func decode(t *testing.T, buf *bytes.Buffer, data interface{}) JSONResponse {
	t.Helper()
	resp := JSONResponse{Data: data}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	return resp
}

// =============================================================================
// ARG PARSER TESTS
// =============================================================================

func TestArgParser(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name: "subcommand with flag",
			args: []string{"get", "--lines", "50"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "get", p.Subcommand())
				assert.Equal(t, "50", p.Flag("lines"))
			},
		},
		{
			name: "flag with equals",
			args: []string{"--search=invoice"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "invoice", p.Flag("search"))
				assert.Empty(t, p.Subcommand())
			},
		},
		{
			name: "explicit boolean",
			args: []string{"--force=false", "--json=true"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.False(t, p.BoolFlag("force"))
				assert.True(t, p.BoolFlag("json"))
				assert.True(t, p.HasFlag("force"))
			},
		},
		{
			name: "trailing boolean",
			args: []string{"init", "--force"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.True(t, p.BoolFlag("force", "f"))
			},
		},
		{
			name: "short alias",
			args: []string{"-t", "financial"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "financial", p.Flag("type", "t"))
			},
		},
		{
			name: "positionals",
			args: []string{"set", "ui.theme", "light"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, 3, p.PositionalCount())
				assert.Equal(t, []string{"ui.theme", "light"}, p.PositionalFrom(1))
				assert.Empty(t, p.Positional(5))
				assert.Nil(t, p.PositionalFrom(9))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, NewArgParser(tt.args))
		})
	}
}

func TestArgParserFlagInt(t *testing.T) {
	p := NewArgParser([]string{"--n", "12", "--bad", "x"})
	n, err := p.FlagInt("n", 0)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = p.FlagInt("missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = p.FlagInt("bad", 0)
	var usage *UsageError
	assert.True(t, errors.As(err, &usage))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"true", "YES", "y", "1", "on"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"false", "No", "n", "0", "off"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

// =============================================================================
// COMMAND PARSING TESTS
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{nil, CmdTUI},
		{[]string{"tui"}, CmdTUI},
		{[]string{"list"}, CmdList},
		{[]string{"LS"}, CmdList},
		{[]string{"scan", "--kind", "full"}, CmdScan},
		{[]string{"review"}, CmdReview},
		{[]string{"config", "show"}, CmdConfig},
		{[]string{"version"}, CmdVersion},
		{[]string{"--help"}, CmdHelp},
	}
	for _, tt := range tests {
		cmd, _, err := Parse(tt.argv)
		require.NoError(t, err, "%v", tt.argv)
		assert.Equal(t, tt.want, cmd, "%v", tt.argv)
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args, err := Parse([]string{"--json", "-v", "--feed", "a.json", "list", "--feed=sqlite:b.db", "--type", "personal", "--config=/tmp/c.toml"})
	require.NoError(t, err)
	assert.Equal(t, CmdList, cmd)
	assert.True(t, args.JSON)
	assert.True(t, args.Verbose)
	assert.Equal(t, []string{"a.json", "sqlite:b.db"}, args.Feeds)
	assert.Equal(t, "/tmp/c.toml", args.ConfigPath)
	assert.Equal(t, "personal", args.Parser.Flag("type"))
}

func TestParseErrors(t *testing.T) {
	_, _, err := Parse([]string{"frobnicate"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	_, _, err = Parse([]string{"--feed"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "list", CmdList.String())
	assert.Equal(t, "tui", CmdTUI.String())
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{errors.New("boom"), ExitGeneralError},
		{&UsageError{Field: "x", Reason: "bad"}, ExitUsageError},
		{fmt.Errorf("wrap: %w", detection.ErrUnknownType), ExitUsageError},
		{scan.ErrAlreadyRunning, ExitUsageError},
		{fmt.Errorf("invalid config: %w", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}), ExitConfigError},
		{&FeedError{Err: feed.ErrUnsupportedFormat}, ExitFeedError},
		{context.Canceled, ExitCanceled},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetExitCode(tt.err), "%v", tt.err)
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, "list", errors.New("boom"), true)
	resp := decode(t, &buf, nil)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "boom", *resp.Error)

	buf.Reset()
	DisplayError(&buf, "list", errors.New("boom"), false)
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	DisplayError(&buf, "list", nil, false)
	assert.Empty(t, buf.String())
}

// =============================================================================
// LIST TESTS
// =============================================================================

func TestBuildListData(t *testing.T) {
	data := BuildListData(feed.DemoDetections(), detection.Only(detection.Financial), "")
	assert.Equal(t, "financial", data.Type)
	assert.Equal(t, map[string]int{"all": 6, "personal": 3, "financial": 3}, data.Counts)
	require.Len(t, data.Items, 3)
	assert.Equal(t, "45************66", data.Items[0].Masked)
	assert.Equal(t, 92, data.Items[0].Confidence)
	assert.Equal(t, "High", data.Items[0].Tier)
	assert.True(t, data.Items[0].Urgent)
}

func TestHandleListJSON(t *testing.T) {
	env, out, _ := testEnv(t)
	_, args, err := Parse([]string{"--json", "list", "--search", "INVOICE"})
	require.NoError(t, err)

	require.NoError(t, HandleList(context.Background(), env, args))
	assert.NotContains(t, out.String(), "475019948")

	var data ListData
	resp := decode(t, out, &data)
	assert.True(t, resp.Success)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "invoice.pdf", data.Items[0].Source)
	assert.Equal(t, "47*****48", data.Items[0].Masked)
	assert.Equal(t, 1, data.Counts["all"])
}

func TestHandleListText(t *testing.T) {
	env, out, _ := testEnv(t)
	_, args, err := Parse([]string{"list", "--type", "personal"})
	require.NoError(t, err)

	require.NoError(t, HandleList(context.Background(), env, args))
	assert.Contains(t, out.String(), "*******@*******.***")
	assert.NotContains(t, out.String(), "johndoe@example.com")
	assert.NotContains(t, out.String(), "Financial")
}

func TestHandleListBadType(t *testing.T) {
	env, _, _ := testEnv(t)
	_, args, _ := Parse([]string{"list", "--type", "medical"})
	err := HandleList(context.Background(), env, args)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleListFeedFlag(t *testing.T) {
	env, out, _ := testEnv(t)
	path := filepath.Join(t.TempDir(), "d.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"x1","timestamp":"2025-05-04T14:32:00Z","value":"12","type":"financial","source":"a.txt","confidence":0.4}]`), 0600))

	_, args, err := Parse([]string{"--json", "--feed", path, "list"})
	require.NoError(t, err)
	require.NoError(t, HandleList(context.Background(), env, args))

	var data ListData
	decode(t, out, &data)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "**", data.Items[0].Masked)
	assert.Equal(t, "Low", data.Items[0].Tier)
}

func TestHandleListMissingFeed(t *testing.T) {
	env, _, _ := testEnv(t)
	_, args, _ := Parse([]string{"--feed", filepath.Join(t.TempDir(), "nope.json"), "list"})
	err := HandleList(context.Background(), env, args)
	assert.Equal(t, ExitFeedError, GetExitCode(err))
}

func TestRecordClampsWritesJournal(t *testing.T) {
	env, _, _ := testEnv(t)
	dir := t.TempDir()
	feedPath := filepath.Join(dir, "d.json")
	require.NoError(t, os.WriteFile(feedPath, []byte(`[{"id":"c1","timestamp":"2025-05-04","value":"secret-value","type":"personal","source":"a.txt","confidence":3}]`), 0600))

	j, err := audit.Open(filepath.Join(dir, "audit.log"), env.Logger)
	require.NoError(t, err)

	ds, err := LoadDetections(RecordClamps(context.Background(), env, j), env, []string{feedPath})
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, 1.0, ds[0].Confidence)
	require.NoError(t, j.Close())

	raw, err := os.ReadFile(filepath.Join(dir, "audit.log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "confidence_clamped")
	assert.NotContains(t, string(raw), "secret-value")
}

// =============================================================================
// SCAN TESTS
// =============================================================================

func TestHandleScanJSON(t *testing.T) {
	env, out, errOut := testEnv(t)
	_, args, err := Parse([]string{"--json", "scan", "--kind", "full"})
	require.NoError(t, err)

	require.NoError(t, HandleScan(context.Background(), env, args))
	var data ScanData
	resp := decode(t, out, &data)
	assert.True(t, resp.Success)
	assert.Equal(t, "full", data.Kind)
	assert.Equal(t, "completed", data.State)
	assert.Equal(t, 100.0, data.Progress)
	assert.Equal(t, uint64(1), data.Run)
	assert.Empty(t, errOut.String(), "json mode draws no progress")
}

func TestHandleScanBadKind(t *testing.T) {
	env, _, _ := testEnv(t)
	_, args, _ := Parse([]string{"scan", "--kind", "deep"})
	err := HandleScan(context.Background(), env, args)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestRunScanCanceled(t *testing.T) {
	env, _, errOut := testEnv(t)
	sim := scan.NewSimulator(scan.WithInterval(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data, err := RunScan(ctx, env, sim, scan.Quick, nil, true)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "idle", data.State)
	assert.Contains(t, errOut.String(), "Quick Scan")
}

// =============================================================================
// REVIEW TESTS
// =============================================================================

type scripted struct {
	answers []string
}

func (s *scripted) Prompt(string) (string, error) {
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func TestReview(t *testing.T) {
	env, out, errOut := testEnv(t)
	wl, err := NewWorklist(env, feed.DemoDetections(), nil, printNotifier(errOut))
	require.NoError(t, err)

	p := &scripted{answers: []string{"e", "what", "i", "", "q"}}
	data, err := Review(context.Background(), env, wl, p)
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, data.Encrypted)
	assert.Equal(t, []string{"2"}, data.Ignored)
	assert.Equal(t, []string{"3"}, data.Skipped)
	assert.Equal(t, 4, data.Remaining)

	assert.Contains(t, out.String(), "Please answer")
	assert.NotContains(t, out.String(), "4532015112830366")
	assert.Contains(t, errOut.String(), "Data encrypted:")
	assert.Contains(t, errOut.String(), "Detection ignored:")

	kind, ok := wl.Resolution("1")
	require.True(t, ok)
	assert.Equal(t, worklist.Encrypted, kind)
}

func TestReviewEOFEndsSession(t *testing.T) {
	env, _, errOut := testEnv(t)
	wl, err := NewWorklist(env, feed.DemoDetections(), nil, printNotifier(errOut))
	require.NoError(t, err)

	data, err := Review(context.Background(), env, wl, &scripted{answers: []string{"e"}})
	require.NoError(t, err)
	assert.Len(t, data.Encrypted, 1)
	assert.Equal(t, 5, data.Remaining)
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestHandleConfigInitGetSet(t *testing.T) {
	env, out, _ := testEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	_, args, _ := Parse([]string{"--config", path, "config", "init"})
	require.NoError(t, HandleConfig(env, args))
	assert.FileExists(t, path)

	err := HandleConfig(env, args)
	assert.Equal(t, ExitUsageError, GetExitCode(err), "init refuses to overwrite")

	_, args, _ = Parse([]string{"--config", path, "config", "init", "--force"})
	require.NoError(t, HandleConfig(env, args))

	_, args, _ = Parse([]string{"--config", path, "config", "set", "ui.theme", "light"})
	require.NoError(t, HandleConfig(env, args))
	assert.Equal(t, "light", env.Config.UI.Theme)

	loaded, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "light", loaded.UI.Theme)

	out.Reset()
	_, args, _ = Parse([]string{"config", "get", "ui.theme"})
	require.NoError(t, HandleConfig(env, args))
	assert.Equal(t, "light\n", out.String())
}

func TestHandleConfigSetKeepsEnvironmentOut(t *testing.T) {
	t.Setenv("DATAGUARD_FEED", "/tmp/one-off.json")
	env, _, _ := testEnv(t)
	env.Config.ApplyEnvOverrides()
	require.Equal(t, []string{"/tmp/one-off.json"}, env.Config.Feed.Sources)

	path := filepath.Join(t.TempDir(), "config.toml")
	_, args, _ := Parse([]string{"--config", path, "config", "init"})
	require.NoError(t, HandleConfig(env, args))

	_, args, _ = Parse([]string{"--config", path, "config", "set", "ui.theme", "light"})
	require.NoError(t, HandleConfig(env, args))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "one-off")

	saved, err := config.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "light", saved.UI.Theme)
	assert.Equal(t, []string{"demo"}, saved.Feed.Sources)
	assert.Equal(t, "light", env.Config.UI.Theme)
}

func TestHandleConfigGetListsAllKeys(t *testing.T) {
	env, out, _ := testEnv(t)
	_, args, _ := Parse([]string{"--json", "config", "get"})
	require.NoError(t, HandleConfig(env, args))

	values := map[string]interface{}{}
	decode(t, out, &values)
	assert.Len(t, values, len(config.GetAllKeys()))
	assert.Equal(t, "dark", values["ui.theme"])

	out.Reset()
	_, args, _ = Parse([]string{"config", "get"})
	require.NoError(t, HandleConfig(env, args))
	assert.Contains(t, out.String(), "scan.interval_ms")
}

func TestHandleConfigSetInvalid(t *testing.T) {
	env, _, _ := testEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	_, args, _ := Parse([]string{"--config", path, "config", "set", "ui.theme", "neon"})
	require.Error(t, HandleConfig(env, args))
	assert.Equal(t, "dark", env.Config.UI.Theme)
	assert.NoFileExists(t, path)
}

func TestHandleConfigShow(t *testing.T) {
	env, out, _ := testEnv(t)
	_, args, _ := Parse([]string{"config"})
	require.NoError(t, HandleConfig(env, args))
	assert.Contains(t, out.String(), "[scan]")

	out.Reset()
	_, args, _ = Parse([]string{"config", "bogus"})
	assert.Error(t, HandleConfig(env, args))
}

// =============================================================================
// VERSION AND HELP TESTS
// =============================================================================

func TestHandleVersion(t *testing.T) {
	env, out, _ := testEnv(t)
	require.NoError(t, HandleVersion(env, Args{JSON: true}))
	var data VersionData
	decode(t, out, &data)
	assert.Equal(t, Version, data.Version)

	out.Reset()
	require.NoError(t, HandleVersion(env, Args{}))
	assert.Contains(t, out.String(), "dataguard version")
}

func TestHandleHelp(t *testing.T) {
	env, out, _ := testEnv(t)
	require.NoError(t, HandleHelp(env))
	assert.True(t, strings.Contains(out.String(), "review"))
}

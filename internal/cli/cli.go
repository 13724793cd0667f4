// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/morganforge/dataguard/internal/config"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdList
	CmdScan
	CmdReview
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name used in JSON envelopes.
func (c Command) String() string {
	switch c {
	case CmdList:
		return "list"
	case CmdScan:
		return "scan"
	case CmdReview:
		return "review"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "tui"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Verbose    bool
	Quiet      bool
	JSON       bool
	ConfigPath string
	Feeds      []string

	// Command-specific arguments after the command name
	Raw    []string
	Parser *ArgParser
}

// Env is what a command handler runs against.
type Env struct {
	Config *config.Config
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time

	// Highlight colorizes JSON output.
	Highlight bool
}

// Sources returns the feed specs for this run: --feed flags win over config.
func (e *Env) Sources(args Args) []string {
	if len(args.Feeds) > 0 {
		return args.Feeds
	}
	return e.Config.Feed.Sources
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses argv (without the program name).
func Parse(argv []string) (Command, Args, error) {
	remaining, args, err := parseGlobalFlags(argv)
	if err != nil {
		return CmdHelp, args, err
	}
	if len(remaining) == 0 {
		return CmdTUI, args, nil
	}

	name := strings.ToLower(remaining[0])
	args.Raw = remaining[1:]
	args.Parser = NewArgParser(args.Raw)

	switch name {
	case "tui", "dashboard":
		return CmdTUI, args, nil
	case "list", "ls":
		return CmdList, args, nil
	case "scan":
		return CmdScan, args, nil
	case "review":
		return CmdReview, args, nil
	case "config":
		return CmdConfig, args, nil
	case "version", "--version", "-V":
		return CmdVersion, args, nil
	case "help", "--help", "-h":
		return CmdHelp, args, nil
	}
	return CmdHelp, args, &UsageError{Field: "command", Value: name, Reason: "unknown command (see 'dataguard help')"}
}

// parseGlobalFlags extracts the flags every command accepts.
func parseGlobalFlags(argv []string) ([]string, Args, error) {
	var args Args
	var remaining []string

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "-v" || arg == "--verbose":
			args.Verbose = true
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "--json":
			args.JSON = true
		case arg == "--config" || arg == "--feed":
			if i+1 >= len(argv) {
				return nil, args, &UsageError{Field: arg, Reason: "requires a value"}
			}
			i++
			if arg == "--config" {
				args.ConfigPath = argv[i]
			} else {
				args.Feeds = append(args.Feeds, argv[i])
			}
		case strings.HasPrefix(arg, "--config="):
			args.ConfigPath = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "--feed="):
			args.Feeds = append(args.Feeds, strings.TrimPrefix(arg, "--feed="))
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, args, nil
}

// =============================================================================
// VERSION AND HELP
// =============================================================================

// VersionData is the --json payload of the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// HandleVersion prints version information.
func HandleVersion(env *Env, args Args) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Write(env.Stdout, env.Highlight)
	}
	fmt.Fprintf(env.Stdout, "dataguard version %s\n", Version)
	fmt.Fprintf(env.Stdout, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(env.Stdout, "  Build date: %s\n", BuildDate)
	return nil
}

const usageMarkdown = `# dataguard

Review sensitive-data detections and simulate scans.

## Usage

    dataguard [global flags] [command] [flags]

## Commands

| Command | Description |
|---------|-------------|
| ` + "`tui`" + ` | Open the dashboard (default) |
| ` + "`list`" + ` | Print open detections. Flags: ` + "`--type TYPE`" + ` (personal or financial), ` + "`--search TERM`" + ` |
| ` + "`scan`" + ` | Run a simulated scan. Flags: ` + "`--kind KIND`" + ` (quick, full or custom) |
| ` + "`review`" + ` | Encrypt or ignore detections one by one |
| ` + "`config`" + ` | ` + "`show`" + `, ` + "`path`" + `, ` + "`init [--force]`" + `, ` + "`get [KEY]`" + `, ` + "`set KEY VALUE`" + ` |
| ` + "`version`" + ` | Print version information |

## Global flags

- ` + "`--feed SPEC`" + ` detection source, repeatable: ` + "`demo`" + `, a ` + "`.json`" + `/` + "`.yaml`" + ` file, or ` + "`sqlite:PATH`" + `
- ` + "`--config PATH`" + ` load configuration from PATH
- ` + "`--json`" + ` machine-readable output
- ` + "`-v, --verbose`" + ` log to stderr
- ` + "`-q, --quiet`" + ` suppress progress output
`

// UsageText returns the raw help text.
func UsageText() string {
	return usageMarkdown
}

// HandleHelp prints help, rendered as Markdown on a color terminal.
func HandleHelp(env *Env) error {
	out := usageMarkdown
	if ColorsEnabled() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(TerminalWidth()),
		)
		if err == nil {
			if rendered, err := r.Render(usageMarkdown); err == nil {
				out = rendered
			}
		}
	}
	_, err := io.WriteString(env.Stdout, out)
	return err
}

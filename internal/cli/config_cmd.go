// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/morganforge/dataguard/internal/config"
	"github.com/morganforge/dataguard/internal/util"
)

// ConfigPaths is the --json payload of "config path".
type ConfigPaths struct {
	Config string `json:"config"`
	Audit  string `json:"audit"`
	Log    string `json:"log"`
}

// HandleConfig runs the config subcommands: show (default), path, init,
// get [KEY] and set KEY VALUE.
func HandleConfig(env *Env, args Args) error {
	p := args.Parser
	if p == nil {
		p = NewArgParser(nil)
	}
	cfg := env.Config

	switch sub := p.Subcommand(); sub {
	case "", "show":
		if args.JSON {
			return NewJSONResponse("config", cfg).Write(env.Stdout, env.Highlight)
		}
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		_, err := env.Stdout.Write(buf.Bytes())
		return err

	case "path":
		path, err := configPath(args)
		if err != nil {
			return err
		}
		paths := ConfigPaths{Config: path, Audit: cfg.AuditPath(), Log: cfg.LogPath()}
		if args.JSON {
			return NewJSONResponse("config", paths).Write(env.Stdout, env.Highlight)
		}
		fmt.Fprintf(env.Stdout, "%s %s\n%s %s\n%s %s\n",
			RenderLabel("Config"), paths.Config,
			RenderLabel("Audit"), paths.Audit,
			RenderLabel("Log"), paths.Log)
		return nil

	case "init":
		path, err := configPath(args)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !p.BoolFlag("force", "f") {
			return &UsageError{Field: "config", Value: path, Reason: "already exists (use --force to overwrite)"}
		}
		if err := saveConfig(config.Default(), path); err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, SuccessStyle.Render("[OK]")+" wrote "+path)
		return nil

	case "get":
		key := p.Positional(1)
		if key == "" {
			return printAllKeys(env, args, cfg)
		}
		v, err := cfg.Get(key)
		if err != nil {
			return &UsageError{Field: "key", Value: key, Reason: err.Error()}
		}
		if args.JSON {
			return NewJSONResponse("config", map[string]interface{}{key: v}).Write(env.Stdout, env.Highlight)
		}
		fmt.Fprintln(env.Stdout, v)
		return nil

	case "set":
		key, value := p.Positional(1), p.Positional(2)
		if key == "" || p.PositionalCount() < 3 {
			return &UsageError{Field: "key", Reason: "usage: config set KEY VALUE"}
		}
		path, err := configPath(args)
		if err != nil {
			return err
		}
		// Edit the file as written, without environment overrides.
		next, err := config.ReadFile(path)
		if err != nil {
			return err
		}
		if err := next.Set(key, value); err != nil {
			return &UsageError{Field: key, Value: value, Reason: err.Error()}
		}
		if err := next.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := saveConfig(next, path); err != nil {
			return err
		}
		if err := cfg.Set(key, value); err != nil {
			env.Logger.Warn("running config not updated", "key", key, "error", err)
		}
		fmt.Fprintf(env.Stdout, "%s %s = %s\n", SuccessStyle.Render("[OK]"), key, value)
		return nil

	default:
		return &UsageError{Field: "config subcommand", Value: sub, Reason: "want show, path, init, get or set"}
	}
}

func configPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

func saveConfig(cfg *config.Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}

// printAllKeys lists every settable key with its current value.
func printAllKeys(env *Env, args Args, cfg *config.Config) error {
	keys := config.GetAllKeys()
	values := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		v, err := cfg.Get(k)
		if err != nil {
			return err
		}
		values[k] = v
	}
	if args.JSON {
		return NewJSONResponse("config", values).Write(env.Stdout, env.Highlight)
	}
	for _, k := range keys {
		fmt.Fprintf(env.Stdout, "%s %v\n", util.PadRight(k, 20), values[k])
	}
	return nil
}

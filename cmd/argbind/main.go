// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command argbind binds its arguments onto a sample copy job and prints the
// result. It is a playground for the argbind package.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/shayne/yargs"
	"github.com/yeetrun/argbind/pkg/argbind"
	"github.com/yeetrun/argbind/pkg/cmdutil"
)

type copyMode int

func (copyMode) EnumValues() []string { return []string{"Copy", "Move", "Link"} }

type copySettings struct {
	Source      string        `alias:"src" usage:"path" required:"true" help:"File or directory to copy."`
	Destination string        `alias:"dst" usage:"path" required:"true" help:"Where the copy is written."`
	Mode        copyMode      `show:"true" help:"How files are transferred."`
	Exclude     []string      `usage:"glob" help:"Patterns to skip."`
	Retries     int           `range:"0..10" default:"3" help:"Attempts per file before giving up."`
	Timeout     time.Duration `default:"30s" help:"Per-file timeout."`
	Wait        bool          `alias:"w" help:"Wait for Enter before exiting."`
	Token       string        `persist:"false" show:"false"`
}

type globalFlagsParsed struct {
	Config  string `flag:"config" help:"Load binding options from a TOML file"`
	State   string `flag:"state" help:"State file; \"auto\" uses the user config directory"`
	Save    bool   `flag:"save" help:"Save the bound values to the state file"`
	Width   int    `flag:"width" help:"Wrap help text at this width"`
	Verbose bool   `flag:"verbose" help:"Log binding decisions"`
}

// errInvalid is returned after the help text for invalid arguments has been
// printed.
var errInvalid = errors.New("invalid arguments")

type app struct {
	flags  globalFlagsParsed
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	log    *slog.Logger
}

func main() {
	a := &app{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
	if err := a.main(context.Background(), os.Args[1:]); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		}
		os.Exit(1)
	}
}

func (a *app) main(ctx context.Context, args []string) error {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return err
	}
	a.flags = result.Flags

	level := slog.LevelWarn
	if a.flags.Verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	handlers := map[string]yargs.SubcommandHandler{
		"run":   a.handleRun,
		"usage": a.handleUsage,
		"query": a.handleQuery,
	}
	return yargs.RunSubcommands(ctx, result.RemainingArgs, buildHelpConfig(), globalFlagsParsed{}, handlers)
}

func buildHelpConfig() yargs.HelpConfig {
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        "argbind",
			Description: "Bind /name value style arguments onto a sample copy job.",
			Examples: []string{
				"argbind run a.txt b.txt /Retries 5 /Exclude *.tmp *.bak",
				"argbind --state=auto --save run /src a.txt /dst b.txt /Mode move",
				"argbind query 'Source=a.txt&Destination=b.txt&Wait'",
			},
		},
		SubCommands: map[string]yargs.SubCommandInfo{
			"run": {
				Name:        "run",
				Description: "Bind arguments, validate them and print the bound values",
				Usage:       "[SOURCE DESTINATION] [/name value...]",
			},
			"usage": {
				Name:        "usage",
				Description: "Print the help text for the copy job",
			},
			"query": {
				Name:        "query",
				Description: "Bind a query string instead of arguments",
				Usage:       "QUERY",
			},
		},
	}
}

func (a *app) options() (argbind.Options, error) {
	opts := argbind.Options{
		DefaultArgNames: []string{"Source", "Destination"},
		WaitArgName:     "Wait",
		ApplicationName: "argbind run",
		Title:           "Copy files",
		Description:     "Copies Source to Destination, skipping excluded patterns.",
	}
	if a.flags.Config != "" {
		loaded, err := argbind.LoadOptions(a.flags.Config)
		if err != nil {
			return argbind.Options{}, err
		}
		opts = loaded
	}
	opts.Logger = a.log
	return opts, nil
}

func (a *app) newCmdLine() (*argbind.CmdLine, error) {
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	return argbind.New(&copySettings{}, opts)
}

func (a *app) statePath(cl *argbind.CmdLine) (string, error) {
	if a.flags.State == "auto" {
		return cl.DefaultStatePath()
	}
	return a.flags.State, nil
}

func (a *app) handleRun(ctx context.Context, args []string) error {
	cl, err := a.newCmdLine()
	if err != nil {
		return err
	}
	args = stripCommand(args, "run")

	path, err := a.statePath(cl)
	if err != nil {
		return err
	}
	if len(args) == 0 && path != "" {
		if !cl.Restore(path) {
			a.log.Info("no saved state", "path", path)
		}
	} else {
		cl.Bind(args)
	}
	return a.finish(cl, path)
}

func (a *app) handleQuery(ctx context.Context, args []string) error {
	cl, err := a.newCmdLine()
	if err != nil {
		return err
	}
	args = stripCommand(args, "query")
	if len(args) != 1 {
		return errors.New("query takes exactly one QUERY argument")
	}
	cl.BindQuery(args[0])
	path, err := a.statePath(cl)
	if err != nil {
		return err
	}
	return a.finish(cl, path)
}

func (a *app) handleUsage(ctx context.Context, args []string) error {
	cl, err := a.newCmdLine()
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, cl.RenderHelp(a.flags.Width))
	return nil
}

// finish validates the bound values and reports them.
func (a *app) finish(cl *argbind.CmdLine, path string) error {
	if cl.Help() {
		fmt.Fprint(a.out, cl.RenderHelp(a.flags.Width))
		return nil
	}
	if !cl.Validate() {
		printHelp(a.errOut, cl.RenderHelp(a.flags.Width))
		return errInvalid
	}
	if err := cl.Encode(a.out); err != nil {
		return err
	}
	if a.flags.Save && path != "" {
		if err := a.save(cl, path); err != nil {
			return err
		}
	}
	if cl.Wait() {
		return cmdutil.Pause(a.in, a.out, "Press Enter to exit.")
	}
	return nil
}

// save writes the state file, asking before replacing an existing one.
func (a *app) save(cl *argbind.CmdLine, path string) error {
	if _, err := os.Stat(path); err == nil {
		ok, err := cmdutil.Confirm(a.in, a.out, fmt.Sprintf("Overwrite saved state at %s?", path))
		if err != nil {
			return err
		}
		if !ok {
			a.log.Info("kept saved state", "path", path)
			return nil
		}
	}
	if err := cl.Save(path); err != nil {
		return err
	}
	a.log.Debug("saved state", "path", path)
	return nil
}

// printHelp writes help text that starts with an error block, colouring the
// errors up to the first blank line.
func printHelp(w io.Writer, help string) {
	errBlock, rest, _ := strings.Cut(help, "\n\n")
	fmt.Fprintln(w, color.RedString("%s", errBlock))
	fmt.Fprint(w, "\n"+rest)
}

func stripCommand(args []string, name string) []string {
	if len(args) > 0 && args[0] == name {
		return args[1:]
	}
	return args
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argbind binds command-line arguments onto the fields of a struct,
// validates them, renders usage and help text, and persists the bound values.
//
// # Declaring arguments
//
// Every exported field of the target struct is an argument. Struct tags refine
// it:
//
//	type Settings struct {
//	    Source  string   `alias:"src" usage:"path" help:"File to copy." required:"true"`
//	    Retries int      `range:"0..10" default:"3" help:"Attempts before giving up."`
//	    Exclude []string `help:"Patterns to skip."`
//	    Token   string   `persist:"false" show:"false"`
//	}
//
// Supported tags are arg (name, "-" to skip), alias, required, usage, help,
// show, persist, default, range and pattern. A boolean "help" argument with
// alias "?" is always added.
//
// # Binding
//
//	var s Settings
//	cl, err := argbind.New(&s, argbind.Options{DefaultArgNames: []string{"Source"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cl.Bind(os.Args[1:])
//	if cl.Help() || !cl.Validate() {
//	    fmt.Print(cl.RenderHelp(0))
//	    os.Exit(1)
//	}
//
// # Token syntax
//
// With the default "/" prefix:
//   - Named values: /Source a.txt, /Exclude *.tmp *.bak
//   - Aliases: /src a.txt
//   - Booleans: /Force, /Force true, /Force- (false)
//   - Default arguments: a leading run of unprefixed tokens
//
// Unknown arguments are ignored and values that fail to convert are reported
// by Validate rather than by Bind.
package argbind

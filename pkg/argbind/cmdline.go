// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/yeetrun/argbind/pkg/coerce"
)

// CmdLine binds command-line arguments onto a target struct.
//
// A CmdLine is not safe for concurrent use; callers must serialize binding
// passes on the same instance.
type CmdLine struct {
	target  any
	opts    *Options
	reg     *Registry
	values  *Bindings
	coercer coerce.Coercer
	binder  *Binder
	state   *StateCodec

	help bool
	errs []string
}

// New builds the argument registry for target, which must be a pointer to a
// struct, and checks opts against it. Errors wrap ErrBuild or
// ErrConfiguration.
func New(target any, opts Options) (*CmdLine, error) {
	return NewWithCoercer(target, opts, coerce.Default{})
}

// NewWithCoercer is like New but converts values with c.
func NewWithCoercer(target any, opts Options, c coerce.Coercer) (*CmdLine, error) {
	o := opts.withDefaults()
	cl := &CmdLine{target: target, opts: &o, coercer: c}

	reg, values, err := build(target, &cl.help, o.AutoAliases, c)
	if err != nil {
		return nil, err
	}
	if err := o.check(reg); err != nil {
		return nil, err
	}
	cl.reg = reg
	cl.values = values
	cl.binder = &Binder{Options: cl.opts, Coercer: c, Logger: o.Logger}
	cl.state = &StateCodec{TypeName: typeName(reflect.TypeOf(target)), Coercer: c, Logger: o.Logger}
	return cl, nil
}

// Registry returns the argument registry.
func (c *CmdLine) Registry() *Registry {
	return c.reg
}

// Options returns the binding options in effect.
func (c *CmdLine) Options() *Options {
	return c.opts
}

// Bindings returns the bound values.
func (c *CmdLine) Bindings() *Bindings {
	return c.values
}

// Target returns the bound struct pointer.
func (c *CmdLine) Target() any {
	return c.target
}

// Bind binds tokens, which must not include the program name.
func (c *CmdLine) Bind(tokens []string) {
	c.errs = nil
	c.binder.Bind(c.values, tokens)
}

// BindQuery binds a query string such as "Source=a.txt&Force".
func (c *CmdLine) BindQuery(query string) {
	c.errs = nil
	c.binder.BindQuery(c.values, query)
}

// BindSource binds from an explicit source.
func (c *CmdLine) BindSource(src Source) {
	c.errs = nil
	c.binder.BindSource(c.values, src)
}

// Validate checks the bound values and reports whether they are valid.
// The messages are available from Errors and ErrorText.
func (c *CmdLine) Validate() bool {
	c.errs = Check(c.values)
	return len(c.errs) == 0
}

// Errors returns the messages of the last Validate call.
func (c *CmdLine) Errors() []string {
	return c.errs
}

// ErrorText returns the messages of the last Validate call, one per line.
func (c *CmdLine) ErrorText() string {
	return strings.Join(c.errs, "\n")
}

// Help reports whether the help argument was given.
func (c *CmdLine) Help() bool {
	return c.help
}

// Wait reports the value of the wait argument after binding.
func (c *CmdLine) Wait() bool {
	return c.opts.Wait
}

// IsSet reports whether the named argument was supplied in the last pass.
func (c *CmdLine) IsSet(name string) bool {
	bv, ok := c.values.Lookup(name)
	return ok && bv.WasSet
}

// AddValidator attaches v to the named argument.
func (c *CmdLine) AddValidator(name string, v Validator) error {
	spec, ok := c.reg.Resolve(name)
	if !ok {
		return &ConfigurationError{Option: "validator", Value: name, Reason: "no such argument"}
	}
	spec.Validators = append(spec.Validators, v)
	return nil
}

// Usage returns the one-line usage, computing it on first use.
func (c *CmdLine) Usage() string {
	if c.opts.Usage == "" {
		c.opts.Usage = RenderUsage(c.opts, c.reg)
	}
	return c.opts.Usage
}

// RenderHelp returns the help text including the errors of the last
// Validate call. A maxWidth of zero or less uses the terminal width.
func (c *CmdLine) RenderHelp(maxWidth int) string {
	c.Usage()
	return RenderHelp(c.opts, c.values, c.errs, maxWidth)
}

// Encode writes the persistable values to w in the state file format.
func (c *CmdLine) Encode(w io.Writer) error {
	return c.state.Encode(w, c.values)
}

// Save writes the persistable values to path.
func (c *CmdLine) Save(path string) error {
	return c.state.SaveFile(path, c.values)
}

// Restore reads values saved by Save. It reports false when nothing could be
// restored. Restore does not validate.
func (c *CmdLine) Restore(path string) bool {
	return c.state.RestoreFile(path, c.values)
}

// DefaultStatePath returns the state file location for this application.
func (c *CmdLine) DefaultStatePath() (string, error) {
	if c.opts.ApplicationName == "" {
		return "", fmt.Errorf("%w: application name is required for the default state path", ErrConfiguration)
	}
	return DefaultStatePath(c.opts.ApplicationName)
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultArgumentPrefix is used when Options.ArgumentPrefix is empty.
const DefaultArgumentPrefix = "/"

// ErrConfiguration is wrapped by errors caused by Options that do not match
// the target.
var ErrConfiguration = errors.New("invalid argument configuration")

// ConfigurationError reports an option that refers to something the target
// does not provide.
type ConfigurationError struct {
	Option string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("option %s %q: %s", e.Option, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// Options configures how a target is bound and described.
type Options struct {
	// ArgumentPrefix marks a token as an argument name. Defaults to "/".
	ArgumentPrefix string `toml:"prefix,omitempty"`
	// DefaultArgNames are bound from leading tokens that carry no prefix.
	DefaultArgNames []string `toml:"default_args,omitempty"`
	// WaitArgName names a boolean argument copied into Wait after binding.
	WaitArgName string `toml:"wait_arg,omitempty"`

	ApplicationName string `toml:"application_name,omitempty"`
	Title           string `toml:"title,omitempty"`
	Description     string `toml:"description,omitempty"`
	// Usage is computed from the registry on first use when empty.
	Usage string `toml:"usage,omitempty"`

	// AutoAliases gives arguments without aliases the initials of their name.
	AutoAliases bool `toml:"auto_aliases,omitempty"`

	// Wait holds the value of the wait argument after binding.
	Wait bool `toml:"-"`

	// Logger receives debug output. Nil means slog.Default().
	Logger *slog.Logger `toml:"-"`
}

// LoadOptions reads Options from a TOML file.
func LoadOptions(path string) (Options, error) {
	var opts Options
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return Options{}, fmt.Errorf("failed to load options from %s: %w", path, err)
	}
	return opts, nil
}

// SaveOptions writes the static part of opts to a TOML file.
func SaveOptions(path string, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(opts); err != nil {
		return fmt.Errorf("failed to write options to %s: %w", path, err)
	}
	return f.Close()
}

func (o Options) withDefaults() Options {
	if o.ArgumentPrefix == "" {
		o.ArgumentPrefix = DefaultArgumentPrefix
	}
	if o.ApplicationName == "" && len(os.Args) > 0 {
		o.ApplicationName = filepath.Base(os.Args[0])
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// check verifies the options against the registry.
func (o *Options) check(reg *Registry) error {
	for _, name := range o.DefaultArgNames {
		if _, ok := reg.Resolve(name); !ok {
			return &ConfigurationError{Option: "default argument", Value: name, Reason: "no such argument"}
		}
	}
	if o.WaitArgName != "" {
		spec, ok := reg.Resolve(o.WaitArgName)
		if !ok {
			return &ConfigurationError{Option: "wait argument", Value: o.WaitArgName, Reason: "no such argument"}
		}
		if !spec.IsBool() {
			return &ConfigurationError{Option: "wait argument", Value: o.WaitArgName, Reason: "argument is not a boolean"}
		}
	}
	return nil
}

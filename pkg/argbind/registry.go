// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/camelcase"
)

// ErrBuild is wrapped by every error that prevents a registry from being built.
var ErrBuild = errors.New("argument registry build failed")

// DuplicateNameError is returned when a name or alias is registered twice.
type DuplicateNameError struct {
	Name     string // the colliding name or alias
	Argument string // the argument being registered
	Existing string // the argument that already owns Name
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("argument %q: name %q is already used by argument %q", e.Argument, e.Name, e.Existing)
}

func (e *DuplicateNameError) Unwrap() error {
	return ErrBuild
}

// Registry is the ordered set of argument specs of one target.
// Names and aliases share a single namespace.
type Registry struct {
	specs  []*ArgumentSpec
	lookup map[string]*ArgumentSpec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{lookup: make(map[string]*ArgumentSpec)}
}

// Register adds spec. It fails if the name or any alias is already taken,
// or if the spec repeats one of its own names.
func (r *Registry) Register(spec *ArgumentSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("%w: argument with empty name", ErrBuild)
	}
	seen := make(map[string]bool)
	for _, n := range spec.names() {
		if n == "" {
			return fmt.Errorf("%w: argument %q has an empty alias", ErrBuild, spec.Name)
		}
		if existing, ok := r.lookup[n]; ok {
			return &DuplicateNameError{Name: n, Argument: spec.Name, Existing: existing.Name}
		}
		if seen[n] {
			return &DuplicateNameError{Name: n, Argument: spec.Name, Existing: spec.Name}
		}
		seen[n] = true
	}
	for n := range seen {
		r.lookup[n] = spec
	}
	r.specs = append(r.specs, spec)
	return nil
}

// Resolve returns the spec whose name or alias equals token exactly.
func (r *Registry) Resolve(token string) (*ArgumentSpec, bool) {
	spec, ok := r.lookup[token]
	return spec, ok
}

// Specs returns the specs in registration order.
func (r *Registry) Specs() []*ArgumentSpec {
	return r.specs
}

// Len returns the number of registered specs.
func (r *Registry) Len() int {
	return len(r.specs)
}

// Taken reports whether name is used as a name or alias.
func (r *Registry) Taken(name string) bool {
	_, ok := r.lookup[name]
	return ok
}

// generateAliases gives every spec without aliases the initials of its
// camel-case name parts, skipping candidates that would collide.
func (r *Registry) generateAliases() {
	for _, spec := range r.specs {
		if len(spec.Aliases) > 0 || spec.IsHelp() {
			continue
		}
		alias := initials(spec.Name)
		if len(alias) < 2 || alias == spec.Name || r.Taken(alias) {
			continue
		}
		spec.Aliases = []string{alias}
		r.lookup[alias] = spec
	}
}

func initials(name string) string {
	var b strings.Builder
	for _, part := range camelcase.Split(name) {
		part = strings.TrimSpace(part)
		if part == "" || part == "_" || part == "-" {
			continue
		}
		b.WriteString(strings.ToLower(part[:1]))
	}
	return b.String()
}

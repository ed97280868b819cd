// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"reflect"

	"github.com/yeetrun/argbind/pkg/coerce"
)

// Show controls whether an argument appears in the usage line and help.
type Show int

const (
	// ShowDefault shows required arguments and the help flag only.
	ShowDefault Show = iota
	ShowTrue
	ShowFalse
)

func (s Show) String() string {
	switch s {
	case ShowTrue:
		return "true"
	case ShowFalse:
		return "false"
	default:
		return "default"
	}
}

// Name and alias of the implicit help argument.
const (
	HelpArgName  = "help"
	HelpArgAlias = "?"
)

// ArgumentSpec is the static description of one bindable field.
type ArgumentSpec struct {
	Name        string
	Aliases     []string
	Required    bool
	Usage       string // value hint, e.g. "path"
	Description string
	Show        Show
	Persist     bool
	Type        reflect.Type
	Validators  []Validator

	// index is the field path into the target struct. Nil for the
	// implicit help argument.
	index []int
}

// IsBool reports whether the argument is a boolean switch.
func (s *ArgumentSpec) IsBool() bool {
	return coerce.IsBool(s.Type)
}

// IsSlice reports whether the argument accepts multiple values.
func (s *ArgumentSpec) IsSlice() bool {
	return coerce.IsSlice(s.Type)
}

// IsHelp reports whether s is the implicit help argument.
func (s *ArgumentSpec) IsHelp() bool {
	return s.index == nil && s.Name == HelpArgName
}

// Shown resolves the tri-state visibility.
func (s *ArgumentSpec) Shown() bool {
	switch s.Show {
	case ShowTrue:
		return true
	case ShowFalse:
		return false
	}
	return s.Required || s.IsHelp()
}

// ShortName returns the first alias, or the name when there is none.
func (s *ArgumentSpec) ShortName() string {
	if len(s.Aliases) > 0 {
		return s.Aliases[0]
	}
	return s.Name
}

// Hint returns the usage hint, or the name when there is none.
func (s *ArgumentSpec) Hint() string {
	if s.Usage != "" {
		return s.Usage
	}
	return s.Name
}

func (s *ArgumentSpec) names() []string {
	out := make([]string, 0, 1+len(s.Aliases))
	out = append(out, s.Name)
	return append(out, s.Aliases...)
}

func helpSpec() *ArgumentSpec {
	return &ArgumentSpec{
		Name:        HelpArgName,
		Aliases:     []string{HelpArgAlias},
		Description: "Displays the help text.",
		Type:        reflect.TypeOf(false),
	}
}

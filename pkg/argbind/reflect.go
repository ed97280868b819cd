// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/yeetrun/argbind/pkg/coerce"
)

// Struct tags understood by the reflection pass.
const (
	tagArg      = "arg"
	tagAlias    = "alias"
	tagRequired = "required"
	tagUsage    = "usage"
	tagHelp     = "help"
	tagShow     = "show"
	tagPersist  = "persist"
	tagDefault  = "default"
	tagRange    = "range"
	tagPattern  = "pattern"
)

// build reflects over the exported fields of *target, registers a spec per
// field plus the implicit help argument bound to help, and applies default
// tags.
func build(target any, help *bool, autoAliases bool, c coerce.Coercer) (*Registry, *Bindings, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, nil, &ConfigurationError{Option: "target", Value: fmt.Sprintf("%T", target), Reason: "must be a non-nil pointer to a struct"}
	}
	v = v.Elem()
	t := v.Type()

	reg := NewRegistry()
	b := newBindings(reg)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get(tagArg) == "-" {
			continue
		}
		spec, err := specFromField(field)
		if err != nil {
			return nil, nil, err
		}
		if err := reg.Register(spec); err != nil {
			return nil, nil, err
		}
		fv := v.Field(i)
		if def := field.Tag.Get(tagDefault); def != "" {
			dv, err := c.ToType(def, field.Type)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: default for %s: %v", ErrBuild, spec.Name, err)
			}
			fv.Set(dv)
		}
		b.bind(spec, fv)
	}

	hs := helpSpec()
	if err := reg.Register(hs); err != nil {
		return nil, nil, err
	}
	b.bind(hs, reflect.ValueOf(help).Elem())

	if autoAliases {
		reg.generateAliases()
	}
	for _, bv := range b.values {
		if !c.IsEmptyValue(bv.field) {
			bv.def = c.ToString(bv.field)
		}
	}
	return reg, b, nil
}

func specFromField(field reflect.StructField) (*ArgumentSpec, error) {
	tag := field.Tag
	spec := &ArgumentSpec{
		Name:        field.Name,
		Usage:       tag.Get(tagUsage),
		Description: tag.Get(tagHelp),
		Persist:     true,
		Type:        field.Type,
		index:       field.Index,
	}
	if name := tag.Get(tagArg); name != "" {
		spec.Name = name
	}
	for _, alias := range strings.Split(tag.Get(tagAlias), ",") {
		if alias = strings.TrimSpace(alias); alias != "" {
			spec.Aliases = append(spec.Aliases, alias)
		}
	}

	var err error
	if spec.Required, err = boolTag(tag, tagRequired, false); err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", ErrBuild, field.Name, err)
	}
	if spec.Persist, err = boolTag(tag, tagPersist, true); err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", ErrBuild, field.Name, err)
	}
	if s, ok := tag.Lookup(tagShow); ok {
		show, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: invalid show tag %q", ErrBuild, field.Name, s)
		}
		if show {
			spec.Show = ShowTrue
		} else {
			spec.Show = ShowFalse
		}
	}

	if r := tag.Get(tagRange); r != "" {
		rng, err := parseRange(r)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", ErrBuild, field.Name, err)
		}
		spec.Validators = append(spec.Validators, rng)
	}
	if p := tag.Get(tagPattern); p != "" {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: invalid pattern: %v", ErrBuild, field.Name, err)
		}
		spec.Validators = append(spec.Validators, Pattern{Re: re})
	}
	return spec, nil
}

func boolTag(tag reflect.StructTag, key string, def bool) (bool, error) {
	s, ok := tag.Lookup(key)
	if !ok || s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s tag %q", key, s)
	}
	return b, nil
}

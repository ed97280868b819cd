// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"
	"reflect"
)

// ConversionError records a token that could not be converted for an argument.
// It never aborts binding; it is reported by validation.
type ConversionError struct {
	Argument string
	Value    string
	Err      error
}

func (e *ConversionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid value %q", e.Value)
	}
	return e.Err.Error()
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// BoundValue is the binding state of one argument: the target field itself,
// whether a value was explicitly supplied and the last conversion failure.
type BoundValue struct {
	Spec   *ArgumentSpec
	WasSet bool
	Err    *ConversionError

	field reflect.Value
	def   string
}

// Value returns the addressable field the argument is bound to.
func (b *BoundValue) Value() reflect.Value {
	return b.field
}

// Interface returns the current field value.
func (b *BoundValue) Interface() any {
	return b.field.Interface()
}

// Default returns the field value captured before any binding, formatted by
// the Coercer. Empty means no default.
func (b *BoundValue) Default() string {
	return b.def
}

func (b *BoundValue) set(v reflect.Value) {
	b.field.Set(v)
	b.WasSet = true
	b.Err = nil
}

func (b *BoundValue) fail(value string, err error) {
	b.Err = &ConversionError{Argument: b.Spec.Name, Value: value, Err: err}
}

// Bindings pairs every spec of a registry with its bound value.
type Bindings struct {
	reg    *Registry
	values map[*ArgumentSpec]*BoundValue
}

func newBindings(reg *Registry) *Bindings {
	return &Bindings{reg: reg, values: make(map[*ArgumentSpec]*BoundValue, reg.Len())}
}

func (b *Bindings) bind(spec *ArgumentSpec, field reflect.Value) *BoundValue {
	bv := &BoundValue{Spec: spec, field: field}
	b.values[spec] = bv
	return bv
}

// Registry returns the registry the bindings were built from.
func (b *Bindings) Registry() *Registry {
	return b.reg
}

// Get returns the bound value of spec.
func (b *Bindings) Get(spec *ArgumentSpec) *BoundValue {
	return b.values[spec]
}

// Lookup resolves name or alias and returns its bound value.
func (b *Bindings) Lookup(name string) (*BoundValue, bool) {
	spec, ok := b.reg.Resolve(name)
	if !ok {
		return nil, false
	}
	bv, ok := b.values[spec]
	return bv, ok
}

// All returns the bound values in registry order.
func (b *Bindings) All() []*BoundValue {
	out := make([]*BoundValue, 0, len(b.values))
	for _, spec := range b.reg.Specs() {
		if bv, ok := b.values[spec]; ok {
			out = append(out, bv)
		}
	}
	return out
}

// reset clears the per-pass state. Field values are left as they are.
func (b *Bindings) reset() {
	for _, bv := range b.values {
		bv.WasSet = false
		bv.Err = nil
	}
}

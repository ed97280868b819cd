// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coerce converts string tokens to and from typed Go values.
package coerce

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// Coercer converts between string tokens and values of a target type.
type Coercer interface {
	// ToType converts s into a value of type t.
	ToType(s string, t reflect.Type) (reflect.Value, error)
	// ToString renders v the way ToType would accept it back.
	ToString(v reflect.Value) string
	// IsEmptyValue reports whether v holds nothing worth displaying or saving.
	IsEmptyValue(v reflect.Value) bool
}

// Enum is implemented by closed enumerations. EnumValues returns the names
// accepted by ToType, in declaration order.
//
// Integer-backed enums are set to the index of the matched name; string-backed
// enums are set to the canonical spelling. Types that also implement
// encoding.TextUnmarshaler are handed the canonical name instead.
type Enum interface {
	EnumValues() []string
}

// Error is returned when a token cannot be converted to the requested type.
type Error struct {
	Value string
	Type  reflect.Type
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot convert %q to %s: %v", e.Value, e.Type, e.Err)
	}
	return fmt.Sprintf("cannot convert %q to %s", e.Value, e.Type)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	durationType  = reflect.TypeOf(time.Duration(0))
	urlType       = reflect.TypeOf(url.URL{})
	uuidType      = reflect.TypeOf(uuid.UUID{})
	semverType    = reflect.TypeOf(semver.Version{})
	enumType      = reflect.TypeOf((*Enum)(nil)).Elem()
	unmarshalType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	marshalType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	stringerType  = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// Default is the Coercer used when the host does not supply one.
type Default struct {
	// Separator splits a single token destined for a slice type.
	// Empty means ",".
	Separator string
}

var _ Coercer = Default{}

func (d Default) separator() string {
	if d.Separator == "" {
		return ","
	}
	return d.Separator
}

// EnumValues returns the names of t if t is an enumeration.
func EnumValues(t reflect.Type) ([]string, bool) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if !t.Implements(enumType) {
		return nil, false
	}
	e := reflect.Zero(t).Interface().(Enum)
	return e.EnumValues(), true
}

// IsBool reports whether t, after pointer indirection, is a boolean.
func IsBool(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Bool
}

// IsSlice reports whether t holds multiple values.
func IsSlice(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8
}

// ToType implements Coercer.
func (d Default) ToType(s string, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	if err := d.set(v, s); err != nil {
		return reflect.Value{}, &Error{Value: s, Type: t, Err: err}
	}
	return v, nil
}

// ToSlice converts each token to the element type of t.
func (d Default) ToSlice(tokens []string, t reflect.Type) (reflect.Value, error) {
	return toSlice(d, tokens, t)
}

func toSlice(c Coercer, tokens []string, t reflect.Type) (reflect.Value, error) {
	out := reflect.MakeSlice(t, 0, len(tokens))
	for _, tok := range tokens {
		ev, err := c.ToType(tok, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out = reflect.Append(out, ev)
	}
	return out, nil
}

// ToSlice converts tokens element-wise using c.
func ToSlice(c Coercer, tokens []string, t reflect.Type) (reflect.Value, error) {
	return toSlice(c, tokens, t)
}

func (d Default) set(field reflect.Value, value string) error {
	t := field.Type()

	if values, ok := EnumValues(t); ok && t.Kind() != reflect.Ptr {
		return setEnum(field, values, value)
	}

	switch t {
	case durationType:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(dur))
		return nil
	case urlType:
		u, err := url.Parse(value)
		if err != nil {
			return fmt.Errorf("invalid URL: %w", err)
		}
		field.Set(reflect.ValueOf(*u))
		return nil
	case uuidType:
		id, err := uuid.Parse(value)
		if err != nil {
			return fmt.Errorf("invalid UUID: %w", err)
		}
		field.Set(reflect.ValueOf(id))
		return nil
	case semverType:
		ver, err := semver.NewVersion(value)
		if err != nil {
			return fmt.Errorf("invalid version: %w", err)
		}
		field.Set(reflect.ValueOf(*ver))
		return nil
	}

	if t.Kind() != reflect.Ptr && reflect.PointerTo(t).Implements(unmarshalType) {
		u := field.Addr().Interface().(encoding.TextUnmarshaler)
		return u.UnmarshalText([]byte(value))
	}

	switch t.Kind() {
	case reflect.Ptr:
		elem := reflect.New(t.Elem())
		if err := d.set(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			field.SetBytes([]byte(value))
			return nil
		}
		var parts []string
		for _, part := range strings.Split(value, d.separator()) {
			if part == "" {
				continue
			}
			parts = append(parts, part)
		}
		s, err := toSlice(d, parts, t)
		if err != nil {
			return err
		}
		field.Set(s)
		return nil

	case reflect.String:
		field.SetString(value)
		return nil

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool value")
		}
		field.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, t.Bits())
		if err != nil {
			return numErr("int", err)
		}
		field.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(value, 10, t.Bits())
		if err != nil {
			return numErr("uint", err)
		}
		field.SetUint(u)
		return nil

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, t.Bits())
		if err != nil {
			return numErr("float", err)
		}
		field.SetFloat(f)
		return nil

	default:
		return fmt.Errorf("unsupported type %s", t)
	}
}

func numErr(kind string, err error) error {
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return fmt.Errorf("%s value out of range", kind)
	}
	return fmt.Errorf("invalid %s value", kind)
}

func setEnum(field reflect.Value, values []string, value string) error {
	idx := -1
	for i, name := range values {
		if strings.EqualFold(name, value) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("must be one of %s", strings.Join(values, ", "))
	}
	canonical := values[idx]
	if reflect.PointerTo(field.Type()).Implements(unmarshalType) {
		u := field.Addr().Interface().(encoding.TextUnmarshaler)
		return u.UnmarshalText([]byte(canonical))
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(canonical)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		field.SetInt(int64(idx))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		field.SetUint(uint64(idx))
	default:
		return fmt.Errorf("unsupported enum kind %s", field.Kind())
	}
	return nil
}

// ToString implements Coercer.
func (d Default) ToString(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	t := v.Type()

	if values, ok := EnumValues(t); ok && t.Kind() != reflect.Ptr {
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if i := v.Int(); i >= 0 && int(i) < len(values) {
				return values[i]
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if i := v.Uint(); int(i) < len(values) {
				return values[i]
			}
		case reflect.String:
			return v.String()
		}
	}

	switch t {
	case durationType:
		return time.Duration(v.Int()).String()
	case urlType:
		u := v.Interface().(url.URL)
		return u.String()
	case semverType:
		ver := v.Interface().(semver.Version)
		return ver.Original()
	}

	if t.Kind() != reflect.Ptr {
		if t.Implements(marshalType) {
			if b, err := v.Interface().(encoding.TextMarshaler).MarshalText(); err == nil {
				return string(b)
			}
		}
		if t.Implements(stringerType) {
			return v.Interface().(fmt.Stringer).String()
		}
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return ""
		}
		return d.ToString(v.Elem())
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return string(v.Bytes())
		}
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = d.ToString(v.Index(i))
		}
		return strings.Join(parts, d.separator())
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, t.Bits())
	default:
		return fmt.Sprint(v.Interface())
	}
}

// IsEmptyValue implements Coercer. Nil pointers, empty strings, empty
// slices and zero values are empty.
func (d Default) IsEmptyValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map, reflect.String:
		return v.Len() == 0
	}
	return v.IsZero()
}

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
)

// Validator checks a bound value after binding.
type Validator interface {
	IsValid(value any) bool
	FormatErrorMessage(name string) string
}

// Describer is implemented by validators that can explain their rule in help text.
type Describer interface {
	Describe() string
}

// Check validates every argument in registry order and returns the error
// messages. An empty result means the bindings are valid. Check does not
// modify anything.
func Check(b *Bindings) []string {
	var errs []string
	for _, bv := range b.All() {
		name := bv.Spec.Name
		if bv.Err != nil {
			errs = append(errs, fmt.Sprintf("%s has an error: %s", name, bv.Err.Error()))
		}
		if bv.Spec.Required && !bv.WasSet {
			errs = append(errs, fmt.Sprintf("%s is required.", name))
		}
		for _, v := range bv.Spec.Validators {
			if !v.IsValid(bv.Interface()) {
				errs = append(errs, v.FormatErrorMessage(name))
			}
		}
	}
	return errs
}

// Range accepts numbers between Min and Max inclusive. Non-numeric values
// are rejected; slices are valid when every element is.
type Range struct {
	Min, Max float64
}

func (r Range) IsValid(value any) bool {
	return eachElem(value, func(v reflect.Value) bool {
		f, ok := toFloat(v)
		return ok && f >= r.Min && f <= r.Max
	})
}

func (r Range) FormatErrorMessage(name string) string {
	return fmt.Sprintf("%s must be between %s and %s.", name, formatNum(r.Min), formatNum(r.Max))
}

func (r Range) Describe() string {
	return fmt.Sprintf("Must be between %s and %s.", formatNum(r.Min), formatNum(r.Max))
}

// Pattern accepts strings matching the regular expression. Empty strings are
// accepted so that optional arguments can stay unset.
type Pattern struct {
	Re *regexp.Regexp
}

func (p Pattern) IsValid(value any) bool {
	return eachElem(value, func(v reflect.Value) bool {
		if v.Kind() != reflect.String {
			return false
		}
		s := v.String()
		return s == "" || p.Re.MatchString(s)
	})
}

func (p Pattern) FormatErrorMessage(name string) string {
	return fmt.Sprintf("%s must match the pattern %s.", name, p.Re.String())
}

func (p Pattern) Describe() string {
	return fmt.Sprintf("Must match the pattern %s.", p.Re.String())
}

// NotEmpty rejects empty strings, nil pointers and empty slices.
type NotEmpty struct{}

func (NotEmpty) IsValid(value any) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Invalid:
		return false
	case reflect.String, reflect.Slice, reflect.Map:
		return v.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !v.IsNil()
	}
	return true
}

func (NotEmpty) FormatErrorMessage(name string) string {
	return fmt.Sprintf("%s must not be empty.", name)
}

func eachElem(value any, ok func(reflect.Value) bool) bool {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			if !ok(v.Index(i)) {
				return false
			}
		}
		return true
	}
	return ok(v)
}

func toFloat(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// parseRange parses a range tag such as "1..10" or "-5..5".
func parseRange(tag string) (Range, error) {
	lo, hi, ok := strings.Cut(tag, "..")
	if !ok {
		return Range{}, fmt.Errorf("invalid range %q (expected \"min..max\")", tag)
	}
	minVal, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return Range{}, fmt.Errorf("invalid min in range %q: %w", tag, err)
	}
	maxVal, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return Range{}, fmt.Errorf("invalid max in range %q: %w", tag, err)
	}
	if minVal > maxVal {
		return Range{}, fmt.Errorf("invalid range %q: min (%s) > max (%s)", tag, formatNum(minVal), formatNum(maxVal))
	}
	return Range{Min: minVal, Max: maxVal}, nil
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"errors"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type color int

func (color) EnumValues() []string { return []string{"Red", "Green", "Blue"} }

type level string

func (level) EnumValues() []string { return []string{"debug", "info"} }

func TestToType(t *testing.T) {
	d := Default{}
	tests := []struct {
		name  string
		in    string
		typ   reflect.Type
		want  any
		wantE bool
	}{
		{name: "string", in: "hello", typ: reflect.TypeOf(""), want: "hello"},
		{name: "bool true", in: "true", typ: reflect.TypeOf(false), want: true},
		{name: "bool short", in: "F", typ: reflect.TypeOf(false), want: false},
		{name: "bool invalid", in: "maybe", typ: reflect.TypeOf(false), wantE: true},
		{name: "int", in: "-42", typ: reflect.TypeOf(0), want: -42},
		{name: "int8 overflow", in: "300", typ: reflect.TypeOf(int8(0)), wantE: true},
		{name: "uint", in: "7", typ: reflect.TypeOf(uint(0)), want: uint(7)},
		{name: "uint negative", in: "-7", typ: reflect.TypeOf(uint(0)), wantE: true},
		{name: "float", in: "2.5", typ: reflect.TypeOf(0.0), want: 2.5},
		{name: "duration", in: "1m30s", typ: reflect.TypeOf(time.Duration(0)), want: 90 * time.Second},
		{name: "enum by index", in: "green", typ: reflect.TypeOf(color(0)), want: color(1)},
		{name: "enum string", in: "INFO", typ: reflect.TypeOf(level("")), want: level("info")},
		{name: "enum unknown", in: "purple", typ: reflect.TypeOf(color(0)), wantE: true},
		{name: "slice split", in: "a,b,,c", typ: reflect.TypeOf([]string{}), want: []string{"a", "b", "c"}},
		{name: "int slice", in: "1,2", typ: reflect.TypeOf([]int{}), want: []int{1, 2}},
		{name: "int slice invalid", in: "1,x", typ: reflect.TypeOf([]int{}), wantE: true},
		{name: "pointer", in: "5", typ: reflect.TypeOf((*int)(nil)), want: ptr(5)},
		{name: "uuid", in: "6ba7b810-9dad-11d1-80b4-00c04fd430c8", typ: reflect.TypeOf(uuid.UUID{}), want: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")},
		{name: "uuid invalid", in: "nope", typ: reflect.TypeOf(uuid.UUID{}), wantE: true},
		{name: "semver invalid", in: "one", typ: reflect.TypeOf(semver.Version{}), wantE: true},
		{name: "unsupported", in: "x", typ: reflect.TypeOf(map[string]int{}), wantE: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.ToType(tt.in, tt.typ)
			if tt.wantE {
				var ce *Error
				if !errors.As(err, &ce) {
					t.Fatalf("ToType(%q) error = %v, want *Error", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToType(%q) error = %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got.Interface()); diff != "" {
				t.Errorf("ToType(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestToTypeSemverAndURL(t *testing.T) {
	d := Default{}
	v, err := d.ToType("v1.2.3", reflect.TypeOf((*semver.Version)(nil)))
	if err != nil {
		t.Fatalf("ToType semver: %v", err)
	}
	ver := v.Interface().(*semver.Version)
	if ver.Major() != 1 || ver.Minor() != 2 || ver.Patch() != 3 {
		t.Errorf("version = %s, want 1.2.3", ver)
	}
	if got := d.ToString(v); got != "v1.2.3" {
		t.Errorf("ToString(version) = %q, want %q", got, "v1.2.3")
	}

	u, err := d.ToType("https://example.com/x?y=1", reflect.TypeOf(url.URL{}))
	if err != nil {
		t.Fatalf("ToType url: %v", err)
	}
	if got := d.ToString(u); got != "https://example.com/x?y=1" {
		t.Errorf("ToString(url) = %q", got)
	}
}

func TestToString(t *testing.T) {
	d := Default{}
	tests := []struct {
		in   any
		want string
	}{
		{in: "x", want: "x"},
		{in: true, want: "true"},
		{in: int64(-3), want: "-3"},
		{in: uint8(9), want: "9"},
		{in: 1.5, want: "1.5"},
		{in: 2 * time.Second, want: "2s"},
		{in: color(2), want: "Blue"},
		{in: level("debug"), want: "debug"},
		{in: []int{1, 2, 3}, want: "1,2,3"},
		{in: (*int)(nil), want: ""},
		{in: ptr(4), want: "4"},
		{in: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), want: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
	}
	for _, tt := range tests {
		if got := d.ToString(reflect.ValueOf(tt.in)); got != tt.want {
			t.Errorf("ToString(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToStringCustomSeparator(t *testing.T) {
	d := Default{Separator: ";"}
	if got := d.ToString(reflect.ValueOf([]string{"a", "b"})); got != "a;b" {
		t.Errorf("ToString = %q, want %q", got, "a;b")
	}
	v, err := d.ToType("a;b", reflect.TypeOf([]string{}))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v.Interface(), []string{"a", "b"}) {
		t.Errorf("ToType = %v", v.Interface())
	}
}

func TestIsEmptyValue(t *testing.T) {
	d := Default{}
	tests := []struct {
		in   any
		want bool
	}{
		{in: "", want: true},
		{in: "a", want: false},
		{in: 0, want: true},
		{in: 3, want: false},
		{in: false, want: true},
		{in: true, want: false},
		{in: []string{}, want: true},
		{in: []string(nil), want: true},
		{in: []string{"a"}, want: false},
		{in: (*int)(nil), want: true},
	}
	for _, tt := range tests {
		if got := d.IsEmptyValue(reflect.ValueOf(tt.in)); got != tt.want {
			t.Errorf("IsEmptyValue(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHelpers(t *testing.T) {
	if !IsBool(reflect.TypeOf((*bool)(nil))) {
		t.Error("IsBool(*bool) = false")
	}
	if IsSlice(reflect.TypeOf([]byte{})) {
		t.Error("IsSlice([]byte) = true")
	}
	vals, ok := EnumValues(reflect.TypeOf(color(0)))
	if !ok || !reflect.DeepEqual(vals, []string{"Red", "Green", "Blue"}) {
		t.Errorf("EnumValues = %v, %v", vals, ok)
	}
	if _, ok := EnumValues(reflect.TypeOf(0)); ok {
		t.Error("EnumValues(int) ok = true")
	}
	s, err := ToSlice(Default{}, []string{"1", "2"}, reflect.TypeOf([]uint{}))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Interface(), []uint{1, 2}) {
		t.Errorf("ToSlice = %v", s.Interface())
	}
	empty, err := Default{}.ToSlice(nil, reflect.TypeOf([]string(nil)))
	if err != nil {
		t.Fatal(err)
	}
	if empty.IsNil() || empty.Len() != 0 {
		t.Errorf("ToSlice(nil) = %#v, want empty non-nil slice", empty.Interface())
	}
}

func ptr[T any](v T) *T { return &v }

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateRequiredAndConversion(t *testing.T) {
	type args struct {
		Name  string `required:"true"`
		Count int
	}
	var a args
	cl, err := New(&a, Options{})
	if err != nil {
		t.Fatal(err)
	}
	cl.Bind([]string{"/Count", "x"})
	if cl.Validate() {
		t.Fatal("Validate() = true, want false")
	}
	want := []string{
		"Name is required.",
		`Count has an error: cannot convert "x" to int: invalid int value`,
	}
	if diff := cmp.Diff(want, cl.Errors()); diff != "" {
		t.Errorf("Errors() mismatch (-want +got):\n%s", diff)
	}
	if got, want := cl.ErrorText(), want[0]+"\n"+want[1]; got != want {
		t.Errorf("ErrorText() = %q, want %q", got, want)
	}

	cl.Bind([]string{"/Name", "bob", "/Count", "2"})
	if !cl.Validate() {
		t.Fatalf("Validate() errors = %v", cl.Errors())
	}
	if len(cl.Errors()) != 0 || cl.ErrorText() != "" {
		t.Errorf("errors left after valid pass: %q", cl.Errors())
	}
}

func TestValidateRequiredDefaultNotEnough(t *testing.T) {
	type args struct {
		Mode string `required:"true" default:"fast"`
	}
	var a args
	cl, err := New(&a, Options{})
	if err != nil {
		t.Fatal(err)
	}
	cl.Bind(nil)
	if cl.Validate() {
		t.Error("a default satisfied a required argument")
	}
}

func TestValidateConversionAndRequiredTogether(t *testing.T) {
	type args struct {
		N int `required:"true"`
	}
	var a args
	cl, err := New(&a, Options{})
	if err != nil {
		t.Fatal(err)
	}
	cl.Bind([]string{"/N", "1e9999"})
	want := []string{
		`N has an error: cannot convert "1e9999" to int: invalid int value`,
		"N is required.",
	}
	cl.Validate()
	if diff := cmp.Diff(want, cl.Errors()); diff != "" {
		t.Errorf("Errors() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidators(t *testing.T) {
	type args struct {
		Retries int      `range:"0..5"`
		Ratio   float64  `range:"-1..1"`
		Host    string   `pattern:"^[a-z]+$"`
		Ports   []int    `range:"1..65535"`
		Labels  []string `pattern:"^[a-z]+$"`
	}
	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{name: "valid", tokens: []string{"/Retries", "3", "/Ratio", "-0.5", "/Host", "abc", "/Ports", "80", "443"}},
		{name: "unset is valid", tokens: nil},
		{name: "retries high", tokens: []string{"/Retries", "6"}, want: []string{"Retries must be between 0 and 5."}},
		{name: "ratio low", tokens: []string{"/Ratio", "-1.5"}, want: []string{"Ratio must be between -1 and 1."}},
		{name: "host", tokens: []string{"/Host", "ABC"}, want: []string{"Host must match the pattern ^[a-z]+$."}},
		{name: "ports element", tokens: []string{"/Ports", "80", "0"}, want: []string{"Ports must be between 1 and 65535."}},
		{name: "labels element", tokens: []string{"/Labels", "ok", "NO"}, want: []string{"Labels must match the pattern ^[a-z]+$."}},
		{
			name:   "registry order",
			tokens: []string{"/Host", "1", "/Retries", "9"},
			want:   []string{"Retries must be between 0 and 5.", "Host must match the pattern ^[a-z]+$."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a args
			cl, err := New(&a, Options{})
			if err != nil {
				t.Fatal(err)
			}
			cl.Bind(tt.tokens)
			ok := cl.Validate()
			if ok != (len(tt.want) == 0) {
				t.Errorf("Validate() = %v with errors %q", ok, cl.Errors())
			}
			if diff := cmp.Diff(tt.want, cl.Errors()); diff != "" {
				t.Errorf("Errors() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRangeRejectsNonNumeric(t *testing.T) {
	r := Range{Min: 0, Max: 1}
	if r.IsValid("0") {
		t.Error("Range accepted a string")
	}
	n := 1
	if !r.IsValid(&n) {
		t.Error("Range rejected a pointer to a valid number")
	}
	if !r.IsValid((*int)(nil)) {
		t.Error("Range rejected a nil pointer")
	}
	if got := r.Describe(); got != "Must be between 0 and 1." {
		t.Errorf("Describe() = %q", got)
	}
}

func TestNotEmpty(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{in: "", want: false},
		{in: "x", want: true},
		{in: []string{}, want: false},
		{in: []string{"a"}, want: true},
		{in: (*int)(nil), want: false},
		{in: 0, want: true},
		{in: nil, want: false},
	}
	for _, tt := range tests {
		if got := (NotEmpty{}).IsValid(tt.in); got != tt.want {
			t.Errorf("NotEmpty.IsValid(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAddValidator(t *testing.T) {
	type args struct {
		Tags []string `alias:"t"`
		Name string
	}
	var a args
	cl, err := New(&a, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := cl.AddValidator("t", NotEmpty{}); err != nil {
		t.Fatal(err)
	}
	if err := cl.AddValidator("Name", Pattern{Re: regexp.MustCompile(`^\w+$`)}); err != nil {
		t.Fatal(err)
	}
	err = cl.AddValidator("missing", NotEmpty{})
	var ce *ConfigurationError
	if !errors.As(err, &ce) || !errors.Is(err, ErrConfiguration) {
		t.Errorf("AddValidator(missing) error = %v, want *ConfigurationError", err)
	}

	cl.Bind([]string{"/Name", "a", "b"})
	cl.Validate()
	want := []string{"Tags must not be empty.", "Name must match the pattern ^\\w+$."}
	if diff := cmp.Diff(want, cl.Errors()); diff != "" {
		t.Errorf("Errors() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    Range
		wantErr bool
	}{
		{in: "1..10", want: Range{Min: 1, Max: 10}},
		{in: "-5 .. 5", want: Range{Min: -5, Max: 5}},
		{in: "0.5..0.5", want: Range{Min: 0.5, Max: 0.5}},
		{in: "1-10", wantErr: true},
		{in: "a..b", wantErr: true},
		{in: "1..", wantErr: true},
		{in: "3..1", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseRange(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseRange(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

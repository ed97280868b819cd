// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"log/slog"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/yeetrun/argbind/pkg/coerce"
)

// SourceKind selects where a binding pass reads its tokens from.
type SourceKind int

const (
	// SourceArgs reads the process arguments without the program name.
	SourceArgs SourceKind = iota
	// SourceQuery reads name=value pairs from a query string.
	SourceQuery
	// SourceList reads an explicit token list.
	SourceList
)

// Source is an explicit token source chosen by the host.
type Source struct {
	Kind   SourceKind
	Tokens []string
	Query  string
}

// FromArgs returns a Source reading os.Args[1:].
func FromArgs() Source {
	return Source{Kind: SourceArgs}
}

// FromQuery returns a Source reading a query string such as "a=1&b".
func FromQuery(query string) Source {
	return Source{Kind: SourceQuery, Query: query}
}

// FromList returns a Source reading the given tokens.
func FromList(tokens ...string) Source {
	return Source{Kind: SourceList, Tokens: tokens}
}

// Binder writes tokens onto bound values.
//
// Binding never fails as a whole: unknown arguments are skipped, empty value
// runs leave fields alone and conversion failures are recorded on the
// affected BoundValue for validation to report.
type Binder struct {
	Options *Options
	Coercer coerce.Coercer
	Logger  *slog.Logger
}

func (bd *Binder) logger() *slog.Logger {
	if bd.Logger != nil {
		return bd.Logger
	}
	if bd.Options != nil && bd.Options.Logger != nil {
		return bd.Options.Logger
	}
	return slog.Default()
}

func (bd *Binder) coercer() coerce.Coercer {
	if bd.Coercer == nil {
		return coerce.Default{}
	}
	return bd.Coercer
}

func (bd *Binder) prefix() string {
	if bd.Options == nil || bd.Options.ArgumentPrefix == "" {
		return DefaultArgumentPrefix
	}
	return bd.Options.ArgumentPrefix
}

// BindSource runs a binding pass over src.
func (bd *Binder) BindSource(b *Bindings, src Source) {
	switch src.Kind {
	case SourceQuery:
		bd.BindQuery(b, src.Query)
	case SourceList:
		bd.Bind(b, src.Tokens)
	default:
		var args []string
		if len(os.Args) > 1 {
			args = os.Args[1:]
		}
		bd.Bind(b, args)
	}
}

// Bind runs a binding pass over tokens, which must not include the program
// name.
func (bd *Binder) Bind(b *Bindings, tokens []string) {
	b.reset()
	log := bd.logger()
	prefix := bd.prefix()

	i := bd.bindDefaults(b, tokens)
	for i < len(tokens) {
		tok := tokens[i]
		if !strings.HasPrefix(tok, prefix) {
			log.Debug("skipping stray value", "token", tok)
			i++
			continue
		}
		name, negated := splitNegation(strings.TrimPrefix(tok, prefix))
		bv, ok := b.Lookup(name)
		if !ok {
			log.Debug("skipping unknown argument", "token", tok)
			i++
			continue
		}
		i++
		if bv.Spec.IsBool() {
			if negated {
				bd.setBool(bv, false)
				continue
			}
			i += bd.assignBool(bv, valueRun(tokens[i:], prefix))
			continue
		}
		run := valueRun(tokens[i:], prefix)
		if len(run) > 0 {
			bd.assign(bv, run)
		}
		i += len(run)
	}
	bd.finish(b)
}

// bindDefaults binds the leading value run to the default arguments and
// returns the index of the first unconsumed token.
func (bd *Binder) bindDefaults(b *Bindings, tokens []string) int {
	if bd.Options == nil || len(bd.Options.DefaultArgNames) == 0 || len(tokens) == 0 {
		return 0
	}
	run := valueRun(tokens, bd.prefix())
	if len(run) == 0 {
		return 0
	}
	names := bd.Options.DefaultArgNames
	if len(names) == 1 {
		if bv, ok := b.Lookup(names[0]); ok {
			bd.assign(bv, run)
		}
		return len(run)
	}
	n := min(len(names), len(run))
	for k := 0; k < n; k++ {
		if bv, ok := b.Lookup(names[k]); ok {
			bd.assign(bv, run[k:k+1])
		}
	}
	return n
}

// BindQuery runs a binding pass over a query string. Keys are argument names
// or aliases without the prefix; repeated keys accumulate their values.
func (bd *Binder) BindQuery(b *Bindings, query string) {
	b.reset()
	log := bd.logger()

	var keys []string
	values := make(map[string][]string)
	for _, pair := range strings.Split(strings.TrimPrefix(query, "?"), "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			log.Debug("skipping malformed query key", "key", rawKey, "err", err)
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			log.Debug("skipping malformed query value", "key", key, "value", rawValue, "err", err)
			continue
		}
		if _, ok := values[key]; !ok {
			keys = append(keys, key)
			values[key] = nil
		}
		if value != "" {
			values[key] = append(values[key], value)
		}
	}

	for _, key := range keys {
		name, negated := splitNegation(key)
		bv, ok := b.Lookup(name)
		if !ok {
			log.Debug("skipping unknown query argument", "key", key)
			continue
		}
		vals := values[key]
		switch {
		case bv.Spec.IsBool() && negated:
			bd.setBool(bv, false)
		case bv.Spec.IsBool():
			bd.assignBool(bv, vals)
		case len(vals) > 0:
			bd.assign(bv, vals)
		}
	}
	bd.finish(b)
}

// assignBool binds a boolean from the value run that follows its name and
// returns the number of tokens consumed. A missing or unparsable value means
// true; an unparsable token is left for the caller.
func (bd *Binder) assignBool(bv *BoundValue, run []string) int {
	if len(run) == 0 {
		bd.setBool(bv, true)
		return 0
	}
	v, err := bd.coercer().ToType(run[0], bv.Spec.Type)
	if err != nil {
		bd.logger().Debug("boolean value not recognised, assuming true", "arg", bv.Spec.Name, "token", run[0])
		bd.setBool(bv, true)
		return 0
	}
	bv.set(v)
	return 1
}

func (bd *Binder) setBool(bv *BoundValue, val bool) {
	v, err := bd.coercer().ToType(strconv.FormatBool(val), bv.Spec.Type)
	if err != nil {
		bv.fail(strconv.FormatBool(val), err)
		return
	}
	bv.set(v)
}

// assign converts a non-empty value run for bv. Slices take every token;
// strings take the run joined by spaces; anything else takes the first token.
func (bd *Binder) assign(bv *BoundValue, run []string) {
	c := bd.coercer()
	t := bv.Spec.Type
	if bv.Spec.IsSlice() {
		v, err := coerce.ToSlice(c, run, t)
		if err != nil {
			bv.fail(strings.Join(run, " "), err)
			return
		}
		bv.set(v)
		return
	}
	token := run[0]
	if isPlainString(t) {
		token = strings.Join(run, " ")
	}
	v, err := c.ToType(token, t)
	if err != nil {
		bv.fail(token, err)
		return
	}
	bv.set(v)
}

// finish copies the wait argument into the options.
func (bd *Binder) finish(b *Bindings) {
	if bd.Options == nil || bd.Options.WaitArgName == "" {
		return
	}
	bv, ok := b.Lookup(bd.Options.WaitArgName)
	if !ok {
		return
	}
	v := bv.Value()
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			bd.Options.Wait = false
			return
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Bool {
		bd.Options.Wait = v.Bool()
	}
}

// valueRun returns the leading tokens that do not start with prefix.
func valueRun(tokens []string, prefix string) []string {
	n := 0
	for n < len(tokens) && !strings.HasPrefix(tokens[n], prefix) {
		n++
	}
	return tokens[:n]
}

func splitNegation(name string) (string, bool) {
	if strings.HasSuffix(name, "-") {
		return strings.TrimSuffix(name, "-"), true
	}
	return name, false
}

func isPlainString(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if _, ok := coerce.EnumValues(t); ok {
		return false
	}
	return t.Kind() == reflect.String
}

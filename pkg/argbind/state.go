// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/yeetrun/argbind/pkg/codecutil"
	"github.com/yeetrun/argbind/pkg/coerce"
	"github.com/yeetrun/argbind/pkg/fileutil"
)

const (
	stateFileName = "state.yaml"
	nullTag       = "!!null"
	strTag        = "!!str"
)

// stateDocument is the persisted form of a target:
//
//	type: example.com/app.Settings
//	values:
//	  Source: a.txt
//	  Exclude:
//	    - "*.tmp"
type stateDocument struct {
	Type   string    `yaml:"type"`
	Values yaml.Node `yaml:"values"`
}

// StateCodec writes and reads the persistable values of a target.
type StateCodec struct {
	// TypeName identifies the target type in the document.
	TypeName string
	Coercer  coerce.Coercer
	Logger   *slog.Logger
}

func (sc *StateCodec) coercer() coerce.Coercer {
	if sc.Coercer == nil {
		return coerce.Default{}
	}
	return sc.Coercer
}

func (sc *StateCodec) logger() *slog.Logger {
	if sc.Logger == nil {
		return slog.Default()
	}
	return sc.Logger
}

// Encode writes every persistable value of b to w in registry order.
func (sc *StateCodec) Encode(w io.Writer, b *Bindings) error {
	values := yaml.Node{Kind: yaml.MappingNode}
	for _, bv := range b.All() {
		if !bv.Spec.Persist {
			continue
		}
		values.Content = append(values.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: bv.Spec.Name},
			sc.valueNode(bv),
		)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&stateDocument{Type: sc.TypeName, Values: values}); err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	return enc.Close()
}

func (sc *StateCodec) valueNode(bv *BoundValue) *yaml.Node {
	c := sc.coercer()
	v := bv.Value()
	switch {
	case (v.Kind() == reflect.Ptr || v.Kind() == reflect.Slice) && v.IsNil():
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: nullTag, Value: "null"}
	case bv.Spec.IsSlice():
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		if v.Len() == 0 {
			seq.Style = yaml.FlowStyle
		}
		for i := 0; i < v.Len(); i++ {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: strTag, Value: c.ToString(v.Index(i))})
		}
		return seq
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: strTag, Value: c.ToString(v)}
	}
}

// Decode restores values from r. It reports false, restoring nothing, when
// the document cannot be read or belongs to another type. Unknown entries and
// entries that fail to convert are skipped. Restored values count as set.
func (sc *StateCodec) Decode(r io.Reader, b *Bindings) bool {
	log := sc.logger()
	var doc stateDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		log.Debug("state not restored", "err", err)
		return false
	}
	if doc.Type != sc.TypeName {
		log.Debug("state not restored", "type", doc.Type, "want", sc.TypeName)
		return false
	}
	if doc.Values.Kind != yaml.MappingNode {
		return doc.Values.Kind == 0
	}

	content := doc.Values.Content
	for i := 0; i+1 < len(content); i += 2 {
		name := content[i].Value
		bv, ok := b.Lookup(name)
		if !ok || bv.Spec.Name != name || !bv.Spec.Persist {
			log.Debug("skipping state entry", "name", name)
			continue
		}
		if err := sc.restoreValue(bv, content[i+1]); err != nil {
			log.Debug("skipping state entry", "name", name, "err", err)
		}
	}
	return true
}

func (sc *StateCodec) restoreValue(bv *BoundValue, node *yaml.Node) error {
	c := sc.coercer()
	t := bv.Spec.Type
	if node.Kind == yaml.ScalarNode && node.ShortTag() == nullTag {
		bv.field.Set(reflect.Zero(t))
		bv.WasSet = true
		return nil
	}
	if bv.Spec.IsSlice() {
		if node.Kind != yaml.SequenceNode {
			return fmt.Errorf("expected a sequence, got %s", node.ShortTag())
		}
		elems := make([]string, 0, len(node.Content))
		for _, n := range node.Content {
			elems = append(elems, n.Value)
		}
		v, err := coerce.ToSlice(c, elems, t)
		if err != nil {
			return err
		}
		bv.set(v)
		return nil
	}
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected a scalar, got %s", node.ShortTag())
	}
	v, err := c.ToType(node.Value, t)
	if err != nil {
		return err
	}
	bv.set(v)
	return nil
}

// SaveFile writes the state to path atomically, compressed when path ends in
// ".zst". An unchanged file is left alone.
func (sc *StateCodec) SaveFile(path string, b *Bindings) error {
	var buf bytes.Buffer
	if err := sc.Encode(&buf, b); err != nil {
		return err
	}
	data := buf.Bytes()
	if codecutil.IsZstdPath(path) {
		var err error
		if data, err = codecutil.ZstdEncode(data); err != nil {
			return err
		}
	} else if same, err := fileutil.SameContent(path, data); err == nil && same {
		return nil
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to save state to %s: %w", path, err)
	}
	return nil
}

// RestoreFile restores the state saved at path. Missing or unreadable files
// restore nothing.
func (sc *StateCodec) RestoreFile(path string, b *Bindings) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		sc.logger().Debug("state not restored", "path", path, "err", err)
		return false
	}
	if codecutil.IsZstdPath(path) {
		if data, err = codecutil.ZstdDecode(data); err != nil {
			sc.logger().Debug("state not restored", "path", path, "err", err)
			return false
		}
	}
	return sc.Decode(bytes.NewReader(data), b)
}

// DefaultStatePath returns the per-user state file for app under the XDG
// config directory, creating the directory if needed.
func DefaultStatePath(app string) (string, error) {
	return xdg.ConfigFile(filepath.Join(app, stateFileName))
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

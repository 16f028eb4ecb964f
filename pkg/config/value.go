// Package config loads GitLab CI configuration files and resolves their
// local include directives into a single merged tree.
//
// YAML documents are represented as [Value], a tagged-variant tree
// (mapping / sequence / scalar / absent) that preserves the key order of the
// source document. Downstream consumers pattern-match on the kind instead of
// type-asserting on interface{} values, so unexpected shapes surface as
// explicit absent values rather than panics deep in processing.
package config

import (
	"gopkg.in/yaml.v3"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	// KindAbsent marks a missing value, e.g. a lookup of an unknown key.
	KindAbsent Kind = iota
	// KindScalar is a YAML scalar (string, number, bool, or null).
	KindScalar
	// KindSequence is a YAML sequence.
	KindSequence
	// KindMapping is a YAML mapping with remembered key order.
	KindMapping
)

// Value is one node of a parsed configuration tree.
// The zero value is an absent value.
type Value struct {
	kind    Kind
	scalar  any
	items   []Value
	keys    []string
	entries map[string]Value
}

// Absent returns the absent value.
func Absent() Value { return Value{} }

// Scalar wraps a Go scalar (string, int, float64, bool, nil) as a Value.
func Scalar(v any) Value { return Value{kind: KindScalar, scalar: v} }

// Sequence builds a sequence value from items.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: items}
}

// Mapping returns an empty mapping value.
func Mapping() Value {
	return Value{kind: KindMapping, entries: map[string]Value{}}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value is missing.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsScalar reports whether the value is a scalar.
func (v Value) IsScalar() bool { return v.kind == KindScalar }

// IsSequence reports whether the value is a sequence.
func (v Value) IsSequence() bool { return v.kind == KindSequence }

// IsMapping reports whether the value is a mapping.
func (v Value) IsMapping() bool { return v.kind == KindMapping }

// Str returns the scalar as a string. The second result is false when the
// value is not a string scalar.
func (v Value) Str() (string, bool) {
	if v.kind != KindScalar {
		return "", false
	}
	s, ok := v.scalar.(string)
	return s, ok
}

// ScalarValue returns the raw scalar value, or nil for non-scalars.
func (v Value) ScalarValue() any {
	if v.kind != KindScalar {
		return nil
	}
	return v.scalar
}

// Items returns the sequence items, or nil for non-sequences.
func (v Value) Items() []Value { return v.items }

// Keys returns mapping keys in document order, or nil for non-mappings.
func (v Value) Keys() []string { return v.keys }

// Get returns the value for key, or an absent value when the key is missing
// or v is not a mapping.
func (v Value) Get(key string) Value {
	if v.kind != KindMapping {
		return Value{}
	}
	return v.entries[key]
}

// Has reports whether the mapping contains key.
func (v Value) Has(key string) bool {
	if v.kind != KindMapping {
		return false
	}
	_, ok := v.entries[key]
	return ok
}

// Len returns the number of items (sequence) or entries (mapping).
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.keys)
	default:
		return 0
	}
}

// Set stores val under key, appending the key to the order on first insert.
// It is a no-op on non-mappings.
func (v *Value) Set(key string, val Value) {
	if v.kind != KindMapping {
		return
	}
	if _, exists := v.entries[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.entries[key] = val
}

// Delete removes key from the mapping, preserving the order of the remaining keys.
func (v *Value) Delete(key string) {
	if v.kind != KindMapping {
		return
	}
	if _, exists := v.entries[key]; !exists {
		return
	}
	delete(v.entries, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
}

// Append adds an item to a sequence value. It is a no-op on non-sequences.
func (v *Value) Append(item Value) {
	if v.kind != KindSequence {
		return
	}
	v.items = append(v.items, item)
}

// fromNode converts a yaml.Node into a Value, preserving mapping key order.
// Alias nodes are followed; unsupported node kinds become absent.
func fromNode(n *yaml.Node) Value {
	if n == nil {
		return Value{}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Value{}
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.ScalarNode:
		var s any
		if err := n.Decode(&s); err != nil {
			return Scalar(n.Value)
		}
		return Scalar(s)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			items = append(items, fromNode(c))
		}
		return Value{kind: KindSequence, items: items}
	case yaml.MappingNode:
		m := Mapping()
		var merges []Value
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if key == "<<" {
				merges = append(merges, mergeSources(n.Content[i+1])...)
				continue
			}
			m.Set(key, fromNode(n.Content[i+1]))
		}
		// Merge keys fold in after explicit keys so explicit keys win; with
		// several sources the earlier one takes precedence, matching YAML
		// merge-key semantics.
		for _, src := range merges {
			for _, k := range src.Keys() {
				if !m.Has(k) {
					m.Set(k, src.Get(k))
				}
			}
		}
		return m
	default:
		return Value{}
	}
}

// mergeSources resolves the value of a "<<" merge key into the mappings it
// contributes: either a single (usually aliased) mapping or a sequence of
// them. Non-mapping entries are ignored.
func mergeSources(n *yaml.Node) []Value {
	v := fromNode(n)
	switch {
	case v.IsMapping():
		return []Value{v}
	case v.IsSequence():
		var out []Value
		for _, item := range v.Items() {
			if item.IsMapping() {
				out = append(out, item)
			}
		}
		return out
	default:
		return nil
	}
}

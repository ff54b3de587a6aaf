// Package meta provides the tagged metadata value used at the document/filter
// boundary: a primitive (string, integer, float, bool) or a flat list of
// primitives. Metadata never nests beyond one level.
package meta

import "strconv"

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindList
)

// Value is a closed tagged union over the primitive metadata types plus a
// flat list of primitives. The zero Value is an empty string.
type Value struct {
	kind    Kind
	str     string
	num     float64
	boolean bool
	list    []Value
}

// String builds a string-valued metadata entry.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int builds an integer-valued metadata entry.
func Int(i int64) Value { return Value{kind: KindInt, num: float64(i)} }

// Float builds a floating-point metadata entry.
func Float(f float64) Value { return Value{kind: KindFloat, num: f} }

// Bool builds a boolean metadata entry.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// List builds a list-valued metadata entry out of primitives. Passing a
// Value whose Kind is itself KindList is a caller error; Valid reports it.
func List(vs ...Value) Value { return Value{kind: KindList, list: vs} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Valid reports whether v respects the "no nesting" metadata rule: a list
// may only contain primitives.
func (v Value) Valid() bool {
	if v.kind != KindList {
		return true
	}
	for _, e := range v.list {
		if e.kind == KindList {
			return false
		}
	}
	return true
}

// Elements returns the primitives contributed by v: itself for a scalar, or
// its members for a list. This is the single enumeration path used both when
// building the field index and when resolving filter clauses, so the two
// never disagree about what a value "is".
func (v Value) Elements() []Value {
	if v.kind != KindList {
		return []Value{v}
	}
	return v.list
}

// CanonicalString returns the stable string form used for field-index keys
// and filter-clause matching. It is only meaningful for scalar values; call
// it on the results of Elements(), not on a list directly.
func (v Value) CanonicalString() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(int64(v.num), 10)
	case KindFloat:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		if v.boolean {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

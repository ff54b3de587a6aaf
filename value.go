package bm25index

import "bm25index/internal/meta"

// Value is the tagged metadata value attached to documents and used in
// search filters: a string, integer, float, bool, or a flat list of
// primitives. Build one with String, Int, Float, Bool, or List.
type Value = meta.Value

// String builds a string-valued metadata entry.
func String(s string) Value { return meta.String(s) }

// Int builds an integer-valued metadata entry.
func Int(i int64) Value { return meta.Int(i) }

// Float builds a floating-point metadata entry.
func Float(f float64) Value { return meta.Float(f) }

// Bool builds a boolean-valued metadata entry.
func Bool(b bool) Value { return meta.Bool(b) }

// List builds a list-valued metadata entry out of primitives. A list
// containing another list is rejected by Build with InvalidDocument.
func List(vs ...Value) Value { return meta.List(vs...) }

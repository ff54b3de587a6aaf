package bm25index

import "bm25index/internal/docsrc"

// Document is the heterogeneous input Build accepts: either bare text or
// text paired with metadata. Build it with Text or WithMeta.
type Document = docsrc.Input

// Text builds a plain-text document with no metadata.
func Text(s string) Document { return docsrc.Text(s) }

// WithMeta builds a document carrying both text and metadata. Only fields
// named in WithIndexFields are materialized into the filterable field
// index; other metadata is stored but not queryable.
func WithMeta(text string, meta map[string]Value) Document { return docsrc.WithMeta(text, meta) }

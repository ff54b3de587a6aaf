// Package engine holds the immutable index state (C3's output) and the two
// operations that read it without mutation: scoring (C4) and filter
// resolution (C5). Nothing in this package ever mutates a *State after
// Build returns it.
package engine

import (
	"sort"

	"bm25index/internal/meta"
)

// BM25 tunables. Compile-time constants, per the specification: no runtime
// configuration surface is offered for them.
const (
	K1 = 1.2
	B  = 0.75
)

// Document is the frozen record stored at each doc id: its id, original
// text, and metadata. Its tokens are not stored; callers that need them
// re-tokenize Text.
type Document struct {
	ID   uint32
	Text string
	Meta map[string]meta.Value
}

// TermInfo locates a term's postings block in the packed array and carries
// its pre-computed IDF.
type TermInfo struct {
	Off uint32
	Len uint32
	IDF float64
}

// State is the immutable, built index: dictionary, packed postings, length
// norms, field index, and the frozen document records. It is safe to read
// concurrently from any number of goroutines without locking.
type State struct {
	Docs          []Document
	Dict          map[string]TermInfo
	Postings      []uint32
	Norms         []float64
	FieldIndex    map[string]map[string][]uint32
	IndexedFields map[string]struct{}
}

// N is the number of documents in the index.
func (s *State) N() int { return len(s.Docs) }

// IndexedFieldNames returns the sorted set of field names declared at build
// time, for inclusion in UnknownField error messages.
func (s *State) IndexedFieldNames() []string {
	names := make([]string, 0, len(s.IndexedFields))
	for name := range s.IndexedFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

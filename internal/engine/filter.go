package engine

import (
	"bm25index/internal/bm25err"
	"bm25index/internal/meta"
)

// DocSet is the result of resolving a filter: the set of doc ids a result
// must belong to. A nil *DocSet (returned alongside a nil error from
// ResolveFilter) means "no filter was supplied"; an empty, non-nil *DocSet
// means the filter excludes every document.
type DocSet struct {
	ids map[uint32]struct{}
}

// Contains reports whether id is in the set.
func (d *DocSet) Contains(id uint32) bool {
	_, ok := d.ids[id]
	return ok
}

// Len reports the set's size.
func (d *DocSet) Len() int { return len(d.ids) }

func newDocSet(ids []uint32) *DocSet {
	set := make(map[uint32]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &DocSet{ids: set}
}

// ResolveFilter validates the filter's field names against the index's
// indexed-fields set and computes the intersection, across fields, of the
// union of doc-id sets for each field's requested value(s).
func ResolveFilter(s *State, filter map[string]meta.Value) (*DocSet, error) {
	if len(filter) == 0 {
		return nil, nil
	}

	var offending []string
	for field := range filter {
		if _, ok := s.IndexedFields[field]; !ok {
			offending = append(offending, field)
		}
	}
	if len(offending) > 0 {
		return nil, bm25err.UnknownFieldError(offending, s.IndexedFieldNames())
	}

	var result map[uint32]struct{}
	for field, value := range filter {
		bucket := s.FieldIndex[field]
		perField := make(map[uint32]struct{})
		for _, elem := range value.Elements() {
			for _, id := range bucket[elem.CanonicalString()] {
				perField[id] = struct{}{}
			}
		}

		if result == nil {
			result = perField
			continue
		}
		for id := range result {
			if _, ok := perField[id]; !ok {
				delete(result, id)
			}
		}
		if len(result) == 0 {
			break
		}
	}

	ids := make([]uint32, 0, len(result))
	for id := range result {
		ids = append(ids, id)
	}
	return newDocSet(ids), nil
}

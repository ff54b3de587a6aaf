// Package heap implements the fixed-capacity top-k selection used by the
// scorer: a bounded min-heap over (docID, score) pairs with a deterministic
// ascending-doc-id tie-break.
package heap

import (
	stdheap "container/heap"
	"sort"
)

// Entry is a single scored document.
type Entry struct {
	DocID uint32
	Score float64
}

// less reports whether a ranks below b in the min-heap, i.e. whether a is
// the weaker of the two and should be evicted first: lower score first,
// then (on a tie) higher doc id first, so the heap's root is always the
// entry a new touched doc must beat to gain a spot.
func less(a, b Entry) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.DocID > b.DocID
}

type minHeap []Entry

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return less(h[i], h[j]) }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(Entry)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TopK selects the k highest-scoring entries from accumulator, restricted to
// the doc ids in touched, and returns them sorted descending by score with
// ties broken by ascending doc id. If k >= len(touched), every touched doc
// is returned (sorted, no heap needed).
func TopK(accumulator []float64, touched []uint32, k int) []Entry {
	if k >= len(touched) {
		entries := make([]Entry, len(touched))
		for i, id := range touched {
			entries[i] = Entry{DocID: id, Score: accumulator[id]}
		}
		sortDescending(entries)
		return entries
	}

	h := make(minHeap, 0, k)
	for _, id := range touched {
		e := Entry{DocID: id, Score: accumulator[id]}
		if len(h) < k {
			stdheap.Push(&h, e)
			continue
		}
		if less(h[0], e) {
			h[0] = e
			stdheap.Fix(&h, 0)
		}
	}

	entries := make([]Entry, len(h))
	copy(entries, h)
	sortDescending(entries)
	return entries
}

func sortDescending(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].DocID < entries[j].DocID
	})
}

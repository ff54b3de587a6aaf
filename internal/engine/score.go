package engine

import (
	"bm25index/internal/bm25err"
	"bm25index/internal/heap"
	"bm25index/internal/meta"
	"bm25index/internal/tokenize"
)

// Result pairs a scored document with its BM25 score.
type Result struct {
	Doc   Document
	Score float64
}

// Score tokenizes query, resolves an optional filter, accumulates BM25
// contributions over the postings of each query token, and returns the
// top-limit results sorted descending by score (ties broken by ascending
// doc id). An empty or whitespace-only query, a filter that excludes every
// document, or a query of entirely out-of-vocabulary terms all yield an
// empty, non-error result.
func Score(s *State, query string, limit int, filter map[string]meta.Value, stopWords tokenize.StopSet) ([]Result, error) {
	if limit < 1 {
		return nil, bm25err.New(bm25err.InvalidLimit, "limit must be >= 1")
	}

	terms := tokenize.Tokenize(query, stopWords)
	if len(terms) == 0 {
		return nil, nil
	}

	allowed, err := ResolveFilter(s, filter)
	if err != nil {
		return nil, err
	}
	if allowed != nil && allowed.Len() == 0 {
		return nil, nil
	}

	n := s.N()
	accumulator := make([]float64, n)
	touched := make([]uint32, 0)

	for _, term := range terms {
		info, ok := s.Dict[term]
		if !ok {
			continue
		}
		walkPostings(s, info, allowed, accumulator, &touched)
	}

	if len(touched) == 0 {
		return nil, nil
	}

	entries := heap.TopK(accumulator, touched, limit)
	results := make([]Result, len(entries))
	for i, e := range entries {
		results[i] = Result{Doc: s.Docs[e.DocID], Score: e.Score}
	}
	return results, nil
}

func walkPostings(s *State, info TermInfo, allowed *DocSet, accumulator []float64, touched *[]uint32) {
	var doc uint32
	block := s.Postings[info.Off : info.Off+info.Len]
	for i := 0; i < len(block); i += 2 {
		doc += block[i]
		tf := float64(block[i+1])

		if allowed != nil && !allowed.Contains(doc) {
			continue
		}

		contribution := info.IDF * (tf * (K1 + 1)) / (tf + K1*s.Norms[doc])
		if accumulator[doc] == 0 {
			*touched = append(*touched, doc)
		}
		accumulator[doc] += contribution
	}
}

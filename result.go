package bm25index

import "bm25index/internal/engine"

// Result is a single ranked match: the original document's id, text, and
// metadata, plus the BM25 score it earned against the query.
type Result struct {
	ID    uint32
	Text  string
	Meta  map[string]Value
	Score float64
}

func toResults(in []engine.Result) []Result {
	if in == nil {
		return nil
	}
	out := make([]Result, len(in))
	for i, r := range in {
		out[i] = Result{ID: r.Doc.ID, Text: r.Doc.Text, Meta: r.Doc.Meta, Score: r.Score}
	}
	return out
}

package engine

import (
	"math"
	"sort"

	"bm25index/internal/bm25err"
	"bm25index/internal/docsrc"
	"bm25index/internal/meta"
	"bm25index/internal/tokenize"
)

// Build runs the two-pass index construction described in the
// specification: normalize inputs, accumulate per-document term counts and
// raw lengths, invert into sorted delta-encoded postings, compute length
// norms, and build the per-field value index. It never mutates docs.
func Build(docs []docsrc.Input, indexFields []string, stopWords tokenize.StopSet) (*State, error) {
	if len(docs) == 0 {
		return nil, bm25err.New(bm25err.InvalidCorpus, "build requires at least one document")
	}

	records := make([]Document, len(docs))
	docTermCounts := make([]map[string]int, len(docs))
	docLens := make([]int, len(docs))

	for i, in := range docs {
		if !in.Valid() {
			return nil, bm25err.Newf(bm25err.InvalidDocument, "document %d is not a valid text or metadata record", i)
		}

		records[i] = Document{ID: uint32(i), Text: in.RawText(), Meta: in.Meta()}

		// Document length reflects the tokenizer's raw output, independent
		// of stop-word filtering (see the length-normalization open
		// question resolved in SPEC_FULL.md section 9).
		docLens[i] = len(tokenize.Tokenize(in.RawText(), nil))

		terms := tokenize.Tokenize(in.RawText(), stopWords)
		counts := make(map[string]int, len(terms))
		for _, term := range terms {
			counts[term]++
		}
		docTermCounts[i] = counts
	}

	dict, postings := invert(docTermCounts, len(docs))

	avgDocLen := mean(docLens)
	if avgDocLen == 0 {
		avgDocLen = 1
	}
	norms := make([]float64, len(docs))
	for i, dl := range docLens {
		norms[i] = (1 - B) + B*(float64(dl)/avgDocLen)
	}

	fieldIndex := buildFieldIndex(records, indexFields)
	indexed := make(map[string]struct{}, len(indexFields))
	for _, f := range indexFields {
		indexed[f] = struct{}{}
	}

	return &State{
		Docs:          records,
		Dict:          dict,
		Postings:      postings,
		Norms:         norms,
		FieldIndex:    fieldIndex,
		IndexedFields: indexed,
	}, nil
}

// invert builds the dictionary and packed, delta-encoded postings array
// from per-document term counts. Terms are laid out in lexicographic order;
// within a term's block, entries strictly ascend by doc id.
func invert(docTermCounts []map[string]int, n int) (map[string]TermInfo, []uint32) {
	type docTF struct {
		doc uint32
		tf  int
	}
	byTerm := make(map[string][]docTF)
	for doc, counts := range docTermCounts {
		for term, tf := range counts {
			byTerm[term] = append(byTerm[term], docTF{doc: uint32(doc), tf: tf})
		}
	}

	terms := make([]string, 0, len(byTerm))
	for term := range byTerm {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	dict := make(map[string]TermInfo, len(terms))
	postings := make([]uint32, 0)

	for _, term := range terms {
		entries := byTerm[term]
		sort.Slice(entries, func(i, j int) bool { return entries[i].doc < entries[j].doc })

		off := uint32(len(postings))
		var prev uint32
		for i, e := range entries {
			delta := e.doc
			if i > 0 {
				delta = e.doc - prev
			}
			postings = append(postings, delta, uint32(e.tf))
			prev = e.doc
		}
		length := uint32(len(postings)) - off

		df := float64(len(entries))
		idf := math.Log((float64(n)-df+0.5)/(df+0.5) + 1)

		dict[term] = TermInfo{Off: off, Len: length, IDF: idf}
	}

	return dict, postings
}

func mean(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return float64(sum) / float64(len(vals))
}

// buildFieldIndex materializes the value -> sorted doc-id-set mapping for
// every declared indexed field. A missing metadata entry contributes
// nothing; a list-valued entry contributes the doc id under each element's
// canonical string.
func buildFieldIndex(docs []Document, indexFields []string) map[string]map[string][]uint32 {
	index := make(map[string]map[string][]uint32, len(indexFields))
	for _, field := range indexFields {
		index[field] = make(map[string][]uint32)
	}

	for _, doc := range docs {
		for _, field := range indexFields {
			value, ok := doc.Meta[field]
			if !ok {
				continue
			}
			addFieldValue(index[field], doc.ID, value)
		}
	}

	for field, buckets := range index {
		for value, ids := range buckets {
			buckets[value] = dedupeSorted(ids)
		}
		index[field] = buckets
	}

	return index
}

func addFieldValue(bucket map[string][]uint32, docID uint32, value meta.Value) {
	for _, elem := range value.Elements() {
		key := elem.CanonicalString()
		bucket[key] = append(bucket[key], docID)
	}
}

func dedupeSorted(ids []uint32) []uint32 {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := ids[:0]
	var prev uint32
	for i, id := range ids {
		if i == 0 || id != prev {
			out = append(out, id)
		}
		prev = id
	}
	return out
}

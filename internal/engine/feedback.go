package engine

import (
	"math"
	"sort"
	"strings"

	"bm25index/internal/tokenize"
)

// feedbackTermCap bounds how many merged terms survive into the re-expanded
// query (step 6 of the relevance-feedback algorithm).
const feedbackTermCap = 30

// ExpandFeedbackQuery implements the Rocchio-style re-expansion (C7): it
// folds term weights harvested from relevantDocIDs into the original
// query's own terms and re-expands the merge into a repeated-token
// bag-of-words string suitable for a plain Score call. It returns query
// unchanged whenever the algorithm's own fallback conditions apply (no
// relevant ids, none found, or an empty expansion), matching steps 1, 2,
// and 8.
func ExpandFeedbackQuery(s *State, query string, relevantDocIDs []uint32, alpha, beta float64, buildStopWords tokenize.StopSet) string {
	if len(relevantDocIDs) == 0 {
		return query
	}

	feedbackWeight := make(map[string]float64)
	found := 0
	for _, id := range relevantDocIDs {
		if int(id) < 0 || int(id) >= s.N() {
			continue
		}
		terms := tokenize.Tokenize(s.Docs[id].Text, buildStopWords)
		if len(terms) == 0 {
			continue
		}
		found++
		share := 1.0 / float64(len(terms))
		for _, term := range terms {
			feedbackWeight[term] += share
		}
	}
	if found == 0 {
		return query
	}

	queryTerms := tokenize.Tokenize(query, nil)
	merged := make(map[string]float64, len(queryTerms)+len(feedbackWeight))
	for _, term := range queryTerms {
		merged[term] = alpha
	}
	for term, weight := range feedbackWeight {
		merged[term] += beta * weight * (1.0 / float64(found))
	}

	type termWeight struct {
		term   string
		weight float64
	}
	ranked := make([]termWeight, 0, len(merged))
	for term, weight := range merged {
		ranked = append(ranked, termWeight{term, weight})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		return ranked[i].term < ranked[j].term
	})
	if len(ranked) > feedbackTermCap {
		ranked = ranked[:feedbackTermCap]
	}

	selected := make(map[string]struct{}, len(ranked))
	var bag []string
	for _, tw := range ranked {
		selected[tw.term] = struct{}{}
		reps := 1
		if tw.weight > 1 && !math.IsInf(tw.weight, 0) && !math.IsNaN(tw.weight) {
			reps = clampInt(int(math.Round(1+math.Log(tw.weight))), 1, 8)
		}
		for i := 0; i < reps; i++ {
			bag = append(bag, tw.term)
		}
	}
	for _, term := range queryTerms {
		if _, ok := selected[term]; !ok {
			bag = append(bag, term)
		}
	}

	if len(bag) == 0 {
		return query
	}
	return strings.Join(bag, " ")
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

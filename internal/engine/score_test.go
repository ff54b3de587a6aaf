package engine

import (
	"testing"

	"bm25index/internal/bm25err"
	"bm25index/internal/docsrc"
	"bm25index/internal/meta"
	"bm25index/internal/tokenize"
)

func mustBuild(t *testing.T, docs []docsrc.Input, indexFields []string, stop tokenize.StopSet) *State {
	t.Helper()
	state, err := Build(docs, indexFields, stop)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return state
}

func ids(results []Result) []uint32 {
	out := make([]uint32, len(results))
	for i, r := range results {
		out[i] = r.Doc.ID
	}
	return out
}

// Scenario 1: fox query returns docs 0 and 2, doc 0 in the top two.
func TestScenarioFoxQuery(t *testing.T) {
	state := mustBuild(t, textDocs(
		"the quick brown fox jumps over the lazy dog",
		"the lazy dog sleeps all day",
		"a quick brown fox is quick",
	), nil, nil)

	results, err := Score(state, "fox", 10, nil, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	got := ids(results)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %v", got)
	}
	if got[0] != 0 && got[1] != 0 {
		t.Fatalf("expected doc 0 in top two, got %v", got)
	}
}

// Scenario 2: monotone tf, saturating BM25 ranking by repeated term.
func TestScenarioApplesMonotoneByTermFrequency(t *testing.T) {
	state := mustBuild(t, textDocs("apple", "apple apple", "apple apple apple", "apple apple apple apple"), nil, nil)

	results, err := Score(state, "apple", 10, nil, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if results[0].Doc.ID != 3 {
		t.Fatalf("expected doc 3 ranked first, got %d", results[0].Doc.ID)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Fatalf("scores not non-increasing at %d: %v", i, results)
		}
	}
}

// Scenario 3: cat query.
func TestScenarioCatQuery(t *testing.T) {
	state := mustBuild(t, textDocs(
		"the cat sat on the mat",
		"the cat cat cat",
		"the dog sat on the mat",
		"cats are nice animals",
	), nil, nil)

	results, err := Score(state, "cat", 10, nil, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(results) == 0 || results[0].Doc.ID != 1 {
		t.Fatalf("expected doc 1 ranked first, got %v", ids(results))
	}
	if len(results) > 1 && results[0].Score <= results[1].Score {
		t.Fatalf("expected strictly higher top score, got %v", results)
	}
}

// Scenario 4: stop-word handling at build and query time.
func TestScenarioStopWords(t *testing.T) {
	stop := tokenize.NewStopSet([]string{"the", "and", "a", "an", "or", "but"})
	state := mustBuild(t, textDocs(
		"the cat sat on the mat",
		"the cat cat cat",
		"the dog sat on the mat",
		"cats are nice animals",
	), nil, stop)

	results, err := Score(state, "the fox", 10, nil, stop)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no matches for 'fox', got %v", results)
	}

	results, err = Score(state, "the and a", 10, nil, stop)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty result for all-stopword query, got %v", results)
	}
}

// Scenario 5: filter intersection across two fields.
func TestScenarioFilterIntersection(t *testing.T) {
	docs := []docsrc.Input{
		docsrc.WithMeta("machine learning basics", map[string]meta.Value{
			"category": meta.String("ML"), "language": meta.String("Python"),
		}),
		docsrc.WithMeta("machine learning advanced", map[string]meta.Value{
			"category": meta.String("ML"), "language": meta.String("Go"),
		}),
		docsrc.WithMeta("deep learning basics", map[string]meta.Value{
			"category": meta.String("DL"), "language": meta.String("Python"),
		}),
		docsrc.WithMeta("learning theory", map[string]meta.Value{
			"category": meta.String("ML"), "language": meta.String("Python"),
		}),
	}
	state := mustBuild(t, docs, []string{"category", "language"}, nil)

	results, err := Score(state, "learning", 10, map[string]meta.Value{
		"category": meta.String("ML"), "language": meta.String("Python"),
	}, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results (docs 0 and 3), got %v", ids(results))
	}
}

// Scenario 6: filter union within a clause, intersected with another clause.
func TestScenarioFilterUnionWithinClause(t *testing.T) {
	docs := []docsrc.Input{
		docsrc.WithMeta("sorting algorithms", map[string]meta.Value{
			"topic": meta.String("algorithms"), "level": meta.String("advanced"),
		}),
		docsrc.WithMeta("linked lists", map[string]meta.Value{
			"topic": meta.String("data-structures"), "level": meta.String("advanced"),
		}),
		docsrc.WithMeta("intro to algorithms", map[string]meta.Value{
			"topic": meta.String("algorithms"), "level": meta.String("beginner"),
		}),
		docsrc.WithMeta("graph theory", map[string]meta.Value{
			"topic": meta.String("graphs"), "level": meta.String("advanced"),
		}),
	}
	state := mustBuild(t, docs, []string{"topic", "level"}, nil)

	results, err := Score(state, "algorithms lists graphs", 10, map[string]meta.Value{
		"topic": meta.List(meta.String("algorithms"), meta.String("data-structures")),
		"level": meta.String("advanced"),
	}, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	got := ids(results)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %v", got)
	}
	for _, want := range []uint32{0, 1} {
		found := false
		for _, g := range got {
			if g == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected doc %d among results, got %v", want, got)
		}
	}
}

func TestScoreRejectsInvalidLimit(t *testing.T) {
	state := mustBuild(t, textDocs("one two three"), nil, nil)
	_, err := Score(state, "one", 0, nil, nil)
	if !bm25err.Is(err, bm25err.InvalidLimit) {
		t.Fatalf("expected InvalidLimit, got %v", err)
	}
}

func TestScoreUnknownFieldFilter(t *testing.T) {
	state := mustBuild(t, textDocs("one two three"), []string{"category"}, nil)
	_, err := Score(state, "one", 10, map[string]meta.Value{"language": meta.String("go")}, nil)
	if !bm25err.Is(err, bm25err.UnknownField) {
		t.Fatalf("expected UnknownField, got %v", err)
	}
}

func TestScoreEmptyAndWhitespaceQuery(t *testing.T) {
	state := mustBuild(t, textDocs("one two three"), nil, nil)
	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := Score(state, q, 10, nil, nil)
		if err != nil {
			t.Fatalf("Score(%q): %v", q, err)
		}
		if len(results) != 0 {
			t.Fatalf("Score(%q) expected empty, got %v", q, results)
		}
	}
}

func TestScoreCaseInsensitivity(t *testing.T) {
	state := mustBuild(t, textDocs("the quick fox", "no match here"), nil, nil)
	upper, err := Score(state, "FOX", 10, nil, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	lower, err := Score(state, "fox", 10, nil, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(upper) != len(lower) {
		t.Fatalf("length mismatch: %v vs %v", upper, lower)
	}
	for i := range upper {
		if upper[i].Doc.ID != lower[i].Doc.ID || upper[i].Score != lower[i].Score {
			t.Fatalf("mismatch at %d: %+v vs %+v", i, upper[i], lower[i])
		}
	}
}

func TestScoreTwoIdenticalDocumentsWithinTolerance(t *testing.T) {
	state := mustBuild(t, textDocs("the quick brown fox", "the quick brown fox", "something else entirely"), nil, nil)
	results, err := Score(state, "fox", 10, nil, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %v", results)
	}
	a, b := results[0].Score, results[1].Score
	tolerance := 0.10 * a
	if diff := a - b; diff < 0 || diff > tolerance {
		t.Fatalf("identical documents diverged beyond tolerance: %v vs %v", a, b)
	}
}

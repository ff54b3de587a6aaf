package bm25index

import (
	"context"
	"sync"
	"testing"
)

func buildFoxCorpus(t *testing.T, opts ...BuildOption) *Index {
	t.Helper()
	ix, err := Build(context.Background(), []Document{
		Text("the quick brown fox jumps over the lazy dog"),
		Text("the lazy dog sleeps all day"),
		Text("a quick brown fox is quick"),
	}, opts...)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return ix
}

func TestBuildAndSearchRoundTrip(t *testing.T) {
	ix := buildFoxCorpus(t)
	defer ix.Dispose(context.Background())

	results, err := ix.Search(context.Background(), "fox")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestBuildRejectsEmptyCorpus(t *testing.T) {
	_, err := Build(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for empty corpus")
	}
}

func TestSearchWithFilter(t *testing.T) {
	ix, err := Build(context.Background(), []Document{
		WithMeta("machine learning basics", map[string]Value{"category": String("ML")}),
		WithMeta("deep learning basics", map[string]Value{"category": String("DL")}),
	}, WithIndexFields("category"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer ix.Dispose(context.Background())

	results, err := ix.Search(context.Background(), "learning", WithFilter(map[string]Value{"category": String("ML")}))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != 0 {
		t.Fatalf("expected doc 0 only, got %v", results)
	}
}

func TestSearchAfterDisposeFails(t *testing.T) {
	ix := buildFoxCorpus(t)
	if err := ix.Dispose(context.Background()); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if _, err := ix.Search(context.Background(), "fox"); err == nil {
		t.Fatal("expected error after dispose")
	}
}

func TestSearchWithFeedbackFallsBackWithNoRelevantIDs(t *testing.T) {
	ix := buildFoxCorpus(t)
	defer ix.Dispose(context.Background())

	direct, err := ix.Search(context.Background(), "fox")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	fed, err := ix.SearchWithFeedback(context.Background(), "fox", nil)
	if err != nil {
		t.Fatalf("SearchWithFeedback: %v", err)
	}
	if len(direct) != len(fed) {
		t.Fatalf("expected identical fallback result count: %d vs %d", len(direct), len(fed))
	}
}

func TestSearchWithFeedbackPullsInRelevantTerms(t *testing.T) {
	ix, err := Build(context.Background(), []Document{
		Text("red apples are sweet"),
		Text("red apples are a popular fruit snack"),
		Text("blue cars drive fast"),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer ix.Dispose(context.Background())

	results, err := ix.SearchWithFeedback(context.Background(), "fruit", []uint32{0, 1})
	if err != nil {
		t.Fatalf("SearchWithFeedback: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected feedback search to surface results")
	}
}

func TestConcurrentSearchesAreDeterministic(t *testing.T) {
	ix := buildFoxCorpus(t)
	defer ix.Dispose(context.Background())

	const n = 20
	var wg sync.WaitGroup
	all := make([][]Result, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := ix.Search(context.Background(), "fox")
			if err != nil {
				t.Errorf("Search: %v", err)
				return
			}
			all[i] = res
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if len(all[i]) != len(all[0]) {
			t.Fatalf("result length mismatch at %d: %v vs %v", i, all[i], all[0])
		}
		for j := range all[i] {
			if all[i][j].ID != all[0][j].ID || all[i][j].Score != all[0][j].Score {
				t.Fatalf("mismatch at result %d,%d: %v vs %v", i, j, all[i][j], all[0][j])
			}
		}
	}
}

func TestBuildSearchDisposeCycleDoesNotLeak(t *testing.T) {
	for i := 0; i < 25; i++ {
		ix := buildFoxCorpus(t)
		if _, err := ix.Search(context.Background(), "fox"); err != nil {
			t.Fatalf("cycle %d: Search: %v", i, err)
		}
		if err := ix.Dispose(context.Background()); err != nil {
			t.Fatalf("cycle %d: Dispose: %v", i, err)
		}
	}
}

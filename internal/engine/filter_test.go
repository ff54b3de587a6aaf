package engine

import (
	"testing"

	"bm25index/internal/docsrc"
	"bm25index/internal/meta"
)

func TestResolveFilterNilWhenNoFilterGiven(t *testing.T) {
	state := mustBuild(t, textDocs("a b c"), []string{"category"}, nil)
	set, err := ResolveFilter(state, nil)
	if err != nil || set != nil {
		t.Fatalf("expected nil set and nil error, got %v, %v", set, err)
	}
}

func TestResolveFilterEmptyWhenValueMatchesNothing(t *testing.T) {
	docs := []docsrc.Input{
		docsrc.WithMeta("x", map[string]meta.Value{"category": meta.String("ML")}),
	}
	state := mustBuild(t, docs, []string{"category"}, nil)
	set, err := ResolveFilter(state, map[string]meta.Value{"category": meta.String("nonexistent")})
	if err != nil {
		t.Fatalf("ResolveFilter: %v", err)
	}
	if set == nil || set.Len() != 0 {
		t.Fatalf("expected empty non-nil set, got %v", set)
	}
}

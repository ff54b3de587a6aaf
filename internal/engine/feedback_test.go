package engine

import (
	"strings"
	"testing"
)

func TestExpandFeedbackQueryFallsBackWithNoRelevantIDs(t *testing.T) {
	got := ExpandFeedbackQuery(nil, "fox", nil, 1.0, 0.75, nil)
	if got != "fox" {
		t.Fatalf("expected unchanged query, got %q", got)
	}
}

func TestExpandFeedbackQueryFallsBackWhenNoneResolve(t *testing.T) {
	state := mustBuild(t, textDocs("alpha beta", "gamma delta"), nil, nil)
	got := ExpandFeedbackQuery(state, "alpha", []uint32{99}, 1.0, 0.75, nil)
	if got != "alpha" {
		t.Fatalf("expected unchanged query, got %q", got)
	}
}

func TestExpandFeedbackQueryPullsTermsFromRelevantDocs(t *testing.T) {
	state := mustBuild(t, textDocs(
		"machine learning models",
		"deep learning neural networks",
		"unrelated document text",
	), nil, nil)

	expanded := ExpandFeedbackQuery(state, "learning", []uint32{1}, 1.0, 0.75, nil)
	if !strings.Contains(expanded, "learning") {
		t.Fatalf("expected expansion to retain query term, got %q", expanded)
	}
	if !strings.Contains(expanded, "neural") && !strings.Contains(expanded, "deep") && !strings.Contains(expanded, "networks") {
		t.Fatalf("expected expansion to pull in a term from the relevant doc, got %q", expanded)
	}
}

func TestExpandFeedbackQueryExpansionScoresSuccessfully(t *testing.T) {
	state := mustBuild(t, textDocs(
		"red apples are sweet",
		"red apples are a popular fruit snack",
		"blue cars drive fast",
	), nil, nil)

	expanded := ExpandFeedbackQuery(state, "fruit", []uint32{0, 1}, 1.0, 0.75, nil)
	results, err := Score(state, expanded, 10, nil, nil)
	if err != nil {
		t.Fatalf("Score(expanded): %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected feedback expansion to surface some results")
	}
}

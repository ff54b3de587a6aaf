package heap

import "testing"

func TestTopKReturnsAllWhenKExceedsTouched(t *testing.T) {
	acc := []float64{0, 3, 1, 2}
	touched := []uint32{1, 2, 3}
	got := TopK(acc, touched, 10)
	want := []uint32{1, 3, 2}
	assertOrder(t, got, want)
}

func TestTopKBoundedSelection(t *testing.T) {
	acc := []float64{5, 1, 9, 3, 7}
	touched := []uint32{0, 1, 2, 3, 4}
	got := TopK(acc, touched, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	want := []uint32{2, 4}
	assertOrder(t, got, want)
}

func TestTopKTieBreakAscendingDocID(t *testing.T) {
	acc := []float64{1, 1, 1}
	touched := []uint32{2, 0, 1}
	got := TopK(acc, touched, 2)
	want := []uint32{0, 1}
	assertOrder(t, got, want)
}

func assertOrder(t *testing.T, got []Entry, want []uint32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d entries, want %d", len(got), len(want))
	}
	for i, e := range got {
		if e.DocID != want[i] {
			t.Fatalf("position %d: got doc %d, want doc %d (full: %+v)", i, e.DocID, want[i], got)
		}
	}
}

package reconcile

import (
	"reflect"
	"testing"
)

func TestClassify_ThreeWaySplit(t *testing.T) {
	referenced := []string{"A", "B", "Ghost", "A"}
	existing := map[string]string{
		"A": "A.md",
		"B": "sub/B.md",
		"C": "C.md",
	}
	got := Classify(referenced, existing, nil)

	wantLinked := map[string]string{"A": "A.md", "B": "sub/B.md"}
	if !reflect.DeepEqual(got.LinkedExisting, wantLinked) {
		t.Errorf("linked = %v, want %v", got.LinkedExisting, wantLinked)
	}
	wantUnlinked := map[string]string{"C": "C.md"}
	if !reflect.DeepEqual(got.UnlinkedExisting, wantUnlinked) {
		t.Errorf("unlinked = %v, want %v", got.UnlinkedExisting, wantUnlinked)
	}
	if !reflect.DeepEqual(got.Nonexistent, []string{"Ghost"}) {
		t.Errorf("nonexistent = %v, want [Ghost]", got.Nonexistent)
	}
}

func TestClassify_OtherKindExcluded(t *testing.T) {
	referenced := []string{"diagram.png", "Missing"}
	existing := map[string]string{"Note": "Note.md"}
	otherKind := map[string]struct{}{"diagram.png": {}}

	got := Classify(referenced, existing, otherKind)
	if !reflect.DeepEqual(got.Nonexistent, []string{"Missing"}) {
		t.Errorf("nonexistent = %v, want [Missing]", got.Nonexistent)
	}
}

func TestClassify_NonexistentSorted(t *testing.T) {
	got := Classify([]string{"zeta", "alpha", "mid"}, nil, nil)
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(got.Nonexistent, want) {
		t.Errorf("nonexistent = %v, want %v", got.Nonexistent, want)
	}
}

func TestEliminateAccounted(t *testing.T) {
	candidates := []string{"c", "a", "b", "d"}
	got := EliminateAccounted(candidates,
		map[string]struct{}{"b": {}},
		map[string]struct{}{"d": {}},
	)
	want := []string{"a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

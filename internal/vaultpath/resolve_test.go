package vaultpath

import (
	"reflect"
	"testing"

	"github.com/starford/laguz/internal/models"
)

func listing(paths ...string) []models.FileInfo {
	out := make([]models.FileInfo, len(paths))
	for i, p := range paths {
		out[i] = models.FileInfo{Path: p}
	}
	return out
}

func TestResolve_NoteShortNames(t *testing.T) {
	got := Resolve(listing("A.md", "sub/B.md"), models.KindNote, Options{})
	want := map[string]string{"A": "A.md", "B": "sub/B.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_CollisionPromotion(t *testing.T) {
	got := Resolve(listing("X/note.md", "Y/note.md", "other.md"), models.KindNote, Options{})
	want := map[string]string{
		"X/note": "X/note.md",
		"Y/note": "Y/note.md",
		"other":  "other.md",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_ThreeWayCollision(t *testing.T) {
	got := Resolve(listing("a.md", "x/a.md", "x/y/a.md"), models.KindNote, Options{})
	want := map[string]string{
		"a":     "a.md",
		"x/a":   "x/a.md",
		"x/y/a": "x/y/a.md",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if len(got) != 3 {
		t.Errorf("key set has duplicates: %v", got)
	}
}

func TestResolve_MediaKeepsExtension(t *testing.T) {
	got := Resolve(listing("img/pic.png", "doc.pdf"), models.KindMedia, Options{})
	want := map[string]string{"pic.png": "img/pic.png", "doc.pdf": "doc.pdf"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_MediaCollisionKeepsExtension(t *testing.T) {
	got := Resolve(listing("a/pic.png", "b/pic.png"), models.KindMedia, Options{})
	want := map[string]string{"a/pic.png": "a/pic.png", "b/pic.png": "b/pic.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_SubdirFilterDirectParentOnly(t *testing.T) {
	files := listing("root.md", "keep/a.md", "keep/deeper/b.md", "skip/c.md")

	got := Resolve(files, models.KindNote, Options{IncludeSubdirs: []string{"keep"}})
	want := map[string]string{"a": "keep/a.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got = Resolve(files, models.KindNote, Options{
		IncludeSubdirs: []string{"keep", "keep/deeper"},
		IncludeRoot:    true,
	})
	want = map[string]string{
		"root": "root.md",
		"a":    "keep/a.md",
		"b":    "keep/deeper/b.md",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_Empty(t *testing.T) {
	if got := Resolve(nil, models.KindNote, Options{}); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestExtSet(t *testing.T) {
	notes := ExtSet(models.KindNote)
	if _, ok := notes[".md"]; !ok {
		t.Error("note set missing .md")
	}
	media := ExtSet(models.KindMedia)
	for _, ext := range []string{".png", ".PNG", ".mp3", ".pdf"} {
		if _, ok := media[ext]; !ok {
			t.Errorf("media set missing %s", ext)
		}
	}
	if _, ok := ExtSet(models.KindCanvas)[".canvas"]; !ok {
		t.Error("canvas set missing .canvas")
	}
}

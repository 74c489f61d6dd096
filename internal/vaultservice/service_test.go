package vaultservice

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/testutil"
	"github.com/starford/laguz/internal/vault"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testService(t *testing.T, files map[string]string, opts vault.Options) (*Service, string) {
	t.Helper()
	root, store := testutil.TestVault(t)
	for rel, content := range files {
		testutil.WriteFile(t, root, rel, content)
	}
	db := testutil.TestDB(t)

	return NewService(store, db, opts, testLogger()), root
}

func TestRebuild_LoadsModelAndSnapshot(t *testing.T) {
	svc, _ := testService(t, map[string]string{
		"A.md": "#topic [[B]] and [[B]]",
	}, vault.Options{})

	changed, err := svc.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if !changed {
		t.Error("first rebuild should report a change")
	}

	bl, err := svc.Backlinks(context.Background(), "B")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(bl, []string{"A", "A"}) {
		t.Errorf("backlinks = %v, want [A A]", bl)
	}

	rows, total, err := svc.Files(context.Background(), "", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(rows) != 2 {
		t.Errorf("snapshot rows = %d (%+v)", total, rows)
	}
}

func TestRebuild_SkipsWhenUnchanged(t *testing.T) {
	svc, root := testService(t, map[string]string{"A.md": "hello"}, vault.Options{})

	if _, err := svc.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}
	changed, err := svc.Rebuild(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("rebuild over unchanged vault should be skipped")
	}

	// A touched file changes the fingerprint.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(filepath.Join(root, "A.md"), future, future); err != nil {
		t.Fatal(err)
	}
	changed, err = svc.Rebuild(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("rebuild after touch should run")
	}
}

func TestRebuild_ConcurrentCallsSingleFlight(t *testing.T) {
	svc, _ := testService(t, map[string]string{"A.md": "[[B]]"}, vault.Options{})

	const callers = 8
	results := make(chan bool, callers)
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			changed, err := svc.Rebuild(context.Background())
			results <- changed
			errs <- err
		}()
	}

	var changedCount int
	for i := 0; i < callers; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("rebuild: %v", err)
		}
		if <-results {
			changedCount++
		}
	}
	// Rebuilds are serialized, so exactly one pass does the work and the
	// rest see an unchanged fingerprint.
	if changedCount != 1 {
		t.Errorf("changed rebuilds = %d, want 1", changedCount)
	}

	bl, err := svc.Backlinks(context.Background(), "B")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(bl, []string{"A"}) {
		t.Errorf("backlinks = %v, want [A]", bl)
	}
}

func TestQueries_BeforeFirstRebuild(t *testing.T) {
	svc, _ := testService(t, map[string]string{"A.md": ""}, vault.Options{})

	if _, err := svc.Backlinks(context.Background(), "A"); !errors.Is(err, apperr.ErrNotConnected) {
		t.Errorf("backlinks before rebuild: %v", err)
	}
	if _, err := svc.Analytics(context.Background()); !errors.Is(err, apperr.ErrNotConnected) {
		t.Errorf("analytics before rebuild: %v", err)
	}
	if svc.Vault() != nil {
		t.Error("vault should be nil before first rebuild")
	}
}

func TestNoteDetail(t *testing.T) {
	svc, _ := testService(t, map[string]string{
		"A.md": "---\ntitle: Alpha\n---\n#tag1 [[B|alias]] ![[pic.png]]",
		"B.md": "",
	}, vault.Options{})
	if _, err := svc.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}

	d, err := svc.NoteDetail(context.Background(), "A")
	if err != nil {
		t.Fatal(err)
	}
	if d.RelPath != "A.md" || d.FrontMatter["title"] != "Alpha" {
		t.Errorf("detail = %+v", d)
	}
	if !reflect.DeepEqual(d.Wikilinks, []string{"B"}) {
		t.Errorf("wikilinks = %v", d.Wikilinks)
	}
	if !reflect.DeepEqual(d.EmbeddedFiles, []string{"pic.png"}) {
		t.Errorf("embedded = %v", d.EmbeddedFiles)
	}
	if !reflect.DeepEqual(d.Tags, []string{"tag1"}) {
		t.Errorf("tags = %v", d.Tags)
	}

	if _, err := svc.NoteDetail(context.Background(), "Missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing note: %v", err)
	}
}

func TestAnalytics(t *testing.T) {
	svc, _ := testService(t, map[string]string{
		"A.md":    "[[Ghost]]",
		"Lone.md": "",
	}, vault.Options{})
	if _, err := svc.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}

	a, err := svc.Analytics(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if a.NoteCount != 2 || a.EdgeCount != 1 {
		t.Errorf("analytics = %+v", a)
	}
	if !reflect.DeepEqual(a.NonexistentNotes, []string{"Ghost"}) {
		t.Errorf("nonexistent = %v", a.NonexistentNotes)
	}
	if !reflect.DeepEqual(a.IsolatedNotes, []string{"Lone"}) {
		t.Errorf("isolated = %v", a.IsolatedNotes)
	}
}

func TestSearch(t *testing.T) {
	svc, _ := testService(t, map[string]string{
		"A.md": "the xylophone concert was loud",
	}, vault.Options{})
	if _, err := svc.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}

	results, err := svc.Search(context.Background(), "xylophone", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "A" {
		t.Errorf("results = %+v", results)
	}
}

func TestWatch_TriggersRebuild(t *testing.T) {
	svc, root := testService(t, map[string]string{"A.md": "[[B]]"}, vault.Options{})
	if _, err := svc.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rebuilt := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- svc.Watch(ctx, testLogger(), func() {
			select {
			case rebuilt <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher time to register directories.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(root, "C.md"), []byte("[[A]]"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not trigger a rebuild")
	}

	bl, err := svc.Backlinks(context.Background(), "A")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(bl, []string{"C"}) {
		t.Errorf("backlinks after watch rebuild = %v, want [C]", bl)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch returned error: %v", err)
	}
}

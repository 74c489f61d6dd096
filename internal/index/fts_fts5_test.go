//go:build sqlite_fts5

package index

import (
	"testing"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM files_fts`).Scan(&count); err != nil {
		t.Fatalf("files_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	files := []FileRow{
		{Name: "fts", Kind: "note", RelPath: "fts.md", FileExists: true,
			Tags:       []string{"search"},
			SourceText: "Laguz provides powerful full-text search over note text."},
	}
	if err := db.ReplaceSnapshot(files, nil); err != nil {
		t.Fatalf("ReplaceSnapshot: %v", err)
	}

	results, err := db.Search("powerful", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Name != "fts" {
		t.Errorf("name = %q", results[0].Name)
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_SnapshotReplacesContent(t *testing.T) {
	db := testDB(t)
	first := []FileRow{{Name: "evo", Kind: "note", FileExists: true, SourceText: "original text"}}
	second := []FileRow{{Name: "evo", Kind: "note", FileExists: true, SourceText: "replacement text"}}
	if err := db.ReplaceSnapshot(first, nil); err != nil {
		t.Fatal(err)
	}
	if err := db.ReplaceSnapshot(second, nil); err != nil {
		t.Fatal(err)
	}

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 {
		t.Errorf("FTS not updated: %+v", results)
	}
}

package index

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "laguz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func intp(n int) *int { return &n }

func sampleSnapshot() ([]FileRow, []LinkRow) {
	now := time.Now()
	files := []FileRow{
		{Name: "A", Kind: "note", RelPath: "A.md", FileExists: true,
			NBacklinks: intp(0), NWikilinks: intp(2), NTags: intp(1),
			Tags: []string{"alpha"}, SourceText: "links to B twice", ModifiedTime: &now},
		{Name: "B", Kind: "nonexistent", NBacklinks: intp(2)},
	}
	links := []LinkRow{
		{Source: "A", Target: "B", Ord: 0},
		{Source: "A", Target: "B", Ord: 1},
	}
	return files, links
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM files`).Scan(&count); err != nil {
		t.Fatalf("files table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM links`).Scan(&count); err != nil {
		t.Fatalf("links table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM meta`).Scan(&count); err != nil {
		t.Fatalf("meta table missing: %v", err)
	}
}

func TestReplaceSnapshotAndFile(t *testing.T) {
	db := testDB(t)
	files, links := sampleSnapshot()
	if err := db.ReplaceSnapshot(files, links); err != nil {
		t.Fatalf("ReplaceSnapshot: %v", err)
	}

	a, err := db.File("A")
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if a == nil || !a.FileExists || *a.NWikilinks != 2 {
		t.Errorf("file A = %+v", a)
	}
	if !reflect.DeepEqual(a.Tags, []string{"alpha"}) {
		t.Errorf("tags = %v", a.Tags)
	}

	b, err := db.File("B")
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if b == nil || b.FileExists || b.NWikilinks != nil || *b.NBacklinks != 2 {
		t.Errorf("file B = %+v", b)
	}

	missing, err := db.File("Nope")
	if err != nil || missing != nil {
		t.Errorf("missing file = %+v, err %v", missing, err)
	}
}

func TestReplaceSnapshot_SwapsWholeState(t *testing.T) {
	db := testDB(t)
	files, links := sampleSnapshot()
	if err := db.ReplaceSnapshot(files, links); err != nil {
		t.Fatal(err)
	}
	if err := db.ReplaceSnapshot([]FileRow{{Name: "C", Kind: "note", FileExists: true}}, nil); err != nil {
		t.Fatal(err)
	}

	if old, _ := db.File("A"); old != nil {
		t.Error("old row survived snapshot replacement")
	}
	if bl, _ := db.Backlinks("B"); len(bl) != 0 {
		t.Errorf("old links survived: %v", bl)
	}
	if _, total, _ := db.Files("", 10, 0); total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
}

func TestBacklinks_OrderAndMultiplicity(t *testing.T) {
	db := testDB(t)
	files := []FileRow{
		{Name: "A", Kind: "note", FileExists: true},
		{Name: "C", Kind: "note", FileExists: true},
		{Name: "X", Kind: "nonexistent"},
	}
	links := []LinkRow{
		{Source: "C", Target: "X", Ord: 0},
		{Source: "A", Target: "X", Ord: 0},
		{Source: "A", Target: "X", Ord: 1},
	}
	if err := db.ReplaceSnapshot(files, links); err != nil {
		t.Fatal(err)
	}

	bl, err := db.Backlinks("X")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if !reflect.DeepEqual(bl, []string{"A", "A", "C"}) {
		t.Errorf("backlinks = %v, want [A A C]", bl)
	}
}

func TestFiles_KindFilterAndPaging(t *testing.T) {
	db := testDB(t)
	files := []FileRow{
		{Name: "A", Kind: "note", FileExists: true},
		{Name: "B", Kind: "note", FileExists: true},
		{Name: "pic.png", Kind: "media", FileExists: true},
	}
	if err := db.ReplaceSnapshot(files, nil); err != nil {
		t.Fatal(err)
	}

	rows, total, err := db.Files("note", 1, 0)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if total != 2 || len(rows) != 1 || rows[0].Name != "A" {
		t.Errorf("rows = %+v, total = %d", rows, total)
	}
	rows, _, _ = db.Files("note", 10, 1)
	if len(rows) != 1 || rows[0].Name != "B" {
		t.Errorf("offset page = %+v", rows)
	}
	_, total, _ = db.Files("", 10, 0)
	if total != 3 {
		t.Errorf("unfiltered total = %d", total)
	}
}

func TestGraph(t *testing.T) {
	db := testDB(t)
	files, links := sampleSnapshot()
	if err := db.ReplaceSnapshot(files, links); err != nil {
		t.Fatal(err)
	}

	nodes, edges, err := db.Graph()
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if len(nodes) != 2 || nodes[0].Name != "A" || nodes[1].Exists {
		t.Errorf("nodes = %+v", nodes)
	}
	if len(edges) != 2 || edges[0] != (GraphLink{Source: "A", Target: "B"}) {
		t.Errorf("edges = %+v", edges)
	}
}

func TestMeta(t *testing.T) {
	db := testDB(t)
	if v, err := db.Meta("checksum"); err != nil || v != "" {
		t.Fatalf("empty meta = %q, err %v", v, err)
	}
	if err := db.SetMeta("checksum", "abc"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMeta("checksum", "def"); err != nil {
		t.Fatal(err)
	}
	if v, _ := db.Meta("checksum"); v != "def" {
		t.Errorf("meta = %q, want def", v)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	files := []FileRow{
		{Name: "S", Kind: "note", RelPath: "S.md", FileExists: true,
			SourceText: "uniqueword appears here"},
	}
	if err := db.ReplaceSnapshot(files, nil); err != nil {
		t.Fatal(err)
	}

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Name != "S" {
		t.Errorf("search results = %+v, want 1 hit for S", results)
	}
}

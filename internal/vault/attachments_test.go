package vault

import (
	"errors"
	"reflect"
	"testing"

	"github.com/starford/laguz/internal/apperr"
)

const boardJSON = `{
  "nodes": [{"id": "n1", "type": "text", "text": "hi", "x": 0, "y": 0, "width": 100, "height": 50}],
  "edges": []
}`

func attachmentFixture() map[string]string {
	return map[string]string{
		"A.md":         "![[pic.png]] and [[Board.canvas]] plus ![[ghost.png]]",
		"B.md":         "",
		"pic.png":      "\x89PNG",
		"unused.jpg":   "\xff\xd8",
		"Board.canvas": boardJSON,
		"Spare.canvas": boardJSON,
	}
}

func TestAttachments_GraphNodes(t *testing.T) {
	v := connectVault(t, attachmentFixture(), Options{Attachments: true})

	g, _ := v.Graph()
	for _, want := range []string{"A", "B", "pic.png", "ghost.png", "Board.canvas", "Spare.canvas", "unused.jpg"} {
		if !g.HasNode(want) {
			t.Errorf("graph missing node %q", want)
		}
	}

	back, err := v.Backlinks("pic.png")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, []string{"A"}) {
		t.Errorf("backlinks(pic.png) = %v, want [A]", back)
	}
}

func TestAttachments_Reconciliation(t *testing.T) {
	v := connectVault(t, attachmentFixture(), Options{Attachments: true})

	nonexistentMedia, _ := v.NonexistentMedia()
	if !reflect.DeepEqual(nonexistentMedia, []string{"ghost.png"}) {
		t.Errorf("nonexistent media = %v, want [ghost.png]", nonexistentMedia)
	}
	isolatedMedia, _ := v.IsolatedMedia()
	if !reflect.DeepEqual(isolatedMedia, []string{"unused.jpg"}) {
		t.Errorf("isolated media = %v, want [unused.jpg]", isolatedMedia)
	}
	isolatedCanvas, _ := v.IsolatedCanvas()
	if !reflect.DeepEqual(isolatedCanvas, []string{"Spare.canvas"}) {
		t.Errorf("isolated canvas = %v, want [Spare.canvas]", isolatedCanvas)
	}
	nonexistentNotes, _ := v.NonexistentNotes()
	if len(nonexistentNotes) != 0 {
		t.Errorf("nonexistent notes = %v, want none", nonexistentNotes)
	}
}

func TestAttachments_CanvasExcludedWhenOff(t *testing.T) {
	v := connectVault(t, attachmentFixture(), Options{})

	links, err := v.Wikilinks("A")
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 0 {
		t.Errorf("wikilinks = %v, want none with attachments off", links)
	}
	g, _ := v.Graph()
	if g.HasNode("Board.canvas") || g.HasNode("pic.png") {
		t.Error("attachment nodes leaked into notes-only graph")
	}
	// Embeds are still tracked even when they stay out of the graph.
	embedded, _ := v.EmbeddedFiles("A")
	want := []string{"pic.png", "ghost.png"}
	if !reflect.DeepEqual(embedded, want) {
		t.Errorf("embedded = %v, want %v", embedded, want)
	}
}

func TestAttachments_CanvasBacklinkCounts(t *testing.T) {
	v := connectVault(t, attachmentFixture(), Options{Attachments: true})
	counts, err := v.CanvasBacklinkCounts()
	if err != nil {
		t.Fatal(err)
	}
	if counts["Board.canvas"] != 1 || counts["Spare.canvas"] != 0 {
		t.Errorf("canvas backlink counts = %v", counts)
	}

	off := connectVault(t, attachmentFixture(), Options{})
	if _, err := off.CanvasBacklinkCounts(); !errors.Is(err, apperr.ErrAttachmentsDisabled) {
		t.Errorf("expected attachments-disabled error, got %v", err)
	}
}

func TestAttachments_CanvasContent(t *testing.T) {
	v := connectVault(t, attachmentFixture(), Options{Attachments: true})

	c, err := v.CanvasContent("Board.canvas")
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Nodes) != 1 {
		t.Errorf("canvas nodes = %d, want 1", len(c.Nodes))
	}
	d, err := v.CanvasGraphDetail("Board.canvas")
	if err != nil {
		t.Fatal(err)
	}
	if d.Graph.NodeCount() != 1 {
		t.Errorf("canvas graph nodes = %d, want 1", d.Graph.NodeCount())
	}
	if _, err := v.CanvasContent("Nope.canvas"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown canvas: %v", err)
	}
}

func TestMetadataTables(t *testing.T) {
	v := connectVault(t, attachmentFixture(), Options{Attachments: true})

	notes, err := v.NoteMetadata()
	if err != nil {
		t.Fatal(err)
	}
	byName := make(map[string]int, len(notes))
	for i, row := range notes {
		byName[row.Name] = i
	}
	a := notes[byName["A"]]
	if !a.FileExists || a.NWikilinks == nil || *a.NEmbeddedFiles != 2 {
		t.Errorf("note row A = %+v", a)
	}

	media, err := v.MediaMetadata()
	if err != nil {
		t.Fatal(err)
	}
	var ghost, pic bool
	for _, row := range media {
		switch row.Name {
		case "ghost.png":
			ghost = true
			if row.FileExists || *row.NBacklinks != 1 {
				t.Errorf("ghost row = %+v", row)
			}
		case "pic.png":
			pic = true
			if !row.FileExists || *row.NBacklinks != 1 {
				t.Errorf("pic row = %+v", row)
			}
		}
	}
	if !ghost || !pic {
		t.Errorf("media rows incomplete: %+v", media)
	}

	all, err := v.AllMetadata()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(notes)+len(media)+2 {
		t.Errorf("all rows = %d, want notes+media+canvas", len(all))
	}
}

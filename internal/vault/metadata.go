package vault

import (
	"sort"
	"time"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
)

// Metadata tables are flat projections over the vault indexes, one row per
// entity, sorted by name. Rows for nonexistent entities carry backlink counts
// only; the other columns stay nil.

// NoteMetadata returns one row per note-kind graph node, existing or not.
// Media and canvas nodes are excluded; they have their own tables.
func (v *Vault) NoteMetadata() ([]models.FileMetadata, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}

	names := make([]string, 0, len(v.backlinks))
	for name := range v.backlinks {
		if _, ok := v.mediaIndex[name]; ok {
			continue
		}
		if _, ok := v.canvasIndex[name]; ok {
			continue
		}
		if contains(v.nonexistentMedia, name) || contains(v.nonexistentCanvas, name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]models.FileMetadata, 0, len(names))
	for _, name := range names {
		row := models.FileMetadata{
			Name:          name,
			NBacklinks:    intPtr(len(v.backlinks[name])),
			GraphCategory: "nonexistent",
		}
		if n, ok := v.notes[name]; ok {
			row.RelPath = n.RelPath
			row.AbsPath = v.absPath(n.RelPath)
			row.FileExists = true
			row.NWikilinks = intPtr(len(n.Wikilinks))
			row.NTags = intPtr(len(n.Tags))
			row.NEmbeddedFiles = intPtr(len(n.EmbeddedFiles))
			row.ModifiedTime = v.modTime(n.RelPath)
			row.GraphCategory = "note"
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MediaMetadata returns one row per existing or embedded-but-missing media
// file.
func (v *Vault) MediaMetadata() ([]models.FileMetadata, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	counts, err := v.MediaBacklinkCounts()
	if err != nil {
		return nil, err
	}
	return v.attachmentRows(v.mediaIndex, v.nonexistentMedia, counts, "media"), nil
}

// CanvasMetadata returns one row per existing or linked-but-missing canvas
// file. Requires attachments mode, since canvas backlink counts are undefined
// without it.
func (v *Vault) CanvasMetadata() ([]models.FileMetadata, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	counts, err := v.CanvasBacklinkCounts()
	if err != nil {
		return nil, err
	}
	return v.attachmentRows(v.canvasIndex, v.nonexistentCanvas, counts, "canvas"), nil
}

// AllMetadata concatenates the per-kind tables. Canvas rows appear only in
// attachments mode.
func (v *Vault) AllMetadata() ([]models.FileMetadata, error) {
	notes, err := v.NoteMetadata()
	if err != nil {
		return nil, err
	}
	media, err := v.MediaMetadata()
	if err != nil {
		return nil, err
	}
	out := append(notes, media...)
	if v.opts.Attachments {
		canvases, err := v.CanvasMetadata()
		if err != nil {
			return nil, err
		}
		out = append(out, canvases...)
	}
	return out, nil
}

func (v *Vault) attachmentRows(index map[string]string, nonexistent []string, counts map[string]int, category string) []models.FileMetadata {
	names := sortedKeys(index)
	names = append(names, nonexistent...)
	sort.Strings(names)

	rows := make([]models.FileMetadata, 0, len(names))
	for _, name := range names {
		count := counts[name]
		row := models.FileMetadata{
			Name:          name,
			NBacklinks:    intPtr(count),
			GraphCategory: "nonexistent",
		}
		if rel, ok := index[name]; ok {
			row.RelPath = rel
			row.AbsPath = v.absPath(rel)
			row.FileExists = true
			row.ModifiedTime = v.modTime(rel)
			row.GraphCategory = category
		}
		rows = append(rows, row)
	}
	return rows
}

func (v *Vault) modTime(rel string) *time.Time {
	t, ok := v.modTimes[rel]
	if !ok {
		return nil
	}
	return &t
}

func intPtr(n int) *int { return &n }

func contains(list []string, s string) bool {
	for _, it := range list {
		if it == s {
			return true
		}
	}
	return false
}

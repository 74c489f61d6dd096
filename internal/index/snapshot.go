package index

import (
	"log/slog"

	"github.com/starford/laguz/internal/vault"
)

// Snapshot replaces the stored snapshot with the state of a connected vault.
// The vault should also be gathered; without that, source text columns stay
// empty and full-text search has nothing to match on.
func Snapshot(db *DB, v *vault.Vault, logger *slog.Logger) error {
	meta, err := v.AllMetadata()
	if err != nil {
		return err
	}

	files := make([]FileRow, 0, len(meta))
	for _, m := range meta {
		row := FileRow{
			Name:           m.Name,
			Kind:           m.GraphCategory,
			RelPath:        m.RelPath,
			FileExists:     m.FileExists,
			NBacklinks:     m.NBacklinks,
			NWikilinks:     m.NWikilinks,
			NTags:          m.NTags,
			NEmbeddedFiles: m.NEmbeddedFiles,
			ModifiedTime:   m.ModifiedTime,
		}
		if tags, err := v.Tags(m.Name); err == nil {
			row.Tags = tags
		}
		if src, err := v.SourceText(m.Name); err == nil {
			row.SourceText = src
		}
		files = append(files, row)
	}

	g, err := v.Graph()
	if err != nil {
		return err
	}
	var links []LinkRow
	ord := make(map[string]int)
	for _, e := range g.Edges() {
		links = append(links, LinkRow{Source: e.Source, Target: e.Target, Ord: ord[e.Source]})
		ord[e.Source]++
	}

	if err := db.ReplaceSnapshot(files, links); err != nil {
		return err
	}
	logger.Debug("index: snapshot stored",
		slog.Int("files", len(files)),
		slog.Int("links", len(links)))
	return nil
}

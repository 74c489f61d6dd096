package vault

import (
	"fmt"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/canvas"
	"github.com/starford/laguz/internal/graph"
	"github.com/starford/laguz/internal/models"
)

// The accessors distinguish two failure kinds. ErrNotConnected (or
// ErrNotGathered for text methods) means the query came before the pipeline
// ran. ErrNotFound means the pipeline ran and the name is genuinely absent
// from the relevant index.

// NoteIndex maps note names to relative paths. The returned map is shared;
// callers must not mutate it.
func (v *Vault) NoteIndex() (map[string]string, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	return v.mdIndex, nil
}

// MediaIndex maps media file names to relative paths.
func (v *Vault) MediaIndex() (map[string]string, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	return v.mediaIndex, nil
}

// CanvasIndex maps canvas file names to relative paths.
func (v *Vault) CanvasIndex() (map[string]string, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	return v.canvasIndex, nil
}

// Graph returns the vault link graph.
func (v *Vault) Graph() (*graph.MultiDiGraph, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	return v.g, nil
}

// NoteNames returns every indexed note name, sorted.
func (v *Vault) NoteNames() ([]string, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	return sortedKeys(v.mdIndex), nil
}

// Backlinks returns one entry per inbound link occurrence for a graph node.
// Nonexistent notes are graph nodes too, so dangling targets resolve here.
func (v *Vault) Backlinks(name string) ([]string, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	if !v.g.HasNode(name) {
		return nil, fmt.Errorf("%q not in graph: %w", name, apperr.ErrNotFound)
	}
	return v.backlinks[name], nil
}

// BacklinkCounts tallies Backlinks into a source-name frequency map.
func (v *Vault) BacklinkCounts(name string) (map[string]int, error) {
	links, err := v.Backlinks(name)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(links))
	for _, src := range links {
		counts[src]++
	}
	return counts, nil
}

// note looks up a parsed note, distinguishing missing-from-index lookups.
func (v *Vault) note(name string) (*models.Note, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	n, ok := v.notes[name]
	if !ok {
		return nil, fmt.Errorf("note %q not in vault: %w", name, apperr.ErrNotFound)
	}
	return n, nil
}

// Wikilinks returns a note's wikilink targets in order of appearance,
// duplicates retained.
func (v *Vault) Wikilinks(name string) ([]string, error) {
	n, err := v.note(name)
	if err != nil {
		return nil, err
	}
	return n.Wikilinks, nil
}

// WikilinkCounts tallies a note's outbound wikilinks into a target-name
// frequency map.
func (v *Vault) WikilinkCounts(name string) (map[string]int, error) {
	n, err := v.note(name)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(n.Wikilinks))
	for _, target := range n.Wikilinks {
		counts[target]++
	}
	return counts, nil
}

// UniqueWikilinks deduplicates while preserving first-occurrence order.
func (v *Vault) UniqueWikilinks(name string) ([]string, error) {
	n, err := v.note(name)
	if err != nil {
		return nil, err
	}
	return n.UniqueWikilinks, nil
}

// EmbeddedFiles returns a note's embed targets in order of appearance.
func (v *Vault) EmbeddedFiles(name string) ([]string, error) {
	n, err := v.note(name)
	if err != nil {
		return nil, err
	}
	return n.EmbeddedFiles, nil
}

// MDLinks returns a note's markdown link targets in order of appearance.
func (v *Vault) MDLinks(name string) ([]string, error) {
	n, err := v.note(name)
	if err != nil {
		return nil, err
	}
	return n.MDLinks, nil
}

// UniqueMDLinks deduplicates while preserving first-occurrence order.
func (v *Vault) UniqueMDLinks(name string) ([]string, error) {
	n, err := v.note(name)
	if err != nil {
		return nil, err
	}
	return n.UniqueMDLinks, nil
}

// Tags returns a note's tags in order of appearance.
func (v *Vault) Tags(name string) ([]string, error) {
	n, err := v.note(name)
	if err != nil {
		return nil, err
	}
	return n.Tags, nil
}

// Math returns a note's math spans in order of appearance.
func (v *Vault) Math(name string) ([]string, error) {
	n, err := v.note(name)
	if err != nil {
		return nil, err
	}
	return n.Math, nil
}

// FrontMatter returns a note's decoded front matter. Nil means the note has
// none, or its YAML was malformed beyond recovery.
func (v *Vault) FrontMatter(name string) (map[string]any, error) {
	n, err := v.note(name)
	if err != nil {
		return nil, err
	}
	return n.FrontMatter, nil
}

// SourceText returns a note's normalized body text. Requires Gather.
func (v *Vault) SourceText(name string) (string, error) {
	if !v.gathered {
		return "", apperr.ErrNotGathered
	}
	n, err := v.note(name)
	if err != nil {
		return "", err
	}
	return n.SourceText, nil
}

// ReadableText returns a note's stripped-down plain text. Requires Gather.
func (v *Vault) ReadableText(name string) (string, error) {
	if !v.gathered {
		return "", apperr.ErrNotGathered
	}
	n, err := v.note(name)
	if err != nil {
		return "", err
	}
	return n.ReadableText, nil
}

// NonexistentNotes lists referenced note names with no file on disk, sorted.
func (v *Vault) NonexistentNotes() ([]string, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	return v.nonexistentNotes, nil
}

// IsolatedNotes lists notes with no inbound and no outbound links, sorted.
func (v *Vault) IsolatedNotes() ([]string, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	return v.isolatedNotes, nil
}

// NonexistentMedia lists embedded file names with no file on disk, sorted.
func (v *Vault) NonexistentMedia() ([]string, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	return v.nonexistentMedia, nil
}

// IsolatedMedia lists media files present on disk that no note embeds, sorted.
func (v *Vault) IsolatedMedia() ([]string, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	return v.isolatedMedia, nil
}

// NonexistentCanvas lists linked canvas names with no file on disk, sorted.
// Meaningful only in attachments mode; otherwise canvas wikilinks are
// filtered before linking and the list is empty.
func (v *Vault) NonexistentCanvas() ([]string, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	return v.nonexistentCanvas, nil
}

// IsolatedCanvas lists canvas files present on disk that no note links, sorted.
func (v *Vault) IsolatedCanvas() ([]string, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	return v.isolatedCanvas, nil
}

// CanvasContent returns the decoded node/edge content of a canvas file.
func (v *Vault) CanvasContent(name string) (*canvas.Content, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	c, ok := v.canvasContent[name]
	if !ok {
		return nil, fmt.Errorf("canvas %q not in vault: %w", name, apperr.ErrNotFound)
	}
	return c, nil
}

// CanvasGraphDetail returns a canvas file's internal graph with layout info.
func (v *Vault) CanvasGraphDetail(name string) (*canvas.GraphDetail, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	d, ok := v.canvasDetail[name]
	if !ok {
		return nil, fmt.Errorf("canvas %q not in vault: %w", name, apperr.ErrNotFound)
	}
	return d, nil
}

// MediaBacklinkCounts tallies embeds per media file, zero for never-embedded
// files that exist on disk.
func (v *Vault) MediaBacklinkCounts() (map[string]int, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	counts := make(map[string]int, len(v.mediaIndex))
	for name := range v.mediaIndex {
		counts[name] = 0
	}
	for _, n := range v.notes {
		for _, target := range n.EmbeddedFiles {
			counts[target]++
		}
	}
	return counts, nil
}

// CanvasBacklinkCounts tallies wikilinks per canvas file. Only defined in
// attachments mode; with attachments off, canvas targets never survive link
// extraction and every count would read zero.
func (v *Vault) CanvasBacklinkCounts() (map[string]int, error) {
	if !v.connected {
		return nil, apperr.ErrNotConnected
	}
	if !v.opts.Attachments {
		return nil, apperr.ErrAttachmentsDisabled
	}
	counts := make(map[string]int, len(v.canvasIndex))
	for name := range v.canvasIndex {
		counts[name] = 0
	}
	for _, n := range v.notes {
		for _, target := range n.Wikilinks {
			counts[target]++
		}
	}
	return counts, nil
}

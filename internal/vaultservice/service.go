// Package vaultservice coordinates the vault model, the SQLite snapshot and
// file watching. The vault itself is a batch-built, single-threaded value; the
// service wraps it with the locking and rebuild plumbing the HTTP and MCP
// surfaces need.
package vaultservice

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/checksum"
	"github.com/starford/laguz/internal/index"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/storage"
	"github.com/starford/laguz/internal/vault"
)

// NoteDetail is the full representation of one note for the read surfaces.
type NoteDetail struct {
	Name          string         `json:"name"`
	RelPath       string         `json:"rel_path"`
	FrontMatter   map[string]any `json:"front_matter,omitempty"`
	Wikilinks     []string       `json:"wikilinks"`
	EmbeddedFiles []string       `json:"embedded_files"`
	MDLinks       []string       `json:"md_links"`
	Tags          []string       `json:"tags"`
	Math          []string       `json:"math"`
	Backlinks     []string       `json:"backlinks"`
	SourceText    string         `json:"source_text"`
	ReadableText  string         `json:"readable_text"`
}

// Analytics is the vault-wide summary view.
type Analytics struct {
	NoteCount         int      `json:"note_count"`
	MediaCount        int      `json:"media_count"`
	CanvasCount       int      `json:"canvas_count"`
	EdgeCount         int      `json:"edge_count"`
	NonexistentNotes  []string `json:"nonexistent_notes"`
	IsolatedNotes     []string `json:"isolated_notes"`
	NonexistentMedia  []string `json:"nonexistent_media"`
	IsolatedMedia     []string `json:"isolated_media"`
	NonexistentCanvas []string `json:"nonexistent_canvas"`
	IsolatedCanvas    []string `json:"isolated_canvas"`
}

// Service owns the current vault model. A rebuild constructs a whole new
// vault and swaps it in under the write lock; queries take the read lock, so
// they see either the old model or the new one, never a half-built state.
type Service struct {
	store  storage.Provider
	db     *index.DB
	opts   vault.Options
	logger *slog.Logger

	// rebuildMu serializes whole rebuild passes so a manual rebuild and a
	// watcher-triggered one never run the pipeline concurrently.
	rebuildMu sync.Mutex

	mu          sync.RWMutex
	vault       *vault.Vault
	fingerprint string
}

// NewService creates a service. Call Rebuild once to load the initial model.
func NewService(store storage.Provider, db *index.DB, opts vault.Options, logger *slog.Logger) *Service {
	return &Service{store: store, db: db, opts: opts, logger: logger}
}

// Rebuild runs the full connect/gather pipeline over the vault directory and
// replaces the in-memory model and the SQLite snapshot. It reports whether
// anything actually changed: an unchanged directory fingerprint skips the
// rebuild entirely.
func (s *Service) Rebuild(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	fp, err := s.vaultFingerprint()
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	unchanged := s.vault != nil && fp == s.fingerprint
	s.mu.RUnlock()
	if unchanged {
		s.logger.Debug("vault: fingerprint unchanged, skipping rebuild")
		return false, nil
	}

	v := vault.New(s.store, s.opts)
	if err := v.Connect(); err != nil {
		return false, fmt.Errorf("rebuild: %w", err)
	}
	if err := v.Gather(); err != nil {
		return false, fmt.Errorf("rebuild: %w", err)
	}
	if err := index.Snapshot(s.db, v, s.logger); err != nil {
		return false, fmt.Errorf("rebuild: %w", err)
	}
	if err := s.db.SetMeta("vault_fingerprint", fp); err != nil {
		return false, err
	}

	s.mu.Lock()
	s.vault = v
	s.fingerprint = fp
	s.mu.Unlock()

	names, _ := v.NoteNames()
	s.logger.Info("vault: rebuilt", slog.Int("notes", len(names)))
	return true, nil
}

// vaultFingerprint hashes the listing of every indexable file with its
// modification time. It detects adds, removes, renames and touched files
// without reading note bodies.
func (s *Service) vaultFingerprint() (string, error) {
	files, err := s.store.List(nil)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(files))
	for _, f := range files {
		lines = append(lines, f.Path+"\x00"+f.ModTime.UTC().String())
	}
	sort.Strings(lines)
	return checksum.Sum([]byte(strings.Join(lines, "\n"))), nil
}

// current returns the live vault under the read lock. The vault value is
// immutable once swapped in, so it is safe to use after the lock is released.
// Before the first successful Rebuild there is no model to query.
func (s *Service) current() (*vault.Vault, func(), error) {
	s.mu.RLock()
	if s.vault == nil {
		s.mu.RUnlock()
		return nil, nil, apperr.ErrNotConnected
	}
	return s.vault, s.mu.RUnlock, nil
}

// Vault exposes the current model for callers that need direct access. It is
// nil before the first successful Rebuild.
func (s *Service) Vault() *vault.Vault {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vault
}

// NoteDetail assembles the full per-note view.
func (s *Service) NoteDetail(_ context.Context, name string) (*NoteDetail, error) {
	v, done, err := s.current()
	if err != nil {
		return nil, err
	}
	defer done()

	wikilinks, err := v.Wikilinks(name)
	if err != nil {
		return nil, err
	}
	embedded, _ := v.EmbeddedFiles(name)
	mdLinks, _ := v.MDLinks(name)
	tags, _ := v.Tags(name)
	math, _ := v.Math(name)
	fm, _ := v.FrontMatter(name)
	backlinks, err := v.Backlinks(name)
	if err != nil {
		return nil, err
	}
	src, _ := v.SourceText(name)
	readable, _ := v.ReadableText(name)

	idx, err := v.NoteIndex()
	if err != nil {
		return nil, err
	}
	return &NoteDetail{
		Name:          name,
		RelPath:       idx[name],
		FrontMatter:   fm,
		Wikilinks:     nonNilSlice(wikilinks),
		EmbeddedFiles: nonNilSlice(embedded),
		MDLinks:       nonNilSlice(mdLinks),
		Tags:          nonNilSlice(tags),
		Math:          nonNilSlice(math),
		Backlinks:     nonNilSlice(backlinks),
		SourceText:    src,
		ReadableText:  readable,
	}, nil
}

// Files lists snapshot rows from the index, filtered by kind.
func (s *Service) Files(_ context.Context, kind string, limit, offset int) ([]index.FileRow, int, error) {
	return s.db.Files(kind, limit, offset)
}

// Metadata returns the full metadata table for every vault entity.
func (s *Service) Metadata(_ context.Context) ([]models.FileMetadata, error) {
	v, done, err := s.current()
	if err != nil {
		return nil, err
	}
	defer done()
	return v.AllMetadata()
}

// Backlinks returns backlinks for any graph node, including nonexistent ones.
func (s *Service) Backlinks(_ context.Context, name string) ([]string, error) {
	v, done, err := s.current()
	if err != nil {
		return nil, err
	}
	defer done()
	return v.Backlinks(name)
}

// Graph returns the persisted node and edge sets for visualization.
func (s *Service) Graph(_ context.Context) ([]index.GraphNode, []index.GraphLink, error) {
	return s.db.Graph()
}

// Analytics assembles the vault-wide summary.
func (s *Service) Analytics(_ context.Context) (*Analytics, error) {
	v, done, err := s.current()
	if err != nil {
		return nil, err
	}
	defer done()

	noteIdx, err := v.NoteIndex()
	if err != nil {
		return nil, err
	}
	mediaIdx, _ := v.MediaIndex()
	canvasIdx, _ := v.CanvasIndex()
	g, _ := v.Graph()
	nonexistentNotes, _ := v.NonexistentNotes()
	isolatedNotes, _ := v.IsolatedNotes()
	nonexistentMedia, _ := v.NonexistentMedia()
	isolatedMedia, _ := v.IsolatedMedia()
	nonexistentCanvas, _ := v.NonexistentCanvas()
	isolatedCanvas, _ := v.IsolatedCanvas()

	return &Analytics{
		NoteCount:         len(noteIdx),
		MediaCount:        len(mediaIdx),
		CanvasCount:       len(canvasIdx),
		EdgeCount:         g.EdgeCount(),
		NonexistentNotes:  nonNilSlice(nonexistentNotes),
		IsolatedNotes:     nonNilSlice(isolatedNotes),
		NonexistentMedia:  nonNilSlice(nonexistentMedia),
		IsolatedMedia:     nonNilSlice(isolatedMedia),
		NonexistentCanvas: nonNilSlice(nonexistentCanvas),
		IsolatedCanvas:    nonNilSlice(isolatedCanvas),
	}, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

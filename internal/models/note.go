// Package models defines the domain types for Laguz.
package models

import "time"

// FileKind identifies how a vault file participates in the link graph.
type FileKind string

const (
	KindNote   FileKind = "note"
	KindMedia  FileKind = "media"
	KindCanvas FileKind = "canvas"
)

// Note holds everything extracted from one markdown file during connect/gather.
// The Name is the collision-resolved short name used in wikilinks, not a path.
type Note struct {
	Name            string         `json:"name"`
	RelPath         string         `json:"rel_path"`
	FrontMatter     map[string]any `json:"front_matter,omitempty"`
	Wikilinks       []string       `json:"wikilinks"`
	UniqueWikilinks []string       `json:"unique_wikilinks"`
	EmbeddedFiles   []string       `json:"embedded_files"`
	MDLinks         []string       `json:"md_links"`
	UniqueMDLinks   []string       `json:"unique_md_links"`
	Tags            []string       `json:"tags"`
	Math            []string       `json:"math"`
	SourceText      string         `json:"-"`
	ReadableText    string         `json:"-"`
}

// FileInfo is a lightweight listing entry returned by the storage layer.
type FileInfo struct {
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
}

// FileMetadata is one row of the vault-wide metadata tables. Count fields are
// pointers because they are undefined for files that don't exist on disk (and
// backlink counts for canvas files are undefined outside attachments mode).
type FileMetadata struct {
	Name           string     `json:"name"`
	RelPath        string     `json:"rel_path,omitempty"`
	AbsPath        string     `json:"abs_path,omitempty"`
	FileExists     bool       `json:"file_exists"`
	NBacklinks     *int       `json:"n_backlinks,omitempty"`
	NWikilinks     *int       `json:"n_wikilinks,omitempty"`
	NTags          *int       `json:"n_tags,omitempty"`
	NEmbeddedFiles *int       `json:"n_embedded_files,omitempty"`
	ModifiedTime   *time.Time `json:"modified_time,omitempty"`
	GraphCategory  string     `json:"graph_category,omitempty"` // "note", "media", "canvas" or "nonexistent"
}

// Link represents one directed edge occurrence in the vault graph.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

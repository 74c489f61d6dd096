package api

import (
	"github.com/starford/laguz/internal/index"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/vaultservice"
)

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = vaultservice.NoteDetail

// FileListResponse wraps paginated file listings.
type FileListResponse struct {
	Files []index.FileRow `json:"files" validate:"required"`
	Total int             `json:"total" example:"42" validate:"required"`
}

// BacklinksResponse lists the sources linking to one entity, one element per
// link occurrence.
type BacklinksResponse struct {
	Name      string   `json:"name" example:"hello" validate:"required"`
	Backlinks []string `json:"backlinks" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// GraphResponse wraps the vault link graph.
type GraphResponse struct {
	Nodes []index.GraphNode `json:"nodes" validate:"required"`
	Links []index.GraphLink `json:"links" validate:"required"`
}

// MetadataResponse wraps per-file metadata rows.
type MetadataResponse struct {
	Files []models.FileMetadata `json:"files" validate:"required"`
}

// RebuildResponse reports whether a manual rebuild found changes.
type RebuildResponse struct {
	Changed bool `json:"changed" example:"true" validate:"required"`
}

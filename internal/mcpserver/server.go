// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Laguz vault tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/vaultservice"
)

// Server wraps the MCP server with Laguz vault tools.
type Server struct {
	mcp *server.MCPServer
	svc *vaultservice.Service
}

// New creates a new MCP server with all vault tools registered.
func New(svc *vaultservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Laguz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through vault file names and note content."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read one note: front matter, links, tags, backlinks, and text."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name (filename without .md; subdir-qualified when ambiguous, e.g. topics/note)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List vault files by kind with pagination."),
		mcp.WithString("kind", mcp.Description("Optional kind filter: note, media, canvas, or nonexistent (empty for all)")),
		mcp.WithNumber("limit", mcp.Description("Max entries to return (default 100)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all notes that link to the named entity, one entry per link occurrence."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the note, media file, or canvas to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("get_note_metadata",
		mcp.WithDescription("Per-file metadata rows for every entity the vault knows about, including nonexistent link targets."),
	), s.getNoteMetadata)

	s.mcp.AddTool(mcp.NewTool("vault_analytics",
		mcp.WithDescription("Vault-wide counts plus the nonexistent and isolated entities per kind."),
	), s.vaultAnalytics)

	s.mcp.AddTool(mcp.NewTool("graph_overview",
		mcp.WithDescription("The vault link graph as node and link lists."),
	), s.graphOverview)

	// Resource: vault query guide.
	s.mcp.AddResource(
		mcp.NewResource("laguz://vault-guide", "Vault Query Guide",
			mcp.WithResourceDescription("How names, wikilinks, and backlinks work in this vault."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readVaultGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.NoteDetail(ctx, name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := ""
	if k, err := req.RequireString("kind"); err == nil {
		kind = k
	}
	limit := 100
	if l, err := req.RequireInt("limit"); err == nil && l > 0 {
		limit = l
	}

	rows, total, err := s.svc.Files(ctx, kind, limit, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", row.Name, row.Kind, row.RelPath)
	}
	fmt.Fprintf(&b, "total: %d", total)
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.svc.Backlinks(ctx, name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) getNoteMetadata(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := s.svc.Metadata(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) vaultAnalytics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := s.svc.Analytics(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(a, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) graphOverview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodes, links, err := s.svc.Graph(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"nodes": nodes,
		"links": links,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readVaultGuideResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "laguz://vault-guide",
			MIMEType: "text/markdown",
			Text:     VaultGuide,
		},
	}, nil
}

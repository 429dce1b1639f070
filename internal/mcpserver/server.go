// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Lattice tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vportnov/lattice/internal/kb"
	"github.com/vportnov/lattice/internal/models"
)

// Server wraps the MCP server with Lattice tools.
type Server struct {
	mcp *server.MCPServer
	kb  *kb.KB
}

// New creates a new MCP server with all Lattice tools registered.
func New(base *kb.KB) *Server {
	s := &Server{kb: base}

	s.mcp = server.NewMCPServer(
		"Lattice",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("save_note",
		mcp.WithDescription("Save a note into the knowledge base. Missing categories "+
			"along the path are created automatically; when no title is given one is "+
			"derived from the content."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note content")),
		mcp.WithString("category_path", mcp.Description("Category path segments separated by ' / ' (e.g. Technical / Python)")),
		mcp.WithString("title", mcp.Description("Optional explicit title")),
	), s.saveNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes, optionally restricted to a category subtree."),
		mcp.WithString("category_path", mcp.Description("Optional category path separated by ' / ' (empty for all notes)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("find_categories",
		mcp.WithDescription("Fuzzy-search categories by name. Exact matches rank before "+
			"prefix matches, which rank before substring matches."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.findCategories)

	s.mcp.AddTool(mcp.NewTool("create_category",
		mcp.WithDescription("Create a category, optionally under an existing parent path."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Category name")),
		mcp.WithString("parent_path", mcp.Description("Optional parent path separated by ' / '")),
	), s.createCategory)

	s.mcp.AddTool(mcp.NewTool("link_notes",
		mcp.WithDescription("Create a typed link between two notes. One link per note pair "+
			"and type, regardless of direction."),
		mcp.WithString("source_id", mcp.Required(), mcp.Description("Source note id")),
		mcp.WithString("target_id", mcp.Required(), mcp.Description("Target note id")),
		mcp.WithString("link_type", mcp.Description("Related, Reference, FollowUp, Contradicts, Supports, or any custom type (default Related)")),
		mcp.WithString("label", mcp.Description("Optional display label")),
	), s.linkNotes)

	s.mcp.AddTool(mcp.NewTool("get_note_links",
		mcp.WithDescription("List the links where the given note is either endpoint."),
		mcp.WithString("note_id", mcp.Required(), mcp.Description("Note id")),
	), s.getNoteLinks)

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

// splitPath turns "Technical / Python" into its segments. Plain "/" works too.
func splitPath(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (s *Server) saveNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var path []string
	if raw, rawErr := req.RequireString("category_path"); rawErr == nil {
		path = splitPath(raw)
	}
	title := ""
	if t, tErr := req.RequireString("title"); tErr == nil {
		title = t
	}

	note, err := s.kb.SaveNote(ctx, content, path, title)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var path []string
	if raw, err := req.RequireString("category_path"); err == nil {
		path = splitPath(raw)
	}

	var (
		notes []models.Note
		err   error
	)
	if len(path) > 0 {
		notes, err = s.kb.NotesByCategory(path)
	} else {
		notes, err = s.kb.Notes()
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, _ := json.MarshalIndent(notes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) findCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cats, err := s.kb.FindCategories(query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(cats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var parent []string
	if raw, rawErr := req.RequireString("parent_path"); rawErr == nil {
		parent = splitPath(raw)
	}

	cat, err := s.kb.CreateCategory(name, parent)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", cat.FullPath)), nil
}

func (s *Server) linkNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceID, err := req.RequireString("source_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	targetID, err := req.RequireString("target_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	linkType := "Related"
	if lt, ltErr := req.RequireString("link_type"); ltErr == nil && lt != "" {
		linkType = lt
	}
	label := ""
	if l, lErr := req.RequireString("label"); lErr == nil {
		label = l
	}

	link, err := s.kb.CreateLink(sourceID, targetID, linkType, label, "", nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("linked: %s", link.ID)), nil
}

func (s *Server) getNoteLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteID, err := req.RequireString("note_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	links, err := s.kb.LinksForNote(noteID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(links) == 0 {
		return mcp.NewToolResultText("no links found"), nil
	}
	out, _ := json.MarshalIndent(links, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

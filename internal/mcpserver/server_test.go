package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vportnov/lattice/internal/kb"
	"github.com/vportnov/lattice/internal/models"
	"github.com/vportnov/lattice/internal/testutil"
)

func testServer(t *testing.T) (*Server, *kb.KB) {
	t.Helper()
	base, _ := testutil.TestKB(t)
	return New(base), base
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we test
	// through the tool handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "save_note":
		result, err = srv.saveNote(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "find_categories":
		result, err = srv.findCategories(ctx, req)
	case "create_category":
		result, err = srv.createCategory(ctx, req)
	case "link_notes":
		result, err = srv.linkNotes(ctx, req)
	case "get_note_links":
		result, err = srv.getNoteLinks(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSaveAndListNotes(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "save_note", map[string]interface{}{
		"content":       "decorators wrap callables",
		"category_path": "Technical / Python",
		"title":         "Decorators",
	})
	if r.IsError {
		t.Fatalf("save_note error: %s", resultText(r))
	}
	var saved models.Note
	if err := json.Unmarshal([]byte(resultText(r)), &saved); err != nil {
		t.Fatalf("save_note result not JSON: %v", err)
	}
	if saved.Title != "Decorators" {
		t.Errorf("title = %q", saved.Title)
	}
	if len(saved.CategoryPath) != 2 || saved.CategoryPath[1] != "Python" {
		t.Errorf("category_path = %v", saved.CategoryPath)
	}

	r = callTool(t, srv, "list_notes", map[string]interface{}{
		"category_path": "Technical",
	})
	var notes []models.Note
	if err := json.Unmarshal([]byte(resultText(r)), &notes); err != nil {
		t.Fatalf("list_notes result not JSON: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("notes in subtree = %d, want 1", len(notes))
	}

	r = callTool(t, srv, "list_notes", map[string]interface{}{
		"category_path": "Missing",
	})
	_ = json.Unmarshal([]byte(resultText(r)), &notes)
	if len(notes) != 0 {
		t.Errorf("notes in missing category = %d, want 0", len(notes))
	}
}

func TestCreateAndFindCategories(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_category", map[string]interface{}{"name": "Python"})
	if text := resultText(r); text != "created: Python" {
		t.Errorf("create result = %q", text)
	}
	r = callTool(t, srv, "create_category", map[string]interface{}{
		"name":        "Asyncio",
		"parent_path": "Python",
	})
	if text := resultText(r); !strings.Contains(text, "Asyncio") {
		t.Errorf("child create result = %q", text)
	}

	r = callTool(t, srv, "create_category", map[string]interface{}{
		"name":        "Lost",
		"parent_path": "Nowhere",
	})
	if !r.IsError {
		t.Error("expected error for missing parent")
	}

	r = callTool(t, srv, "find_categories", map[string]interface{}{"query": "py"})
	var cats []models.Category
	if err := json.Unmarshal([]byte(resultText(r)), &cats); err != nil {
		t.Fatalf("find_categories result not JSON: %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "Python" {
		t.Errorf("find result = %+v", cats)
	}
}

func TestLinkNotes(t *testing.T) {
	srv, base := testServer(t)

	src, err := base.SaveNote(context.Background(), "src", nil, "Src")
	if err != nil {
		t.Fatal(err)
	}
	dst, err := base.SaveNote(context.Background(), "dst", nil, "Dst")
	if err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "link_notes", map[string]interface{}{
		"source_id": src.ID,
		"target_id": dst.ID,
	})
	if r.IsError {
		t.Fatalf("link_notes error: %s", resultText(r))
	}

	// Reverse direction with the same type is a duplicate.
	r = callTool(t, srv, "link_notes", map[string]interface{}{
		"source_id": dst.ID,
		"target_id": src.ID,
	})
	if !r.IsError {
		t.Error("expected duplicate error")
	}

	r = callTool(t, srv, "get_note_links", map[string]interface{}{"note_id": src.ID})
	var links []models.NoteLink
	if err := json.Unmarshal([]byte(resultText(r)), &links); err != nil {
		t.Fatalf("get_note_links result not JSON: %v", err)
	}
	if len(links) != 1 || !links[0].LinkType.Equal(models.LinkType{Kind: models.LinkRelated}) {
		t.Errorf("links = %+v", links)
	}
}

func TestGetNoteLinksEmpty(t *testing.T) {
	srv, base := testServer(t)

	note, err := base.SaveNote(context.Background(), "alone", nil, "Alone")
	if err != nil {
		t.Fatal(err)
	}
	r := callTool(t, srv, "get_note_links", map[string]interface{}{"note_id": note.ID})
	if text := resultText(r); text != "no links found" {
		t.Errorf("result = %q", text)
	}
}

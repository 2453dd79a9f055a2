package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/artwork"
	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/catalog"
	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/gallery"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Gallery *gallery.Store
	Catalog Searcher
}

// NewMCPServer creates an MCP server with the gallery tools and resources
// registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"aic",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("aic searches the Art Institute of Chicago catalog and curates a local gallery of saved artworks with notes."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("search_artworks",
			mcp.WithDescription("Full-text search of the Art Institute of Chicago artwork catalog."),
			mcp.WithString("query", mcp.Description("Search query"), mcp.Required()),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10)")),
		),
		mcpSearch(deps),
	)

	s.AddTool(
		mcp.NewTool("save_artwork",
			mcp.WithDescription("Save a catalog artwork into the local gallery."),
			mcp.WithNumber("id", mcp.Description("Catalog identifier of the artwork"), mcp.Required()),
		),
		mcpSave(deps),
	)

	s.AddTool(
		mcp.NewTool("annotate_artwork",
			mcp.WithDescription("Attach or replace the note on a saved artwork (max 500 characters)."),
			mcp.WithNumber("id", mcp.Description("Catalog identifier of the saved artwork"), mcp.Required()),
			mcp.WithString("note", mcp.Description("Note text"), mcp.Required()),
		),
		mcpAnnotate(deps),
	)

	s.AddTool(
		mcp.NewTool("remove_artwork",
			mcp.WithDescription("Remove a saved artwork from the local gallery."),
			mcp.WithNumber("id", mcp.Description("Catalog identifier of the saved artwork"), mcp.Required()),
		),
		mcpRemove(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"gallery://items",
			"Saved Gallery",
			mcp.WithResourceDescription("All saved artworks with notes as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceGallery(deps),
	)

	return s
}

func mcpSearch(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}

		limit := req.GetInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}
		if limit > 100 {
			limit = 100
		}

		res, err := deps.Catalog.Search(ctx, query, 1, limit)
		if err != nil {
			return mcpError(fmt.Sprintf("catalog search failed: %v", err)), nil
		}

		if len(res.Items) == 0 {
			return mcpText("[]"), nil
		}

		b, err := json.Marshal(res.Items)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSave(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("id")
		if err != nil {
			return mcpError("id is required"), nil
		}

		item, err := deps.Catalog.Artwork(ctx, int64(id))
		if errors.Is(err, catalog.ErrNotFound) {
			return mcpError(fmt.Sprintf("no artwork with id %d", id)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("fetching artwork: %v", err)), nil
		}

		added, err := deps.Gallery.Add(item)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to save: %v", err)), nil
		}
		if !added {
			return mcpText(fmt.Sprintf("Artwork %d (%s) is already in the gallery", item.ID, item.Title)), nil
		}
		return mcpText(fmt.Sprintf("Saved %q by %s (id %d)", item.Title, item.ArtistTitle, item.ID)), nil
	}
}

func mcpAnnotate(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		note, err := req.RequireString("note")
		if err != nil {
			return mcpError("note is required"), nil
		}

		updated, err := deps.Gallery.UpdateNote(int64(id), note)
		if artwork.IsNoteTooLong(err) {
			return mcpError(fmt.Sprintf("note is too long: the limit is %d characters", artwork.NoteMaxLen)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to update note: %v", err)), nil
		}
		if !updated {
			return mcpError(fmt.Sprintf("no saved artwork with id %d", id)), nil
		}
		return mcpText(fmt.Sprintf("Updated note on artwork %d", id)), nil
	}
}

func mcpRemove(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("id")
		if err != nil {
			return mcpError("id is required"), nil
		}

		removed, err := deps.Gallery.Remove(int64(id))
		if err != nil {
			return mcpError(fmt.Sprintf("failed to remove: %v", err)), nil
		}
		if !removed {
			return mcpError(fmt.Sprintf("no saved artwork with id %d", id)), nil
		}
		return mcpText(fmt.Sprintf("Removed artwork %d from the gallery", id)), nil
	}
}

func mcpResourceGallery(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Gallery.Load())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal gallery: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}

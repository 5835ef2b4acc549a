package resumeserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_resume/internal/engine/resume"
	"github.com/anatolykoptev/go_resume/internal/store"
)

// libraryStatusInput is intentionally empty: the tool takes no arguments.
type libraryStatusInput struct{}

func registerLibraryStatus(server *mcp.Server, st *store.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "library_status",
		Description: "Show the active bullet library version with per-section bullet counts. Fails if the library was never seeded.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ libraryStatusInput) (*mcp.CallToolResult, *resume.LibraryStatusResult, error) {
		result, err := resume.LibraryStatus(ctx, st)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerSeedLibrary(server *mcp.Server, st *store.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "seed_library",
		Description: "Bulk-insert a new active library version from a JSON fixture file (version_label + sections with bullets). One-time setup tooling.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input resume.SeedInput) (*mcp.CallToolResult, *resume.SeedResult, error) {
		if input.Path == "" {
			return nil, nil, errors.New("path is required")
		}
		result, err := resume.SeedLibrary(ctx, st, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

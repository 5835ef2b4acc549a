package resumeserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_resume/internal/engine/resume"
	"github.com/anatolykoptev/go_resume/internal/store"
)

func registerSelect(server *mcp.Server, st *store.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "select_bullets",
		Description: "Select and rank bullet points from the active library against a stored job description evaluation (latest by default). Rewrites section introductions, snapshots the result as an immutable decision set and returns its id.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input resume.SelectInput) (*mcp.CallToolResult, *resume.SelectResult, error) {
		result, err := resume.Select(ctx, st, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

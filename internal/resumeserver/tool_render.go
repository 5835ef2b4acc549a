package resumeserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_resume/internal/engine/resume"
	"github.com/anatolykoptev/go_resume/internal/store"
)

func registerRender(server *mcp.Server, st *store.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_resume",
		Description: "Render a persisted decision set (latest by default) into a docx document by substituting {{key}} placeholders in a template file. The key set is defined by the template.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input resume.RenderInput) (*mcp.CallToolResult, *resume.RenderResult, error) {
		if input.TemplatePath == "" || input.OutputPath == "" {
			return nil, nil, errors.New("template_path and output_path are required")
		}
		result, err := resume.Render(ctx, st, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

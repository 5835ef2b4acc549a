package resumeserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_resume/internal/engine/resume"
	"github.com/anatolykoptev/go_resume/internal/store"
)

func registerEvaluate(server *mcp.Server, st *store.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "evaluate_job_description",
		Description: "Evaluate a job description into structured attributes (title, company, summary, keywords, skills, tasks, technologies) and persist the result keyed by content hash. Re-submitting identical text returns the existing evaluation. HTML input is converted to text first.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input resume.EvaluateInput) (*mcp.CallToolResult, *resume.EvaluateResult, error) {
		if input.JobDescription == "" {
			return nil, nil, errors.New("job_description is required")
		}
		result, err := resume.Evaluate(ctx, st, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

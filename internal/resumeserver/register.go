// Package resumeserver exposes the tailoring pipeline as MCP tools:
// evaluate_job_description, select_bullets, render_resume, library_status,
// seed_library.
package resumeserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_resume/internal/store"
)

// RegisterTools registers all resume pipeline tools on the given MCP server.
func RegisterTools(server *mcp.Server, st *store.Store) {
	registerEvaluate(server, st)
	registerSelect(server, st)
	registerRender(server, st)
	registerLibraryStatus(server, st)
	registerSeedLibrary(server, st)
}

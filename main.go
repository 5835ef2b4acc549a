// go_resume — resume tailoring MCP server.
//
// Exposes five MCP tools: evaluate_job_description, select_bullets,
// render_resume, library_status, seed_library.
// Runs as HTTP MCP server or stdio transport.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_resume/internal/engine"
	"github.com/anatolykoptev/go_resume/internal/resumeserver"
	"github.com/anatolykoptev/go_resume/internal/store"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8892")
)

func main() {
	_ = godotenv.Load()

	c := engine.Config{
		LLMAPIKey:       env.Str("LLM_API_KEY", ""),
		LLMAPIBase:      env.Str("LLM_API_BASE", "https://api.openai.com/v1"),
		LLMModel:        env.Str("LLM_MODEL", "gpt-4o"),
		LLMTemperature:  env.Float("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:    env.Int("LLM_MAX_TOKENS", 8192),
		Env:             env.Str("ENV", "production"),
		DatabaseDSN:     env.Str("DATABASE_DSN", "resume.db"),
		SelectionCounts: selectionCounts(),
		PromptVersion:   env.Str("PROMPT_VERSION", "v1"),
	}

	c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(&http.Client{Timeout: 120 * time.Second}),
	)

	engine.Init(c)

	st, err := store.Open(c.DatabaseDSN)
	if err != nil {
		slog.Error("store init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer st.Close()

	slog.Info("starting go_resume",
		slog.String("port", mcpPort),
		slog.String("model", c.LLMModel),
		slog.String("env", c.Env),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_resume",
		Version: version,
	}, nil)

	resumeserver.RegisterTools(server, st)
	slog.Info("tools registered", slog.Int("count", 5))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_resume",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

// selectionCounts parses SELECTION_COUNTS (e.g. "12,6,2") into per-section
// bullet bounds, falling back to the default on empty or bad values.
func selectionCounts() []int {
	parts := env.List("SELECTION_COUNTS", "")
	if len(parts) == 0 {
		return nil // engine.Init applies the default
	}
	counts := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			slog.Warn("ignoring invalid SELECTION_COUNTS", slog.Any("value", parts))
			return nil
		}
		counts = append(counts, n)
	}
	return counts
}

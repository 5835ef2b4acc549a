package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	LLMCalls    atomic.Int64
	LLMErrors   atomic.Int64
	Evaluations atomic.Int64
	Selections  atomic.Int64
	Renders     atomic.Int64
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"llm_calls":   metrics.LLMCalls.Load(),
		"llm_errors":  metrics.LLMErrors.Load(),
		"evaluations": metrics.Evaluations.Load(),
		"selections":  metrics.Selections.Load(),
		"renders":     metrics.Renders.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{"llm_calls", "llm_errors", "evaluations", "selections", "renders"}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

func IncrLLMCalls()    { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()   { metrics.LLMErrors.Add(1) }
func IncrEvaluations() { metrics.Evaluations.Add(1) }
func IncrSelections()  { metrics.Selections.Add(1) }
func IncrRenders()     { metrics.Renders.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}

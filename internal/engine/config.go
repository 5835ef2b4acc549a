package engine

import (
	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey      string
	LLMAPIBase     string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int

	// Env tags audit rows so runs from different deployments can be told
	// apart in the transaction log.
	Env string

	// DatabaseDSN is either a sqlite file path or a postgres:// URL.
	DatabaseDSN string

	// SelectionCounts bounds how many bullets the selector may keep per
	// experience section, by section position. The general-information
	// section carries no bullet pool and is not counted.
	SelectionCounts []int

	// PromptVersion is recorded on every transaction row.
	PromptVersion string

	LLMClient *llm.Client
}

// DefaultSelectionCounts is applied when SELECTION_COUNTS is unset.
var DefaultSelectionCounts = []int{12, 6, 2}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (resume, resumeserver).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if len(c.SelectionCounts) == 0 {
		c.SelectionCounts = append([]int(nil), DefaultSelectionCounts...)
	}
	cfg = c
	Cfg = &cfg
}

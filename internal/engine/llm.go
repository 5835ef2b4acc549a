package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// SchemaError reports LLM output that parsed as text but failed the expected
// JSON schema. Distinct from transport errors so callers can tell a broken
// model response from a broken connection.
type SchemaError struct {
	Stage  string // "jd_evaluator" or "bp_selector"
	Detail string
	Raw    string // truncated raw model output
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: output failed schema: %s", e.Stage, e.Detail)
}

// NewSchemaError builds a SchemaError with the raw output capped for logs.
func NewSchemaError(stage, detail, raw string) *SchemaError {
	return &SchemaError{Stage: stage, Detail: detail, Raw: TruncateRunes(raw, 400, "...")}
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CallLLM sends a prompt using the configured temperature and max_tokens.
func CallLLM(ctx context.Context, prompt string) (string, error) {
	IncrLLMCalls()
	resp, err := cfg.LLMClient.Complete(ctx, "", prompt)
	if err != nil {
		IncrLLMErrors()
		return "", fmt.Errorf("llm call: %w", err)
	}
	return stripFences(resp), nil
}

// DecodeStrict parses raw LLM output into T, rejecting unknown fields and
// trailing content after the JSON value. There is no repair pass: any
// deviation from the schema is a SchemaError.
func DecodeStrict[T any](stage, raw string) (*T, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	var out T
	if err := dec.Decode(&out); err != nil {
		return nil, NewSchemaError(stage, err.Error(), raw)
	}
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		return nil, NewSchemaError(stage, "trailing content after JSON value", raw)
	}
	return &out, nil
}

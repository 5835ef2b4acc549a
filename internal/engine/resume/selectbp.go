package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_resume/internal/engine"
	"github.com/anatolykoptev/go_resume/internal/store"
)

const bpSelectorPrompt = `You are simulating a job seeker who wants to obtain a new position.

INPUT:
- "job_description": JSON containing a job description and a preliminary analysis (keywords, skills, tasks, technologies).
- "library_bundle": JSON with a curated list of prior-experience bullet points grouped by sections.
Each section represents a past role or experience; sections after the first contain larger bullet pools.

TASK:
1) Analyze how well the extracted items match the actual job description. Adjust the analysis mentally as needed.
2) For each section, rewrite "introduction" to align with the job description. Keep the section "id" and "code" matching the input.
3) For each section, copy the existing "organization" value from the input verbatim and never output an empty string.
4) Select and return bullets WITH A RANK (1 = most aligned):
%s
The first section carries no bullet pool; return it with an empty bullet list.
5) Use only the bullet "id" and "text" values already provided in "library_bundle".

Return a JSON object with this exact structure:
{
  "library_version": {"version_label": "copied from input"},
  "sections": [
    {
      "id": 1,
      "code": "A",
      "organization": "copied verbatim from input",
      "title": "copied from input",
      "introduction": "rewritten introduction",
      "bullets": [{"id": 7, "text": "bullet text copied from input", "rank": 1}]
    }
  ]
}

INPUT DOCUMENT:
%s

Return ONLY the JSON object, no markdown, no explanation.`

// selectionJD is the allow-listed view of an evaluation shown to the
// selector: jd_summary never leaves the store.
type selectionJD struct {
	JobTitle       string   `json:"job_title"`
	Company        string   `json:"company"`
	JDText         string   `json:"jd_text"`
	JDKeywords     []string `json:"jd_keywords"`
	JDSkills       []string `json:"jd_skills"`
	JDTasks        []string `json:"jd_tasks"`
	JDTechnologies []string `json:"jd_technologies"`
}

// selectionBullet and selectionSection withhold ranks and active flags:
// library-internal bookkeeping the model has no business seeing.
type selectionBullet struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type selectionSection struct {
	ID           int64             `json:"id"`
	Code         string            `json:"code"`
	Organization string            `json:"organization"`
	Title        string            `json:"title"`
	Introduction string            `json:"introduction"`
	Bullets      []selectionBullet `json:"bullets"`
}

type selectionBundle struct {
	LibraryVersion struct {
		VersionLabel string `json:"version_label"`
	} `json:"library_version"`
	Sections []selectionSection `json:"sections"`
}

type selectionPayload struct {
	JobDescription selectionJD     `json:"job_description"`
	LibraryBundle  selectionBundle `json:"library_bundle"`
}

// BuildSelectionPayload reduces one evaluation and one library bundle to the
// single JSON document sent to the selector.
func BuildSelectionPayload(eval *engine.Evaluation, bundle *engine.Bundle) (string, error) {
	payload := selectionPayload{
		JobDescription: selectionJD{
			JobTitle:       eval.JobTitle,
			Company:        eval.Company,
			JDText:         eval.JDText,
			JDKeywords:     eval.JDKeywords,
			JDSkills:       eval.JDSkills,
			JDTasks:        eval.JDTasks,
			JDTechnologies: eval.JDTechnologies,
		},
	}
	payload.LibraryBundle.LibraryVersion.VersionLabel = bundle.LibraryVersion.VersionLabel
	for _, sec := range bundle.Sections {
		ss := selectionSection{
			ID:           sec.ID,
			Code:         sec.Code,
			Organization: sec.Organization,
			Title:        sec.Title,
			Introduction: sec.Introduction,
		}
		for _, b := range sec.Bullets {
			ss.Bullets = append(ss.Bullets, selectionBullet{ID: b.ID, Text: b.Text})
		}
		payload.LibraryBundle.Sections = append(payload.LibraryBundle.Sections, ss)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal selection payload: %w", err)
	}
	return string(data), nil
}

// selectionDirective renders the per-section bullet bounds into prompt lines.
// The counts are configuration, not a structural invariant.
func selectionDirective(counts []int) string {
	var sb strings.Builder
	for i, n := range counts {
		fmt.Fprintf(&sb, "- the %d best-aligned bullets from section %d\n", n, i+2)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// SelectBullets sends the payload to the selector and decodes the pruned,
// ranked bundle. Returns the bundle and the raw model output (for the audit
// log). Schema violations propagate as *engine.SchemaError; no retry.
func SelectBullets(ctx context.Context, payload string) (*engine.Bundle, string, error) {
	prompt := fmt.Sprintf(bpSelectorPrompt, selectionDirective(engine.Cfg.SelectionCounts), payload)

	raw, err := engine.CallLLM(ctx, prompt)
	if err != nil {
		return nil, "", err
	}

	out, err := engine.DecodeStrict[engine.Bundle](store.ProcessSelector, raw)
	if err != nil {
		return nil, raw, err
	}
	if err := out.Validate(); err != nil {
		return nil, raw, engine.NewSchemaError(store.ProcessSelector, err.Error(), raw)
	}
	return out, raw, nil
}

// RunSelection is the full selection stage: load the evaluation (latest when
// evalID is zero) and the active library bundle, run the selector, persist
// the decision set. Returns the decision set id and the selected bundle.
func RunSelection(ctx context.Context, st *store.Store, evalID int64) (int64, *engine.Bundle, error) {
	var row *store.JobDescriptionEval
	var err error
	if evalID == 0 {
		row, err = st.LatestEvaluation(ctx)
	} else {
		row, err = st.EvaluationByID(ctx, evalID)
	}
	if err != nil {
		return 0, nil, err
	}

	bundle, err := st.LoadBundle(ctx)
	if err != nil {
		return 0, nil, err
	}

	payload, err := BuildSelectionPayload(row.ToEvaluation(), bundle)
	if err != nil {
		return 0, nil, err
	}

	var selected *engine.Bundle
	var raw string
	err = engine.TrackOperation(ctx, "select_bullets", func(ctx context.Context) error {
		var err error
		selected, raw, err = SelectBullets(ctx, payload)
		return err
	})
	if err != nil {
		return 0, nil, err
	}

	setID, err := st.PersistDecision(ctx, row.ID, selected, store.DecisionMeta{
		ModelName:     engine.Cfg.LLMModel,
		Env:           engine.Cfg.Env,
		PromptVersion: engine.Cfg.PromptVersion,
		InputPayload:  payload,
		OutputPayload: raw,
	})
	if err != nil {
		return 0, nil, err
	}

	engine.IncrSelections()
	slog.Info("bullets selected",
		slog.Int64("eval_id", row.ID),
		slog.Int64("decision_set_id", setID),
		slog.Int("sections", len(selected.Sections)),
	)
	return setID, selected, nil
}

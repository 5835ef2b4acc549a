// Package resume orchestrates the two LLM stages of the tailoring pipeline:
// evaluating a job description into structured attributes, and selecting
// ranked bullets from the library against that evaluation.
package resume

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_resume/internal/engine"
	"github.com/anatolykoptev/go_resume/internal/store"
)

const jdEvaluatorPrompt = `You evaluate job descriptions and return a summary of the position and an analysis.

Your analysis must include:
- a list of important keywords for ATS compatibility
- a list of important skills in order of relevance
- a list of the critical job tasks and duties
- a list of explicitly named technologies desired or required, including the names of specifically mentioned products, applications, development environments and languages

Return a JSON object with this exact structure:
{
  "job_title": "parsed job title",
  "company": "parsed company name",
  "jd_text": "the original job description text",
  "jd_summary": "short summary of the role",
  "jd_keywords": ["keyword"],
  "jd_skills": ["skill"],
  "jd_tasks": ["task"],
  "jd_technologies": ["technology"]
}

JOB DESCRIPTION:
%s

Return ONLY the JSON object, no markdown, no explanation.`

// EvaluateJD canonicalizes raw job-description input, fingerprints it and
// asks the LLM for a structured evaluation. Returns the evaluation, the
// canonical text and the content hash. A schema mismatch propagates as
// *engine.SchemaError; it is not retried here.
func EvaluateJD(ctx context.Context, raw string) (*engine.Evaluation, string, string, error) {
	text, err := engine.IngestJobDescription(raw)
	if err != nil {
		return nil, "", "", err
	}
	canonical := engine.Canonicalize(text)
	hash := engine.Fingerprint(canonical)

	out, err := engine.CallLLM(ctx, fmt.Sprintf(jdEvaluatorPrompt, canonical))
	if err != nil {
		return nil, "", "", err
	}

	eval, err := parseEvaluation(out, canonical)
	if err != nil {
		return nil, "", "", err
	}
	return eval, canonical, hash, nil
}

// parseEvaluation decodes the model output against the evaluation schema.
// job_title, company and jd_summary are required; a missing jd_text is
// backfilled with the canonical input rather than treated as a failure.
func parseEvaluation(raw, canonical string) (*engine.Evaluation, error) {
	eval, err := engine.DecodeStrict[engine.Evaluation](store.ProcessEvaluator, raw)
	if err != nil {
		return nil, err
	}
	for field, val := range map[string]string{
		"job_title":  eval.JobTitle,
		"company":    eval.Company,
		"jd_summary": eval.JDSummary,
	} {
		if strings.TrimSpace(val) == "" {
			return nil, engine.NewSchemaError(store.ProcessEvaluator,
				fmt.Sprintf("missing required field %q", field), raw)
		}
	}
	if eval.JDText == "" {
		eval.JDText = canonical
	}
	return eval, nil
}

// RunEvaluation is the full evaluation stage: evaluate, upsert by content
// hash, log the run. Re-submitting identical text returns the existing row
// untouched. The second return value reports whether a new row was created.
func RunEvaluation(ctx context.Context, st *store.Store, raw, sourceFilename string) (*store.JobDescriptionEval, bool, error) {
	var analysis *engine.Evaluation
	var canonical, hash string
	err := engine.TrackOperation(ctx, "evaluate_jd", func(ctx context.Context) error {
		var err error
		analysis, canonical, hash, err = EvaluateJD(ctx, raw)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	row, created, err := st.GetOrCreateEvaluation(ctx, hash, canonical, analysis)
	if err != nil {
		return nil, false, err
	}

	if _, err := st.CreateTransaction(ctx, store.TransactionParams{
		EvalID:         row.ID,
		ProcessName:    store.ProcessEvaluator,
		Status:         store.StatusCompleted,
		ModelName:      engine.Cfg.LLMModel,
		Env:            engine.Cfg.Env,
		PromptVersion:  engine.Cfg.PromptVersion,
		SourceFilename: sourceFilename,
	}); err != nil {
		return nil, false, err
	}

	engine.IncrEvaluations()
	slog.Info("job description evaluated",
		slog.Int64("eval_id", row.ID),
		slog.Bool("created", created),
		slog.String("content_hash", engine.TruncateRunes(hash, 12, "")),
	)
	return row, created, nil
}

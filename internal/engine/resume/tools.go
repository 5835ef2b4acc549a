package resume

import (
	"context"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_resume/internal/engine"
	"github.com/anatolykoptev/go_resume/internal/render"
	"github.com/anatolykoptev/go_resume/internal/store"
)

// EvaluateInput is the input for evaluate_job_description.
type EvaluateInput struct {
	JobDescription string `json:"job_description"`
	SourceFilename string `json:"source_filename,omitempty"`
}

// EvaluateResult is the output for evaluate_job_description.
type EvaluateResult struct {
	EvalID      int64              `json:"eval_id"`
	ContentHash string             `json:"content_hash"`
	Created     bool               `json:"created"`
	Evaluation  *engine.Evaluation `json:"evaluation"`
}

// Evaluate runs the evaluation stage for one job description.
func Evaluate(ctx context.Context, st *store.Store, input EvaluateInput) (*EvaluateResult, error) {
	if input.JobDescription == "" {
		return nil, errors.New("job_description is required")
	}
	row, created, err := RunEvaluation(ctx, st, input.JobDescription, input.SourceFilename)
	if err != nil {
		return nil, err
	}
	return &EvaluateResult{
		EvalID:      row.ID,
		ContentHash: row.ContentHash,
		Created:     created,
		Evaluation:  row.ToEvaluation(),
	}, nil
}

// SelectInput is the input for select_bullets.
type SelectInput struct {
	EvaluationID int64 `json:"evaluation_id,omitempty"` // 0 = latest
}

// SelectResult is the output for select_bullets.
type SelectResult struct {
	DecisionSetID int64          `json:"decision_set_id"`
	Bundle        *engine.Bundle `json:"bundle"`
}

// Select runs the selection stage against one stored evaluation.
func Select(ctx context.Context, st *store.Store, input SelectInput) (*SelectResult, error) {
	setID, bundle, err := RunSelection(ctx, st, input.EvaluationID)
	if err != nil {
		return nil, err
	}
	return &SelectResult{DecisionSetID: setID, Bundle: bundle}, nil
}

// RenderInput is the input for render_resume.
type RenderInput struct {
	DecisionSetID int64  `json:"decision_set_id,omitempty"` // 0 = latest
	TemplatePath  string `json:"template_path"`
	OutputPath    string `json:"output_path"`
}

// RenderResult is the output for render_resume.
type RenderResult struct {
	DecisionSetID int64  `json:"decision_set_id"`
	OutputPath    string `json:"output_path"`
	ContextKeys   int    `json:"context_keys"`
}

// Render materializes a persisted decision set into a docx document.
func Render(ctx context.Context, st *store.Store, input RenderInput) (*RenderResult, error) {
	if input.TemplatePath == "" || input.OutputPath == "" {
		return nil, errors.New("template_path and output_path are required")
	}

	setID := input.DecisionSetID
	if setID == 0 {
		var err error
		setID, err = st.LatestDecisionSet(ctx)
		if err != nil {
			return nil, err
		}
	}

	bundle, err := st.DecisionBundle(ctx, setID)
	if err != nil {
		return nil, err
	}

	docCtx := render.BuildContext(bundle)
	if err := render.RenderDocx(input.TemplatePath, input.OutputPath, docCtx); err != nil {
		return nil, err
	}
	return &RenderResult{
		DecisionSetID: setID,
		OutputPath:    input.OutputPath,
		ContextKeys:   len(docCtx),
	}, nil
}

// SectionStatus summarizes one section of the active library.
type SectionStatus struct {
	Code         string `json:"code"`
	Organization string `json:"organization"`
	Title        string `json:"title"`
	Bullets      int    `json:"bullets"`
}

// LibraryStatusResult is the output for library_status.
type LibraryStatusResult struct {
	VersionID    int64           `json:"version_id"`
	VersionLabel string          `json:"version_label"`
	Sections     []SectionStatus `json:"sections"`
}

// LibraryStatus reports the active version and its per-section bullet counts.
func LibraryStatus(ctx context.Context, st *store.Store) (*LibraryStatusResult, error) {
	bundle, err := st.LoadBundle(ctx)
	if err != nil {
		return nil, err
	}
	result := LibraryStatusResult{
		VersionID:    bundle.LibraryVersion.ID,
		VersionLabel: bundle.LibraryVersion.VersionLabel,
	}
	for _, sec := range bundle.Sections {
		result.Sections = append(result.Sections, SectionStatus{
			Code:         sec.Code,
			Organization: sec.Organization,
			Title:        sec.Title,
			Bullets:      len(sec.Bullets),
		})
	}
	return &result, nil
}

// SeedInput is the input for seed_library.
type SeedInput struct {
	Path string `json:"path"`
}

// SeedResult is the output for seed_library.
type SeedResult struct {
	VersionID    int64  `json:"version_id"`
	VersionLabel string `json:"version_label"`
	Sections     int    `json:"sections"`
	Bullets      int    `json:"bullets"`
}

// SeedLibrary bulk-inserts a library version from a JSON fixture file.
func SeedLibrary(ctx context.Context, st *store.Store, input SeedInput) (*SeedResult, error) {
	if input.Path == "" {
		return nil, errors.New("path is required")
	}
	lv, err := st.SeedFromFile(ctx, input.Path)
	if err != nil {
		return nil, fmt.Errorf("seed library: %w", err)
	}
	bullets := 0
	for _, sec := range lv.Sections {
		bullets += len(sec.Bullets)
	}
	return &SeedResult{
		VersionID:    lv.ID,
		VersionLabel: lv.VersionLabel,
		Sections:     len(lv.Sections),
		Bullets:      bullets,
	}, nil
}

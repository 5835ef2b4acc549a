package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/anatolykoptev/go_resume/internal/engine"
)

// ErrEvaluationNotFound is returned when an evaluation row explicitly
// requested by id (or "latest") does not exist.
var ErrEvaluationNotFound = errors.New("no job description evaluation found")

// beforeEvalInsert runs between the lookup miss and the insert. Test hook
// for the lost-insert race; nil outside tests.
var beforeEvalInsert func()

// GetOrCreateEvaluation looks up the evaluation row for contentHash and
// returns it unchanged if present (the supplied analysis is discarded).
// Otherwise it inserts a row built from analysis, with jd_text forced to the
// canonical text rather than the model's echo. A unique-constraint race with
// a concurrent writer is resolved by re-fetching the winner's row.
// The second return value reports whether a new row was created.
func (s *Store) GetOrCreateEvaluation(ctx context.Context, contentHash, canonicalText string, analysis *engine.Evaluation) (*JobDescriptionEval, bool, error) {
	var existing JobDescriptionEval
	err := s.db.WithContext(ctx).
		Where("content_hash = ?", contentHash).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("lookup evaluation: %w", err)
	}

	if beforeEvalInsert != nil {
		beforeEvalInsert()
	}

	row := JobDescriptionEval{
		ContentHash:    contentHash,
		JobTitle:       analysis.JobTitle,
		Company:        analysis.Company,
		JDText:         canonicalText, // persist the canonical form, always
		JDSummary:      analysis.JDSummary,
		JDKeywords:     analysis.JDKeywords,
		JDSkills:       analysis.JDSkills,
		JDTasks:        analysis.JDTasks,
		JDTechnologies: analysis.JDTechnologies,
		CreatedAtUTC:   time.Now().UTC(),
	}

	createErr := s.db.WithContext(ctx).Create(&row).Error
	if createErr == nil {
		return &row, true, nil
	}
	if errors.Is(createErr, gorm.ErrDuplicatedKey) {
		// Lost the insert race; the winner's row is authoritative.
		var winner JobDescriptionEval
		err := s.db.WithContext(ctx).
			Where("content_hash = ?", contentHash).
			First(&winner).Error
		if err == nil {
			return &winner, false, nil
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Should be unreachable: the original error is the truth.
			return nil, false, fmt.Errorf("insert evaluation: %w", createErr)
		}
		return nil, false, fmt.Errorf("refetch evaluation: %w", err)
	}
	return nil, false, fmt.Errorf("insert evaluation: %w", createErr)
}

// TransactionParams describes one audit row.
type TransactionParams struct {
	EvalID         int64
	ProcessName    string
	Status         string
	ModelName      string
	Env            string
	PromptVersion  string
	SourceFilename string
	ErrorMessage   string
}

// CreateTransaction inserts an audit row with identical start and completion
// timestamps. Persistence failures propagate to the caller unmodified.
func (s *Store) CreateTransaction(ctx context.Context, p TransactionParams) (*EvalTransaction, error) {
	now := time.Now().UTC()
	tx := EvalTransaction{
		JDEvaluationID: p.EvalID,
		StartedAtUTC:   now,
		CompletedAtUTC: &now,
		Status:         p.Status,
		ProcessName:    p.ProcessName,
		ModelName:      optStr(p.ModelName),
		Env:            optStr(p.Env),
		PromptVersion:  optStr(p.PromptVersion),
		SourceFilename: optStr(p.SourceFilename),
		ErrorMessage:   optStr(p.ErrorMessage),
	}
	if err := s.db.WithContext(ctx).Create(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

// LatestEvaluation returns the most recently created evaluation row.
func (s *Store) LatestEvaluation(ctx context.Context) (*JobDescriptionEval, error) {
	var row JobDescriptionEval
	err := s.db.WithContext(ctx).
		Order("jd_evaluation_id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEvaluationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest evaluation: %w", err)
	}
	return &row, nil
}

// EvaluationByID fetches one evaluation row.
func (s *Store) EvaluationByID(ctx context.Context, id int64) (*JobDescriptionEval, error) {
	var row JobDescriptionEval
	err := s.db.WithContext(ctx).
		Where("jd_evaluation_id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrEvaluationNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("evaluation %d: %w", id, err)
	}
	return &row, nil
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

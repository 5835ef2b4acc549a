// Package store persists the bullet library, job-description evaluations and
// selection decision sets behind GORM (sqlite by default, postgres via DSN).
package store

import (
	"time"

	"github.com/anatolykoptev/go_resume/internal/engine"
)

// LibraryVersion is one immutable snapshot of the bullet library.
// At most one version is treated as active for selection, resolved as the
// highest-id active row.
type LibraryVersion struct {
	ID           int64     `gorm:"column:library_version_id;primaryKey;autoIncrement"`
	VersionLabel string    `gorm:"size:50;uniqueIndex;not null"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAtUTC time.Time `gorm:"column:created_at_utc;not null"`

	Sections []Section `gorm:"foreignKey:LibraryVersionID;constraint:OnDelete:CASCADE"`
}

func (LibraryVersion) TableName() string { return "library_version" }

// Section belongs to exactly one LibraryVersion.
type Section struct {
	ID               int64  `gorm:"column:section_id;primaryKey;autoIncrement"`
	LibraryVersionID int64  `gorm:"not null;index"`
	Code             string `gorm:"size:1;not null"` // 'A'..'Z'
	Organization     string `gorm:"type:text;not null"`
	Title            string `gorm:"type:text;not null"`
	Introduction     string `gorm:"type:text;not null"`
	OrderIndex       *int   `gorm:"column:order_index"`

	Bullets []Bullet `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

func (Section) TableName() string { return "section" }

// Bullet is one prior-experience statement. Rank is nullable: absence means
// unranked, which sorts after every ranked bullet.
type Bullet struct {
	ID           int64     `gorm:"column:bullet_id;primaryKey;autoIncrement"`
	SectionID    int64     `gorm:"not null;index"`
	Text         string    `gorm:"type:text;not null"`
	SourceKey    *string   `gorm:"size:64"`
	Rank         *int      ``
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAtUTC time.Time `gorm:"column:created_at_utc;not null"`
}

func (Bullet) TableName() string { return "bullet" }

// JobDescriptionEval holds one row per distinct canonicalized job description,
// keyed by the content fingerprint. Never updated after creation.
type JobDescriptionEval struct {
	ID             int64     `gorm:"column:jd_evaluation_id;primaryKey;autoIncrement"`
	ContentHash    string    `gorm:"size:64;uniqueIndex;not null"`
	JobTitle       string    `gorm:"type:text;not null"`
	Company        string    `gorm:"type:text;not null"`
	JDText         string    `gorm:"column:jd_text;type:text;not null"`
	JDSummary      string    `gorm:"column:jd_summary;type:text;not null"`
	JDKeywords     []string  `gorm:"column:jd_keywords;serializer:json"`
	JDSkills       []string  `gorm:"column:jd_skills;serializer:json"`
	JDTasks        []string  `gorm:"column:jd_tasks;serializer:json"`
	JDTechnologies []string  `gorm:"column:jd_technologies;serializer:json"`
	CreatedAtUTC   time.Time `gorm:"column:created_at_utc;not null"`
}

func (JobDescriptionEval) TableName() string { return "jd_evaluation" }

// ToEvaluation maps a stored row back onto the wire schema.
func (e *JobDescriptionEval) ToEvaluation() *engine.Evaluation {
	return &engine.Evaluation{
		JobTitle:       e.JobTitle,
		Company:        e.Company,
		JDText:         e.JDText,
		JDSummary:      e.JDSummary,
		JDKeywords:     e.JDKeywords,
		JDSkills:       e.JDSkills,
		JDTasks:        e.JDTasks,
		JDTechnologies: e.JDTechnologies,
	}
}

// EvalTransaction is one audit row per pipeline run (evaluation or selection
// stage). The evaluation FK is non-nullable: a run cannot be logged without
// its evaluation row.
type EvalTransaction struct {
	ID             int64      `gorm:"column:transaction_id;primaryKey;autoIncrement"`
	JDEvaluationID int64      `gorm:"column:jd_evaluation_id;not null;index"`
	StartedAtUTC   time.Time  `gorm:"column:started_at_utc;not null"`
	CompletedAtUTC *time.Time `gorm:"column:completed_at_utc"`
	Status         string     `gorm:"size:20;not null"`
	ProcessName    string     `gorm:"size:50;not null"`
	ModelName      *string    `gorm:"size:100"`
	Env            *string    `gorm:"size:20"`
	PromptVersion  *string    `gorm:"size:20"`
	SourceFilename *string    `gorm:"type:text"`
	InputPayload   *string    `gorm:"type:text"`
	OutputPayload  *string    `gorm:"type:text"`
	ErrorMessage   *string    `gorm:"type:text"`

	JDEvaluation *JobDescriptionEval `gorm:"foreignKey:JDEvaluationID;constraint:OnDelete:CASCADE"`
}

func (EvalTransaction) TableName() string { return "jd_transactions" }

// Transaction status / process names recorded in the audit log.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"

	ProcessEvaluator = "jd_evaluator"
	ProcessSelector  = "bp_selector"
)

// DecisionSet is the immutable snapshot of one selection run.
type DecisionSet struct {
	ID               int64     `gorm:"column:decision_set_id;primaryKey;autoIncrement"`
	TransactionID    int64     `gorm:"not null;index"`
	LibraryVersionID *int64    `gorm:"index"`
	CreatedAtUTC     time.Time `gorm:"column:created_at_utc;not null"`

	Transaction *EvalTransaction  `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	Sections    []DecisionSection `gorm:"foreignKey:DecisionSetID;constraint:OnDelete:CASCADE"`
}

func (DecisionSet) TableName() string { return "bp_decision_set" }

// DecisionSection copies section fields verbatim from the selection output.
// Code is unique within its decision set.
type DecisionSection struct {
	ID            int64  `gorm:"column:decision_section_id;primaryKey;autoIncrement"`
	DecisionSetID int64  `gorm:"not null;uniqueIndex:ux_decision_section_code"`
	Code          string `gorm:"size:1;not null;uniqueIndex:ux_decision_section_code"`
	Organization  string `gorm:"type:text;not null"`
	Title         string `gorm:"type:text;not null"`
	Introduction  string `gorm:"type:text;not null"`

	Bullets []DecisionBullet `gorm:"foreignKey:DecisionSectionID;constraint:OnDelete:CASCADE"`
}

func (DecisionSection) TableName() string { return "bp_decision_section" }

// DecisionBullet snapshots a selected bullet. Text is copied, not referenced,
// so later library edits never change history. SourceBulletID is kept only
// when the live bullet still resolves.
type DecisionBullet struct {
	ID                int64   `gorm:"column:decision_bullet_id;primaryKey;autoIncrement"`
	DecisionSectionID int64   `gorm:"not null;index"`
	SourceBulletID    *int64  `gorm:"index"`
	TextSnapshot      string  `gorm:"type:text;not null"`
	Rank              *int    ``
	SourceBullet      *Bullet `gorm:"foreignKey:SourceBulletID;constraint:OnDelete:SET NULL"`
}

func (DecisionBullet) TableName() string { return "bp_decision_bullet" }

package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// Evaluation is the structured result of evaluating one job description.
// Field set and names are the wire schema for the jd_evaluator LLM call.
type Evaluation struct {
	JobTitle       string   `json:"job_title"`
	Company        string   `json:"company"`
	JDText         string   `json:"jd_text"`
	JDSummary      string   `json:"jd_summary"`
	JDKeywords     []string `json:"jd_keywords"`
	JDSkills       []string `json:"jd_skills"`
	JDTasks        []string `json:"jd_tasks"`
	JDTechnologies []string `json:"jd_technologies"`
}

// BundleVersion identifies the library version a bundle was built from.
type BundleVersion struct {
	ID           int64  `json:"id,omitempty"`
	VersionLabel string `json:"version_label"`
	IsActive     bool   `json:"is_active,omitempty"`
}

// BundleBullet is one bullet inside a bundle section.
type BundleBullet struct {
	ID        int64  `json:"id,omitempty"`
	Text      string `json:"text"`
	SourceKey string `json:"source_key,omitempty"`
	Rank      *int   `json:"rank,omitempty"`
}

// BundleSection is one resume section with its bullet pool (or, in a
// selection result, the pruned and ranked subset).
type BundleSection struct {
	ID           int64          `json:"id,omitempty"`
	Code         string         `json:"code"`
	Organization string         `json:"organization"`
	Title        string         `json:"title"`
	Introduction string         `json:"introduction"`
	Order        *int           `json:"order,omitempty"`
	Bullets      []BundleBullet `json:"bullets"`
}

// Bundle is the hierarchical library payload exchanged with the LLM:
// one library version plus its sections and bullets.
type Bundle struct {
	LibraryVersion BundleVersion   `json:"library_version"`
	Sections       []BundleSection `json:"sections"`
}

var sectionCodeRe = regexp.MustCompile(`^[A-Z]$`)

// Validate trims and checks the bundle's section invariants: single-letter
// uppercase code, non-empty organization/title/introduction, non-empty
// bullet texts.
func (b *Bundle) Validate() error {
	if strings.TrimSpace(b.LibraryVersion.VersionLabel) == "" {
		return fmt.Errorf("bundle: empty version_label")
	}
	for i := range b.Sections {
		s := &b.Sections[i]
		s.Code = strings.TrimSpace(s.Code)
		s.Organization = strings.TrimSpace(s.Organization)
		s.Title = strings.TrimSpace(s.Title)
		s.Introduction = strings.TrimSpace(s.Introduction)

		if !sectionCodeRe.MatchString(s.Code) {
			return fmt.Errorf("bundle: section %d: code %q is not a single uppercase letter", i, s.Code)
		}
		if s.Organization == "" || s.Title == "" || s.Introduction == "" {
			return fmt.Errorf("bundle: section %s: organization, title and introduction must be non-empty", s.Code)
		}
		for j := range s.Bullets {
			if strings.TrimSpace(s.Bullets[j].Text) == "" {
				return fmt.Errorf("bundle: section %s: bullet %d has empty text", s.Code, j)
			}
		}
	}
	return nil
}

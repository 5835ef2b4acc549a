package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// SeedVersion describes one library version in a seed fixture.
type SeedVersion struct {
	VersionLabel string        `json:"version_label"`
	Sections     []SeedSection `json:"sections"`
}

// SeedSection is one section in a seed fixture.
type SeedSection struct {
	Code         string       `json:"code"`
	Organization string       `json:"organization"`
	Title        string       `json:"title"`
	Introduction string       `json:"introduction"`
	Order        int          `json:"order"`
	Bullets      []SeedBullet `json:"bullets"`
}

// SeedBullet is one bullet in a seed fixture.
type SeedBullet struct {
	Text      string `json:"text"`
	SourceKey string `json:"source_key,omitempty"`
	Rank      *int   `json:"rank,omitempty"`
}

// SeedFromFile bulk-inserts one library version with its sections and
// bullets from a JSON fixture file.
func (s *Store) SeedFromFile(ctx context.Context, path string) (*LibraryVersion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed SeedVersion
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return s.Seed(ctx, &seed)
}

// Seed inserts a new active library version. The version label must be
// unused; sections must satisfy the non-empty invariants.
func (s *Store) Seed(ctx context.Context, seed *SeedVersion) (*LibraryVersion, error) {
	if strings.TrimSpace(seed.VersionLabel) == "" {
		return nil, fmt.Errorf("seed: empty version_label")
	}

	now := time.Now().UTC()
	lv := LibraryVersion{
		VersionLabel: strings.TrimSpace(seed.VersionLabel),
		IsActive:     true,
		CreatedAtUTC: now,
	}

	for i, sec := range seed.Sections {
		code := strings.TrimSpace(sec.Code)
		org := strings.TrimSpace(sec.Organization)
		title := strings.TrimSpace(sec.Title)
		intro := strings.TrimSpace(sec.Introduction)
		if len(code) != 1 || code[0] < 'A' || code[0] > 'Z' {
			return nil, fmt.Errorf("seed: section %d: code %q is not a single uppercase letter", i, sec.Code)
		}
		if org == "" || title == "" || intro == "" {
			return nil, fmt.Errorf("seed: section %s: organization, title and introduction must be non-empty", code)
		}

		order := sec.Order
		section := Section{
			Code:         code,
			Organization: org,
			Title:        title,
			Introduction: intro,
			OrderIndex:   &order,
		}
		for j, b := range sec.Bullets {
			text := strings.TrimSpace(b.Text)
			if text == "" {
				return nil, fmt.Errorf("seed: section %s: bullet %d has empty text", code, j)
			}
			bullet := Bullet{
				Text:         text,
				SourceKey:    optStr(b.SourceKey),
				Rank:         b.Rank,
				IsActive:     true,
				CreatedAtUTC: now,
			}
			section.Bullets = append(section.Bullets, bullet)
		}
		lv.Sections = append(lv.Sections, section)
	}

	if err := s.db.WithContext(ctx).Create(&lv).Error; err != nil {
		return nil, fmt.Errorf("seed: insert version %s: %w", lv.VersionLabel, err)
	}
	return &lv, nil
}

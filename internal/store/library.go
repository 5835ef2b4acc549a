package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/anatolykoptev/go_resume/internal/engine"
)

// ErrNoActiveVersion means the library has never been seeded or every
// version was deactivated. Fatal to any pipeline run.
var ErrNoActiveVersion = errors.New("no active library version found")

// ActiveVersion resolves the library version used for selection:
// active rows only, highest id wins.
func (s *Store) ActiveVersion(ctx context.Context) (*LibraryVersion, error) {
	var lv LibraryVersion
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("library_version_id DESC").
		First(&lv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveVersion
	}
	if err != nil {
		return nil, fmt.Errorf("active version: %w", err)
	}
	return &lv, nil
}

// LoadBundle loads the active version with its sections and active bullets,
// in a stable order independent of insertion order: sections by order_index
// then code, bullets ranked-first then rank ascending then id ascending.
func (s *Store) LoadBundle(ctx context.Context) (*engine.Bundle, error) {
	lv, err := s.ActiveVersion(ctx)
	if err != nil {
		return nil, err
	}

	var sections []Section
	if err := s.db.WithContext(ctx).
		Where("library_version_id = ?", lv.ID).
		Order("order_index, code").
		Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}

	bundle := engine.Bundle{
		LibraryVersion: engine.BundleVersion{
			ID:           lv.ID,
			VersionLabel: lv.VersionLabel,
			IsActive:     lv.IsActive,
		},
	}

	for _, sec := range sections {
		var bullets []Bullet
		if err := s.db.WithContext(ctx).
			Where("section_id = ? AND is_active = ?", sec.ID, true).
			Find(&bullets).Error; err != nil {
			return nil, fmt.Errorf("load bullets for section %s: %w", sec.Code, err)
		}
		sortBullets(bullets)

		bs := engine.BundleSection{
			ID:           sec.ID,
			Code:         sec.Code,
			Organization: sec.Organization,
			Title:        sec.Title,
			Introduction: sec.Introduction,
			Order:        sec.OrderIndex,
		}
		for _, b := range bullets {
			bb := engine.BundleBullet{ID: b.ID, Text: b.Text, Rank: b.Rank}
			if b.SourceKey != nil {
				bb.SourceKey = *b.SourceKey
			}
			bs.Bullets = append(bs.Bullets, bb)
		}
		bundle.Sections = append(bundle.Sections, bs)
	}

	return &bundle, nil
}

// sortBullets orders rank-set first, rank ascending, then id ascending as the
// deterministic tiebreak.
func sortBullets(bullets []Bullet) {
	sort.SliceStable(bullets, func(i, j int) bool {
		bi, bj := bullets[i], bullets[j]
		switch {
		case bi.Rank == nil && bj.Rank != nil:
			return false
		case bi.Rank != nil && bj.Rank == nil:
			return true
		case bi.Rank != nil && bj.Rank != nil && *bi.Rank != *bj.Rank:
			return *bi.Rank < *bj.Rank
		default:
			return bi.ID < bj.ID
		}
	})
}

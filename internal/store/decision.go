package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/anatolykoptev/go_resume/internal/engine"
)

// ErrDecisionSetNotFound is returned when a decision set requested by id
// (or "latest") does not exist.
var ErrDecisionSetNotFound = errors.New("no decision set found")

// DecisionMeta carries run metadata for the selection audit row.
type DecisionMeta struct {
	ModelName     string
	Env           string
	PromptVersion string
	InputPayload  string
	OutputPayload string
}

// PersistDecision snapshots one bp_selector run as a single unit of work:
// an audit row opened as running, a decision set linked to the bundle's
// library version when its label still resolves, one decision section per
// bundle section, one decision bullet per selected bullet (with best-effort
// source lineage), and the audit row finalized as completed. Any failure
// rolls the whole transaction back.
func (s *Store) PersistDecision(ctx context.Context, evalID int64, bundle *engine.Bundle, meta DecisionMeta) (int64, error) {
	var setID int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txn := EvalTransaction{
			JDEvaluationID: evalID,
			StartedAtUTC:   time.Now().UTC(),
			Status:         StatusRunning,
			ProcessName:    ProcessSelector,
			ModelName:      optStr(meta.ModelName),
			Env:            optStr(meta.Env),
			PromptVersion:  optStr(meta.PromptVersion),
			InputPayload:   optStr(meta.InputPayload),
			OutputPayload:  optStr(meta.OutputPayload),
		}
		if err := tx.Create(&txn).Error; err != nil {
			return fmt.Errorf("create selection transaction: %w", err)
		}

		// Resolve the library version by label, best-effort: a missing match
		// leaves the link null rather than failing.
		var versionID *int64
		if lbl := bundle.LibraryVersion.VersionLabel; lbl != "" {
			var lv LibraryVersion
			err := tx.Where("version_label = ?", lbl).First(&lv).Error
			switch {
			case err == nil:
				versionID = &lv.ID
			case errors.Is(err, gorm.ErrRecordNotFound):
				// keep null
			default:
				return fmt.Errorf("resolve version label %q: %w", lbl, err)
			}
		}

		set := DecisionSet{
			TransactionID:    txn.ID,
			LibraryVersionID: versionID,
			CreatedAtUTC:     time.Now().UTC(),
		}
		if err := tx.Create(&set).Error; err != nil {
			return fmt.Errorf("create decision set: %w", err)
		}

		for _, sec := range bundle.Sections {
			ds := DecisionSection{
				DecisionSetID: set.ID,
				Code:          sec.Code,
				Organization:  sec.Organization,
				Title:         sec.Title,
				Introduction:  sec.Introduction,
			}
			if err := tx.Create(&ds).Error; err != nil {
				return fmt.Errorf("create decision section %s: %w", sec.Code, err)
			}

			for _, b := range sec.Bullets {
				// Keep lineage only when the source bullet still exists;
				// a miss stores a detached snapshot, never an error.
				var sourceID *int64
				if b.ID != 0 {
					var count int64
					if err := tx.Model(&Bullet{}).
						Where("bullet_id = ?", b.ID).
						Count(&count).Error; err != nil {
						return fmt.Errorf("resolve bullet %d: %w", b.ID, err)
					}
					if count > 0 {
						id := b.ID
						sourceID = &id
					}
				}

				db := DecisionBullet{
					DecisionSectionID: ds.ID,
					SourceBulletID:    sourceID,
					TextSnapshot:      b.Text,
					Rank:              b.Rank,
				}
				if err := tx.Create(&db).Error; err != nil {
					return fmt.Errorf("create decision bullet in section %s: %w", sec.Code, err)
				}
			}
		}

		done := time.Now().UTC()
		if err := tx.Model(&EvalTransaction{}).
			Where("transaction_id = ?", txn.ID).
			Updates(map[string]any{
				"status":           StatusCompleted,
				"completed_at_utc": &done,
			}).Error; err != nil {
			return fmt.Errorf("finalize selection transaction: %w", err)
		}

		setID = set.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return setID, nil
}

// LatestDecisionSet returns the most recent decision set id.
func (s *Store) LatestDecisionSet(ctx context.Context) (int64, error) {
	var set DecisionSet
	err := s.db.WithContext(ctx).
		Order("decision_set_id DESC").
		First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrDecisionSetNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("latest decision set: %w", err)
	}
	return set.ID, nil
}

// DecisionBundle reconstructs a bundle from a persisted decision set, for
// rendering. Section order follows code; bullets follow their stored rank.
func (s *Store) DecisionBundle(ctx context.Context, setID int64) (*engine.Bundle, error) {
	var set DecisionSet
	err := s.db.WithContext(ctx).
		Where("decision_set_id = ?", setID).
		First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrDecisionSetNotFound, setID)
	}
	if err != nil {
		return nil, fmt.Errorf("decision set %d: %w", setID, err)
	}

	bundle := engine.Bundle{}
	if set.LibraryVersionID != nil {
		var lv LibraryVersion
		if err := s.db.WithContext(ctx).
			Where("library_version_id = ?", *set.LibraryVersionID).
			First(&lv).Error; err == nil {
			bundle.LibraryVersion = engine.BundleVersion{
				ID:           lv.ID,
				VersionLabel: lv.VersionLabel,
				IsActive:     lv.IsActive,
			}
		}
	}

	var sections []DecisionSection
	if err := s.db.WithContext(ctx).
		Where("decision_set_id = ?", setID).
		Order("code").
		Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("decision sections: %w", err)
	}

	for _, sec := range sections {
		bs := engine.BundleSection{
			ID:           sec.ID,
			Code:         sec.Code,
			Organization: sec.Organization,
			Title:        sec.Title,
			Introduction: sec.Introduction,
		}
		var bullets []DecisionBullet
		if err := s.db.WithContext(ctx).
			Where("decision_section_id = ?", sec.ID).
			Find(&bullets).Error; err != nil {
			return nil, fmt.Errorf("decision bullets for section %s: %w", sec.Code, err)
		}
		sortDecisionBullets(bullets)
		for _, b := range bullets {
			bb := engine.BundleBullet{Text: b.TextSnapshot, Rank: b.Rank}
			if b.SourceBulletID != nil {
				bb.ID = *b.SourceBulletID
			}
			bs.Bullets = append(bs.Bullets, bb)
		}
		bundle.Sections = append(bundle.Sections, bs)
	}

	return &bundle, nil
}

// sortDecisionBullets mirrors the library loader's ordering: rank-set first,
// rank ascending, id ascending as the tiebreak.
func sortDecisionBullets(bullets []DecisionBullet) {
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

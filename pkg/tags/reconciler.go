// Package tags keeps a memory's tag associations in sync with a free-form
// list of names. Tags live in a single global vocabulary shared by all users;
// a sync resolves each name to its canonical row (creating it if missing) and
// fully replaces the memory's associations.
package tags

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"memorybank/models"
	"memorybank/pkg/apperr"
)

// MaxPerMemory caps how many tags a single memory may carry. Enforced at the
// request edge, not inside Sync.
const MaxPerMemory = 20

// Normalize trims, lowercases and strips a single leading '#' from each name,
// drops entries that end up empty, and collapses duplicates while preserving
// first-seen order.
func Normalize(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		n = strings.TrimPrefix(n, "#")
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Sync rewrites the tag set of memoryID to exactly the normalized input set.
// Existing associations are deleted first (full replace, not a diff), each
// name is resolved get-or-create, and usage counts are recomputed for every
// tag touched on either side. Run inside a transaction to get all-or-nothing
// behavior for memory+tags writes.
func Sync(db *gorm.DB, memoryID uint, names []string) error {
	normalized := Normalize(names)

	// Remember the tags currently attached so their counts can be fixed up
	// after the old rows are gone.
	var previous []uint
	if err := db.Model(&models.MemoryTag{}).
		Where("memory_id = ?", memoryID).
		Pluck("tag_id", &previous).Error; err != nil {
		return fmt.Errorf("%w: loading current tags: %v", apperr.ErrStore, err)
	}

	if err := db.Where("memory_id = ?", memoryID).
		Delete(&models.MemoryTag{}).Error; err != nil {
		return fmt.Errorf("%w: clearing tag associations: %v", apperr.ErrStore, err)
	}

	touched := append([]uint{}, previous...)
	for _, name := range normalized {
		tag, err := getOrCreate(db, name)
		if err != nil {
			return err
		}
		mt := models.MemoryTag{MemoryID: memoryID, TagID: tag.ID}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&mt).Error; err != nil {
			return fmt.Errorf("%w: associating tag %q: %v", apperr.ErrStore, name, err)
		}
		touched = append(touched, tag.ID)
	}

	return refreshUsageCounts(db, touched)
}

// getOrCreate resolves a normalized name to its tag row. Insert-on-conflict
// followed by a read, so two requests racing on a brand-new name both end up
// with the same row.
func getOrCreate(db *gorm.DB, name string) (*models.Tag, error) {
	tag := models.Tag{Name: name}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&tag).Error; err != nil {
		return nil, fmt.Errorf("%w: creating tag %q: %v", apperr.ErrStore, name, err)
	}
	// On conflict the returned struct keeps a zero ID; re-read either way so
	// the caller always sees the canonical row.
	if err := db.Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, fmt.Errorf("%w: resolving tag %q: %v", apperr.ErrStore, name, err)
	}
	return &tag, nil
}

func refreshUsageCounts(db *gorm.DB, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	err := db.Exec(`UPDATE tags
		SET usage_count = (SELECT count(*) FROM memory_tags WHERE memory_tags.tag_id = tags.id)
		WHERE id IN ?`, dedupe(tagIDs)).Error
	if err != nil {
		return fmt.Errorf("%w: refreshing usage counts: %v", apperr.ErrStore, err)
	}
	return nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package models

import "time"

// Tag is part of a global vocabulary shared across all users. Names are
// stored normalized (lowercase, no leading '#') and never deleted by normal
// flows. UsageCount tracks live memory_tags references.
type Tag struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	Name       string `gorm:"size:50;not null;uniqueIndex"`
	UsageCount int64  `gorm:"not null;default:0"`
}

// MemoryTag is the memory<->tag join row. A (memory, tag) pair is unique.
type MemoryTag struct {
	MemoryID uint `gorm:"primaryKey;autoIncrement:false"`
	TagID    uint `gorm:"primaryKey;autoIncrement:false"`
}

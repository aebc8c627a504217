package models

import "time"

// MemoryMedia is one photo attached to a memory. DisplayOrder is a dense
// 0-based rank in insertion order; deletes re-pack the remaining rows.
type MemoryMedia struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MemoryID     uint   `gorm:"index;not null"`
	StoragePath  string `gorm:"size:512;not null"` // relative to the upload base
	ThumbPath    string `gorm:"size:512"`
	ContentType  string `gorm:"size:128"`
	FileSize     int64
	Caption      string `gorm:"size:255"`
	DisplayOrder int    `gorm:"not null;default:0"`
}

package models

import "time"

// Memory is a single captured story. Owned exclusively by one user; only the
// owner may mutate or delete it. Deleting a memory also removes its tag
// associations and media rows.
type Memory struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	UserID     uint       `gorm:"index;not null"`
	Title      string     `gorm:"size:200;not null"`
	Content    string     `gorm:"type:text;not null"`
	MemoryDate *time.Time `json:"memory_date,omitempty"`
	Location   string     `gorm:"size:200"`
	IsPrivate  bool       `gorm:"default:true;not null"`
	Media      []MemoryMedia `gorm:"foreignKey:MemoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Tags       []Tag         `gorm:"many2many:memory_tags;"`
}

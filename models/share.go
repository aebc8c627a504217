package models

import "time"

// PermissionView is the only share permission currently issued.
const PermissionView = "view"

// SharedMemory grants one connected user view access to one memory. Revoking
// sets RevokedAt instead of deleting, so history is kept; only rows with a
// null RevokedAt count as active.
type SharedMemory struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	MemoryID     uint   `gorm:"index;not null"`
	Memory       Memory `gorm:"foreignKey:MemoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	OwnerID      uint   `gorm:"index;not null"`
	SharedWithID uint   `gorm:"index;not null"`
	Permission   string `gorm:"size:16;not null;default:view"`
	RevokedAt    *time.Time
}

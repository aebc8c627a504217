package models

import "time"

// Profile represents a user's public-facing details (one-to-one with User).
// Created during registration and mutated only by its owner.
type Profile struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"uniqueIndex;not null"` // one-to-one relation
	User      User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FullName  string `gorm:"size:100;not null"`
	Bio       string `gorm:"size:500"`
	AvatarURL string `gorm:"size:512"`
}

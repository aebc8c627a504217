package models

import (
	"time"
)

// User model. Email doubles as the login credential.
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time `gorm:"index"`
	Email          string     `gorm:"size:255;not null;unique"`
	HashedPassword []byte     `gorm:"not null" json:"-"`
	Memories       []Memory
	Profile        *Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

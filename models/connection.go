package models

import "time"

// Family connection statuses. A cancelled pending request is deleted outright
// rather than kept in a terminal state.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionDeclined = "declined"
)

// FamilyConnection links two users. The row is directed (requester sent the
// invite, only the recipient may accept or decline) but the relationship is
// undirected for display, so existence checks must consider both orderings.
type FamilyConnection struct {
	ID                uint `gorm:"primaryKey"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	RequesterID       uint   `gorm:"index;not null"`
	RecipientID       uint   `gorm:"index;not null"`
	RelationshipLabel string `gorm:"size:64;not null"`
	Status            string `gorm:"size:16;not null;default:pending"`
}

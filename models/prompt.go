package models

import "time"

// DailyPrompt is static reference data seeded at migration time (and
// optionally reloaded from PROMPTS_FILE); it is never user-mutable.
type DailyPrompt struct {
	ID           uint   `gorm:"primaryKey"`
	QuestionText string `gorm:"size:512;not null;uniqueIndex"`
	Category     string `gorm:"size:32;not null;index"`
	Depth        string `gorm:"size:16;not null"`
}

// PromptResponse records one answer to a prompt. It may link to a Memory
// created atomically alongside it ("save as memory").
type PromptResponse struct {
	ID                  uint `gorm:"primaryKey"`
	CreatedAt           time.Time
	UserID              uint        `gorm:"index;not null"`
	PromptID            uint        `gorm:"index;not null"`
	Prompt              DailyPrompt `gorm:"foreignKey:PromptID"`
	ResponseText        string      `gorm:"type:text;not null"`
	ConvertedToMemoryID *uint       `gorm:"index"`
}

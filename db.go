package main

import (
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"memorybank/models"
)

var db *gorm.DB

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		autoMigrate(db)
	}
	seedDB()
}

// autoMigrate migrates models individually so a failure on one doesn't block others.
func autoMigrate(db *gorm.DB) {
	// memory_tags is a bare join table with a composite key, not a gorm-managed one.
	if err := db.SetupJoinTable(&models.Memory{}, "Tags", &models.MemoryTag{}); err != nil {
		log.Printf("join table setup warning (memory_tags): %v", err)
	}
	type migration struct {
		name  string
		model any
	}
	for _, m := range []migration{
		{"users", &models.User{}},
		{"profiles", &models.Profile{}},
		{"memories", &models.Memory{}},
		{"memory_media", &models.MemoryMedia{}},
		{"tags", &models.Tag{}},
		{"memory_tags", &models.MemoryTag{}},
		{"family_connections", &models.FamilyConnection{}},
		{"shared_memories", &models.SharedMemory{}},
		{"daily_prompts", &models.DailyPrompt{}},
		{"prompt_responses", &models.PromptResponse{}},
		{"refresh_tokens", &models.RefreshToken{}},
	} {
		if err := db.AutoMigrate(m.model); err != nil {
			log.Printf("migration warning (%s): %v", m.name, err)
		}
	}
}

func seedDB() {
	// Seed the built-in prompt library once; curated files layered on top via
	// PROMPTS_FILE never remove these.
	var count int64
	db.Model(&models.DailyPrompt{}).Count(&count)
	if count == 0 {
		for _, p := range defaultPrompts {
			if err := db.Create(&p).Error; err != nil {
				log.Printf("failed to seed prompt %q: %v", p.QuestionText, err)
			}
		}
		log.Printf("Seeded %d daily prompts", len(defaultPrompts))
	}
	ensureUploadBase()
}

// ensureUploadBase creates the base photo storage directory.
func ensureUploadBase() {
	base := uploadBaseDir()
	if err := os.MkdirAll(base, 0755); err != nil {
		log.Printf("failed to create upload base dir %s: %v", base, err)
	}
}

// uploadBaseDir returns the base directory for stored photos (configurable via UPLOAD_BASE env)
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}

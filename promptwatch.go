package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gorm.io/gorm/clause"

	"memorybank/models"
)

// promptFileEntry is one record in the curated PROMPTS_FILE JSON array.
type promptFileEntry struct {
	QuestionText string `json:"question_text"`
	Category     string `json:"category"`
	Depth        string `json:"depth"`
}

// seedPromptsFromFile layers a curated prompt library on top of the built-in
// one. Entries are keyed by question text; existing rows keep their id so
// answered-prompt history stays intact.
func seedPromptsFromFile(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return err
	}
	var entries []promptFileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	added := 0
	for _, e := range entries {
		if e.QuestionText == "" {
			continue
		}
		if e.Depth == "" {
			e.Depth = "medium"
		}
		p := models.DailyPrompt{QuestionText: e.QuestionText, Category: e.Category, Depth: e.Depth}
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "question_text"}},
			DoUpdates: clause.AssignmentColumns([]string{"category", "depth"}),
		}).Create(&p)
		if res.Error != nil {
			log.Printf("prompt seed failed for %q: %v", e.QuestionText, res.Error)
			continue
		}
		added++
	}
	log.Printf("prompt library: applied %d entries from %s", added, path)
	return nil
}

// watchPromptsFile reseeds the prompt library whenever the curated file
// changes. Editors replace files on save, so Create/Rename count as writes
// and the path is re-added to the watcher afterwards.
func watchPromptsFile(path string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("prompt watcher unavailable: %v", err)
		return
	}
	defer watcher.Close()

	// Watch the directory; watching the file directly breaks across
	// rename-on-save.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		log.Printf("prompt watcher failed to add %s: %v", dir, err)
		return
	}
	target := filepath.Clean(path)

	var last time.Time
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Editors fire bursts of events per save; debounce.
			if time.Since(last) < 500*time.Millisecond {
				continue
			}
			last = time.Now()
			if err := seedPromptsFromFile(path); err != nil {
				log.Printf("prompt reload failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("prompt watcher error: %v", err)
		}
	}
}

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"memorybank/models"
	"memorybank/pkg/apperr"
	"memorybank/pkg/tags"
	"memorybank/pkg/vault"
)

type memoryRequest struct {
	Title      string   `json:"title" binding:"required,max=200"`
	Content    string   `json:"content" binding:"required,max=50000"`
	MemoryDate string   `json:"memory_date"` // optional, YYYY-MM-DD or RFC3339
	Location   string   `json:"location" binding:"max=200"`
	IsPrivate  *bool    `json:"is_private"`
	Tags       []string `json:"tags"`
}

func parseMemoryDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid memory_date")
}

// createMemoryHandler writes the memory and its tag set in one transaction,
// so a failed tag sync never leaves a half-tagged memory behind.
func createMemoryHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req memoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Tags) > tags.MaxPerMemory {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d tags per memory", tags.MaxPerMemory)})
		return
	}
	memoryDate, err := parseMemoryDate(req.MemoryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	isPrivate := true
	if req.IsPrivate != nil {
		isPrivate = *req.IsPrivate
	}
	mem := models.Memory{
		UserID:     userID,
		Title:      req.Title,
		Content:    req.Content,
		MemoryDate: memoryDate,
		Location:   req.Location,
		IsPrivate:  isPrivate,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&mem).Error; err != nil {
			return fmt.Errorf("%w: creating memory: %v", apperr.ErrStore, err)
		}
		if len(req.Tags) > 0 {
			return tags.Sync(tx, mem.ID, req.Tags)
		}
		return nil
	})
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": mem.ID})
}

// listMemoriesHandler lists the caller's own memories, newest first.
func listMemoriesHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var items []models.Memory
	err := db.Preload("Tags").Preload("Media", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("display_order asc")
	}).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Limit(200).
		Find(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// getMemoryHandler returns a memory to its owner, or to anyone holding an
// active share. An explicit share overrides is_private.
func getMemoryHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var mem models.Memory
	err = db.Preload("Tags").Preload("Media", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("display_order asc")
	}).First(&mem, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "memory not found"})
		return
	}
	visible, err := (&vault.Service{DB: db}).CanView(&mem, userID)
	if err != nil {
		abortWith(c, err)
		return
	}
	if !visible {
		// Not distinguishable from a nonexistent memory for outsiders.
		c.JSON(http.StatusNotFound, gin.H{"error": "memory not found"})
		return
	}
	c.JSON(http.StatusOK, mem)
}

func updateMemoryHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	mem, ok := ownedMemory(c, userID)
	if !ok {
		return
	}
	var req memoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Tags) > tags.MaxPerMemory {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d tags per memory", tags.MaxPerMemory)})
		return
	}
	memoryDate, err := parseMemoryDate(req.MemoryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mem.Title = req.Title
	mem.Content = req.Content
	mem.MemoryDate = memoryDate
	mem.Location = req.Location
	if req.IsPrivate != nil {
		mem.IsPrivate = *req.IsPrivate
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(mem).Error; err != nil {
			return fmt.Errorf("%w: updating memory: %v", apperr.ErrStore, err)
		}
		// Full resync: the submitted set replaces whatever was there.
		return tags.Sync(tx, mem.ID, req.Tags)
	})
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": mem.ID})
}

// deleteMemoryHandler removes the memory along with its tag associations and
// media rows; stored photo files are cleaned up after the transaction.
func deleteMemoryHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	mem, ok := ownedMemory(c, userID)
	if !ok {
		return
	}
	var media []models.MemoryMedia
	db.Where("memory_id = ?", mem.ID).Find(&media)

	err := db.Transaction(func(tx *gorm.DB) error {
		// Syncing to an empty set clears associations and fixes usage counts.
		if err := tags.Sync(tx, mem.ID, nil); err != nil {
			return err
		}
		if err := tx.Where("memory_id = ?", mem.ID).Delete(&models.MemoryMedia{}).Error; err != nil {
			return fmt.Errorf("%w: deleting media rows: %v", apperr.ErrStore, err)
		}
		if err := tx.Where("memory_id = ?", mem.ID).Delete(&models.SharedMemory{}).Error; err != nil {
			return fmt.Errorf("%w: deleting shares: %v", apperr.ErrStore, err)
		}
		if err := tx.Delete(mem).Error; err != nil {
			return fmt.Errorf("%w: deleting memory: %v", apperr.ErrStore, err)
		}
		return nil
	})
	if err != nil {
		abortWith(c, err)
		return
	}
	for _, m := range media {
		removeStoredPhoto(m)
	}
	c.JSON(http.StatusOK, gin.H{"message": "memory deleted"})
}

// ownedMemory loads the :id memory and enforces ownership. Writes the error
// response itself when the lookup or check fails.
func ownedMemory(c *gin.Context, userID uint) (*models.Memory, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}
	var mem models.Memory
	if err := db.First(&mem, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "memory not found"})
		return nil, false
	}
	if mem.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your memory"})
		return nil, false
	}
	return &mem, true
}

func removeStoredPhoto(m models.MemoryMedia) {
	base := uploadBaseDir()
	if m.StoragePath != "" {
		_ = os.Remove(filepath.Join(base, m.StoragePath))
	}
	if m.ThumbPath != "" {
		_ = os.Remove(filepath.Join(base, m.ThumbPath))
	}
}

// searchHandler does substring matching over the caller's own memories
// (title, content, location) and merges in memories carrying a tag whose name
// matches, deduped, newest first.
func searchHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, []models.Memory{})
		return
	}
	pattern := "%" + strings.ToLower(query) + "%"

	var textMatches []models.Memory
	err := db.Preload("Tags").
		Where("user_id = ?", userID).
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(location) LIKE ?", pattern, pattern, pattern).
		Order("created_at desc, id desc").
		Limit(50).
		Find(&textMatches).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	var tagIDs []uint
	if err := db.Model(&models.Tag{}).Where("name LIKE ?", pattern).Pluck("id", &tagIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	results := textMatches
	if len(tagIDs) > 0 {
		var taggedMemIDs []uint
		if err := db.Model(&models.MemoryTag{}).Where("tag_id IN ?", tagIDs).Pluck("memory_id", &taggedMemIDs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		seen := make(map[uint]struct{}, len(textMatches))
		for _, m := range textMatches {
			seen[m.ID] = struct{}{}
		}
		var fresh []uint
		for _, id := range taggedMemIDs {
			if _, dup := seen[id]; !dup {
				fresh = append(fresh, id)
				seen[id] = struct{}{}
			}
		}
		if len(fresh) > 0 {
			var tagMatches []models.Memory
			err := db.Preload("Tags").
				Where("user_id = ? AND id IN ?", userID, fresh).
				Order("created_at desc, id desc").
				Find(&tagMatches).Error
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
				return
			}
			results = append(results, tagMatches...)
		}
	}
	c.JSON(http.StatusOK, results)
}

// listTagsHandler exposes the shared vocabulary, most used first.
func listTagsHandler(c *gin.Context) {
	var items []models.Tag
	if err := db.Order("usage_count desc, name asc").Limit(50).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

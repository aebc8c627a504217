package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"memorybank/models"
)

const maxPhotoBytes = 5 * 1024 * 1024

// thumbnail bounding box; photos keep their aspect ratio inside it.
const thumbSize = 480

// uploadPhotoHandler attaches a photo to one of the caller's memories. The
// storage path is random (uuid) so parallel uploads never collide, and
// display_order is assigned densely in insertion order.
func uploadPhotoHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	mem, ok := ownedMemory(c, userID)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > maxPhotoBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only images can be attached"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	relPath := filepath.Join(strconv.FormatUint(uint64(userID), 10), uuid.NewString()+ext)
	base := uploadBaseDir()
	fullPath := filepath.Join(base, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	thumbRel := makeThumbnail(base, relPath)

	var order int64
	db.Model(&models.MemoryMedia{}).Where("memory_id = ?", mem.ID).Count(&order)

	media := models.MemoryMedia{
		MemoryID:     mem.ID,
		StoragePath:  relPath,
		ThumbPath:    thumbRel,
		ContentType:  contentType,
		FileSize:     file.Size,
		Caption:      c.PostForm("caption"),
		DisplayOrder: int(order),
	}
	if err := db.Create(&media).Error; err != nil {
		_ = os.Remove(fullPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":            media.ID,
		"path":          relPath,
		"thumb_path":    thumbRel,
		"display_order": media.DisplayOrder,
	})
}

// makeThumbnail writes a bounded JPEG next to the stored photo and returns
// its relative path, or "" when the image cannot be decoded.
func makeThumbnail(base, relPath string) string {
	src, err := imaging.Open(filepath.Join(base, relPath))
	if err != nil {
		return ""
	}
	thumb := imaging.Fit(src, thumbSize, thumbSize, imaging.Lanczos)
	ext := filepath.Ext(relPath)
	thumbRel := strings.TrimSuffix(relPath, ext) + "_thumb.jpg"
	if err := imaging.Save(thumb, filepath.Join(base, thumbRel)); err != nil {
		return ""
	}
	return thumbRel
}

// deletePhotoHandler removes one photo and re-packs display_order so the
// remaining sequence stays dense.
func deletePhotoHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	mem, ok := ownedMemory(c, userID)
	if !ok {
		return
	}
	mediaID, err := strconv.ParseUint(c.Param("mediaID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
		return
	}
	var media models.MemoryMedia
	if err := db.Where("memory_id = ?", mem.ID).First(&media, mediaID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}
	if err := db.Delete(&media).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	removeStoredPhoto(media)

	var remaining []models.MemoryMedia
	db.Where("memory_id = ?", mem.ID).Order("display_order asc, id asc").Find(&remaining)
	for i, m := range remaining {
		if m.DisplayOrder != i {
			if err := db.Model(&m).Update("display_order", i).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("reorder failed: %v", err)})
				return
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "photo removed"})
}

package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"memorybank/models"
	"memorybank/pkg/apperr"
	"memorybank/pkg/prompts"
)

// dailyPromptHandler returns today's prompt for the caller. The choice is a
// pure function of user + date, so nothing is written here.
func dailyPromptHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	selector := &prompts.Selector{DB: db}
	p, err := selector.TodayFor(userID)
	if err != nil {
		abortWith(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusOK, gin.H{"prompt": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompt": p})
}

// answerPromptHandler records a response; with convert_to_memory set the
// response and its memory are created in one transaction, the memory titled
// with the prompt question.
func answerPromptHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	promptID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prompt id"})
		return
	}
	var req struct {
		ResponseText    string `json:"response_text" binding:"required,max=50000"`
		ConvertToMemory bool   `json:"convert_to_memory"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var prompt models.DailyPrompt
	if err := db.First(&prompt, promptID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "prompt not found"})
		return
	}

	response := models.PromptResponse{
		UserID:       userID,
		PromptID:     prompt.ID,
		ResponseText: req.ResponseText,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if req.ConvertToMemory {
			mem := models.Memory{
				UserID:    userID,
				Title:     prompt.QuestionText,
				Content:   req.ResponseText,
				IsPrivate: true,
			}
			if err := tx.Create(&mem).Error; err != nil {
				return fmt.Errorf("%w: creating memory: %v", apperr.ErrStore, err)
			}
			response.ConvertedToMemoryID = &mem.ID
		}
		if err := tx.Create(&response).Error; err != nil {
			return fmt.Errorf("%w: saving response: %v", apperr.ErrStore, err)
		}
		return nil
	})
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                     response.ID,
		"converted_to_memory_id": response.ConvertedToMemoryID,
	})
}

// promptHistoryHandler lists the caller's responses with their prompts,
// newest first.
func promptHistoryHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var items []models.PromptResponse
	err := db.Preload("Prompt").
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

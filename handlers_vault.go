package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"memorybank/pkg/vault"
)

func vaultService() *vault.Service {
	return &vault.Service{DB: db}
}

// vaultHandler shows both directions: what others shared with me and what I
// have shared out.
func vaultHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	svc := vaultService()
	sharedWithMe, err := svc.SharedWith(userID)
	if err != nil {
		abortWith(c, err)
		return
	}
	sharedByMe, err := svc.SharedBy(userID)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shared_with_me": sharedWithMe,
		"shared_by_me":   sharedByMe,
	})
}

func shareMemoryHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		MemoryID     uint `json:"memory_id" binding:"required"`
		SharedWithID uint `json:"shared_with_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	share, err := vaultService().Share(req.MemoryID, userID, req.SharedWithID)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": share.ID, "permission": share.Permission})
}

func revokeShareHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	shareID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := vaultService().Revoke(uint(shareID), userID); err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "share revoked"})
}

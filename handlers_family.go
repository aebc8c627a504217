package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"memorybank/pkg/family"
)

func familyService() *family.Service {
	return &family.Service{DB: db}
}

func listConnectionsHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	conns, err := familyService().ListFor(userID)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, conns)
}

func inviteHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Email             string `json:"email" binding:"required"`
		RelationshipLabel string `json:"relationship_label"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	conn, err := familyService().Request(userID, req.Email, req.RelationshipLabel)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": conn.ID, "status": conn.Status})
}

func acceptConnectionHandler(c *gin.Context) {
	resolveConnection(c, true)
}

func declineConnectionHandler(c *gin.Context) {
	resolveConnection(c, false)
}

func resolveConnection(c *gin.Context, accept bool) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	connID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	svc := familyService()
	var resolveErr error
	if accept {
		_, resolveErr = svc.Accept(userID, uint(connID))
	} else {
		_, resolveErr = svc.Decline(userID, uint(connID))
	}
	if resolveErr != nil {
		abortWith(c, resolveErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "connection updated"})
}

// deleteConnectionHandler cancels a pending request (requester only) or
// removes an accepted connection (either party).
func deleteConnectionHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	connID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := familyService().Delete(userID, uint(connID)); err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "connection removed"})
}

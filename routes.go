package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"memorybank/pkg/apperr"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)

	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.GET("/profile", getProfileHandler)
	authGroup.PUT("/profile", updateProfileHandler)

	authGroup.POST("/memories", createMemoryHandler)
	authGroup.GET("/memories", listMemoriesHandler)
	authGroup.GET("/memories/:id", getMemoryHandler)
	authGroup.PUT("/memories/:id", updateMemoryHandler)
	authGroup.DELETE("/memories/:id", deleteMemoryHandler)
	authGroup.POST("/memories/:id/photos", uploadPhotoHandler)
	authGroup.DELETE("/memories/:id/photos/:mediaID", deletePhotoHandler)
	authGroup.GET("/search", searchHandler)
	authGroup.GET("/tags", listTagsHandler)

	authGroup.GET("/prompts/today", dailyPromptHandler)
	authGroup.POST("/prompts/:id/responses", answerPromptHandler)
	authGroup.GET("/prompts/history", promptHistoryHandler)

	authGroup.GET("/family", listConnectionsHandler)
	authGroup.POST("/family/invite", inviteHandler)
	authGroup.POST("/family/:id/accept", acceptConnectionHandler)
	authGroup.POST("/family/:id/decline", declineConnectionHandler)
	authGroup.DELETE("/family/:id", deleteConnectionHandler)

	authGroup.GET("/vault", vaultHandler)
	authGroup.POST("/vault/share", shareMemoryHandler)
	authGroup.POST("/vault/shares/:id/revoke", revokeShareHandler)
}

// abortWith translates a component error kind into an HTTP status. The raw
// store failure is only ever logged here, never surfaced to clients.
func abortWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrAuthorization):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ruta_cafe/internal/middleware"
	"ruta_cafe/internal/moderation"
)

// viewer returns the moderation actor for the current request.
// Unauthenticated requests come back as Visitor.
func viewer(c *gin.Context) moderation.Actor {
	return middleware.ActorFromContext(c)
}

// transitionInput is the admin payload for approving or rejecting a
// route or place.
type transitionInput struct {
	Estado     string `json:"estado" binding:"required"`
	Comentario string `json:"comentario"`
}

// writeModerationError maps the moderation error taxonomy onto HTTP
// status codes. Every one of these is terminal for the request; none
// are retried.
func writeModerationError(c *gin.Context, err error) {
	var vErr *moderation.ValidationError
	switch {
	case errors.Is(err, moderation.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, moderation.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, moderation.ErrPendingExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

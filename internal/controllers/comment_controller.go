package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ruta_cafe/internal/config"
	"ruta_cafe/internal/models"
)

// CreateComment posts a comment on a place. Commenting is deliberately
// not gated on moderation status: a rejected place still accepts
// comments, the opinion is about the place, not its approval.
func CreateComment(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place ID"})
		return
	}

	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var place models.Place
	if err := config.DB.First(&place, pID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Place not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	comment := models.Comment{
		PlaceID: place.ID,
		UserID:  viewer(c).ID,
		Text:    input.Text,
	}
	if err := config.DB.Create(&comment).Error; err != nil {
		logrus.WithError(err).Error("CreateComment: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create comment failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// ListComments returns the comments on a place, most recent first.
func ListComments(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place ID"})
		return
	}

	var comments []models.Comment
	if err := config.DB.Preload("User").Where("place_id = ?", pID).
		Order("created_at DESC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// DeleteComment removes a comment. The author can delete their own;
// an administrator can delete any (moderation of abusive content).
func DeleteComment(c *gin.Context) {
	cID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	var comment models.Comment
	if err := config.DB.First(&comment, cID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	actor := viewer(c)
	if actor.Role != models.RoleAdministrator && comment.UserID != actor.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author or an administrator can delete this comment"})
		return
	}

	if err := config.DB.Unscoped().Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

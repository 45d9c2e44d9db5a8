package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"ruta_cafe/internal/config"
	"ruta_cafe/internal/models"
)

// LikePlace records a like from the authenticated user. Likes stay open
// on rejected places, same as comments.
func LikePlace(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place ID"})
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

	like := models.Like{PlaceID: place.ID, UserID: viewer(c).ID}
	if err := config.DB.Create(&like).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "already liked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Like failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"like": like})
}

// UnlikePlace removes the caller's like, if any.
func UnlikePlace(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place ID"})
		return
	}

	res := config.DB.Unscoped().
		Where("place_id = ? AND user_id = ?", pID, viewer(c).ID).
		Delete(&models.Like{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unlike failed: " + res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Like not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Like removed"})
}

// CountLikes returns how many likes a place has.
func CountLikes(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place ID"})
		return
	}

	var count int64
	if err := config.DB.Model(&models.Like{}).Where("place_id = ?", pID).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"place_id": pID, "likes": count})
}

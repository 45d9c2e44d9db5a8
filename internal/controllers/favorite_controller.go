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
	"ruta_cafe/internal/moderation"
)

// FavoritePlace saves a place to the caller's favorites list.
func FavoritePlace(c *gin.Context) {
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

	fav := models.Favorite{PlaceID: place.ID, UserID: viewer(c).ID}
	if err := config.DB.Create(&fav).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "already in favorites"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Favorite failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"favorite": fav})
}

// UnfavoritePlace removes a place from the caller's favorites.
func UnfavoritePlace(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place ID"})
		return
	}

	res := config.DB.Unscoped().
		Where("place_id = ? AND user_id = ?", pID, viewer(c).ID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unfavorite failed: " + res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}

// ListFavorites returns the caller's saved places. Places that have
// since lost visibility for the caller are filtered the same way as the
// main listing, so a demoted place silently drops off the list.
func ListFavorites(c *gin.Context) {
	actor := viewer(c)

	var favorites []models.Favorite
	if err := config.DB.Preload("Place").Where("user_id = ?", actor.ID).
		Order("created_at DESC").Find(&favorites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}

	out := make([]gin.H, 0, len(favorites))
	for _, f := range favorites {
		if !moderation.CanView(f.Place, actor) {
			continue
		}
		out = append(out, gin.H{
			"ID":        f.ID,
			"CreatedAt": f.CreatedAt,
			"place":     toPlaceResponse(f.Place, actor),
		})
	}
	c.JSON(http.StatusOK, gin.H{"favorites": out})
}
